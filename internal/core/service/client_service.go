package service

import (
	"context"
	"errors"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"go.uber.org/zap"
)

const (
	msgCompleteAllFields = "complete all fields"
	msgDuplicateClient   = "client with this ID already exists"
	msgNationalIDDigits  = "national ID must contain only digits"
)

type ClientService struct {
	repo repository.ClientRepository
	log  *zap.Logger
}

func NewClientService(repo repository.ClientRepository, log *zap.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

// SearchClients returns the clients whose national ID contains term, in
// storage order. An empty term matches nothing and does not hit the store.
func (s *ClientService) SearchClients(ctx context.Context, term string) ([]*domain.Client, error) {
	if term == "" {
		return []*domain.Client{}, nil
	}

	clients, err := s.repo.SearchByNationalID(ctx, term)
	if err != nil {
		return nil, &StoreError{Op: "search clients", Err: err}
	}
	return clients, nil
}

// CreateClient validates and stores a new client. The national ID check and
// the insert run in one transaction.
func (s *ClientService) CreateClient(ctx context.Context, fullName, nationalID string) (*domain.Client, error) {
	client := domain.NewClient(fullName, nationalID)

	var missing []string
	if client.FullName == "" {
		missing = append(missing, "full_name")
	}
	if client.NationalID == "" {
		missing = append(missing, "national_id")
	}
	if len(missing) > 0 {
		return nil, NewValidationError(msgCompleteAllFields, missing...)
	}
	if !domain.ValidNationalID(client.NationalID) {
		return nil, NewValidationError(msgNationalIDDigits, "national_id")
	}

	created, err := s.repo.CreateUnique(ctx, client)
	if errors.Is(err, repository.ErrDuplicate) {
		s.log.Info("client rejected, national id taken", zap.String("national_id", client.NationalID))
		return nil, &DuplicateError{Message: msgDuplicateClient}
	}
	if err != nil {
		s.log.Error("failed to create client", zap.Error(err))
		return nil, &StoreError{Op: "create client", Err: err}
	}

	s.log.Info("client created",
		zap.Int64("client_id", created.ID),
		zap.String("national_id", created.NationalID),
	)

	return created, nil
}

func (s *ClientService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "client", Key: formatID(id)}
	}
	if err != nil {
		return nil, &StoreError{Op: "get client", Err: err}
	}
	return client, nil
}

func (s *ClientService) FindByNationalID(ctx context.Context, nationalID string) (*domain.Client, error) {
	client, err := s.repo.FindByNationalID(ctx, nationalID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "client", Key: nationalID}
	}
	if err != nil {
		return nil, &StoreError{Op: "find client", Err: err}
	}
	return client, nil
}

func (s *ClientService) ListClients(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	clients, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "list clients", Err: err}
	}
	return clients, nil
}

func (s *ClientService) CountClients(ctx context.Context, filter repository.ClientFilter) (int, error) {
	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, &StoreError{Op: "count clients", Err: err}
	}
	return count, nil
}
