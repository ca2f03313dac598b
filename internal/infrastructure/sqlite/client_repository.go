package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
)

const clientColumns = `id, full_name, national_id, created_at`

type clientRepository struct {
	db *DB
}

func NewClientRepository(db *DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) CreateUnique(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.GetContext(ctx, &existingID, `SELECT id FROM client WHERE national_id = ?`, client.NationalID)
	if err == nil {
		return nil, fmt.Errorf("%w: client with national id %s", repository.ErrDuplicate, client.NationalID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check national id: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO client (full_name, national_id, created_at)
		VALUES (?, ?, ?)
	`, client.FullName, client.NationalID, client.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: client with national id %s", repository.ErrDuplicate, client.NationalID)
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	var created domain.Client
	if err := tx.GetContext(ctx, &created, `SELECT `+clientColumns+` FROM client WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to read created client: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit client: %w", err)
	}

	return &created, nil
}

func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, `SELECT `+clientColumns+` FROM client WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: client %d", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, `SELECT `+clientColumns+` FROM client WHERE national_id = ?`, nationalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: client with national id %s", repository.ErrNotFound, nationalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) SearchByNationalID(ctx context.Context, term string) ([]*domain.Client, error) {
	// instr is case sensitive and has no wildcards, unlike LIKE.
	query := `SELECT ` + clientColumns + ` FROM client WHERE instr(national_id, ?) > 0 ORDER BY id`

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, term); err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) List(ctx context.Context, filter repository.ClientFilter) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM client WHERE 1=1`
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "full_name ASC")
	query, args = ApplyPagination(query, args, filter.Page, filter.PerPage)

	clients := []*domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context, filter repository.ClientFilter) (int, error) {
	query := `SELECT COUNT(*) FROM client WHERE 1=1`
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
