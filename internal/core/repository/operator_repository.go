package repository

import (
	"context"

	"github.com/martijn/stockpoint/internal/core/domain"
)

type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
	Update(ctx context.Context, operator *domain.Operator) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*domain.Operator, error)
}

type AuthCodeRepository interface {
	Create(ctx context.Context, authCode *domain.AuthCode) error
	FindByCode(ctx context.Context, code string) (*domain.AuthCode, error)
	Delete(ctx context.Context, code string) error
	DeleteExpired(ctx context.Context) error
}

type TerminalRepository interface {
	Create(ctx context.Context, terminal *domain.Terminal) error
	FindByID(ctx context.Context, id string) (*domain.Terminal, error)
	Update(ctx context.Context, terminal *domain.Terminal) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Terminal, error)
}
