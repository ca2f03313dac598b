package repository

import (
	"context"

	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
)

// ClientFilter embeds ListFilter for generic query/order/pagination
type ClientFilter struct {
	util.ListFilter
}

type ClientRepository interface {
	// CreateUnique checks for an existing client with the same national ID,
	// inserts and re-reads the row in a single transaction. Returns
	// ErrDuplicate when the national ID is taken.
	CreateUnique(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.Client, error)

	// SearchByNationalID returns clients whose national ID contains term,
	// in storage order.
	SearchByNationalID(ctx context.Context, term string) ([]*domain.Client, error)

	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, error)
	Count(ctx context.Context, filter ClientFilter) (int, error)
}
