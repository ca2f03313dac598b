package repository

import (
	"context"

	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
)

type SaleFilter struct {
	util.ListFilter
}

type SaleRepository interface {
	// Register stores the sale and its items and takes the sold quantities
	// out of product stock, all in one transaction. Returns
	// ErrInsufficientStock when a product cannot cover its line.
	Register(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*domain.Sale, error)
	Count(ctx context.Context, filter SaleFilter) (int, error)
}
