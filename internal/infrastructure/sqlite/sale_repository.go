package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
)

const saleColumns = `id, client_id, courier, sale_type, discount, subtotal, total, created_at`

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) repository.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Register(ctx context.Context, sale *domain.Sale) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sale (id, client_id, courier, sale_type, discount, subtotal, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sale.ID,
		sale.ClientID,
		sale.Courier,
		sale.SaleType,
		sale.Discount,
		sale.Subtotal,
		sale.Total,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	for _, item := range sale.Items {
		// The quantity guard makes the decrement fail instead of going negative.
		result, err := tx.ExecContext(ctx,
			`UPDATE product SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
			item.Quantity, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w: product %d", repository.ErrInsufficientStock, item.ProductID)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_item (sale_id, product_id, unit_price, quantity)
			VALUES (?, ?, ?, ?)
		`, sale.ID, item.ProductID, item.UnitPrice, item.Quantity)
		if err != nil {
			return fmt.Errorf("failed to create sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale: %w", err)
	}
	return nil
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.GetContext(ctx, &sale, `SELECT `+saleColumns+` FROM sale WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sale %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	sale.Items = []domain.SaleItem{}
	err = r.db.SelectContext(ctx, &sale.Items, `
		SELECT sale_id, product_id, unit_price, quantity
		FROM sale_item
		WHERE sale_id = ?
		ORDER BY rowid
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}

	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filter repository.SaleFilter) ([]*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sale WHERE 1=1`
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "created_at DESC")
	query, args = ApplyPagination(query, args, filter.Page, filter.PerPage)

	sales := []*domain.Sale{}
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (r *saleRepository) Count(ctx context.Context, filter repository.SaleFilter) (int, error) {
	query := `SELECT COUNT(*) FROM sale WHERE 1=1`
	args := []interface{}{}

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count sales: %w", err)
	}
	return count, nil
}
