package domain

import (
	"time"

	"github.com/google/uuid"
)

type Sale struct {
	ID        string     `db:"id"` // UUID
	ClientID  int64      `db:"client_id"`
	Courier   string     `db:"courier"`
	SaleType  string     `db:"sale_type"`
	Discount  Cents      `db:"discount"`
	Subtotal  Cents      `db:"subtotal"`
	Total     Cents      `db:"total"`
	CreatedAt time.Time  `db:"created_at"`
	Items     []SaleItem `db:"-"`
}

type SaleItem struct {
	SaleID    string `db:"sale_id"`
	ProductID int64  `db:"product_id"`
	UnitPrice Cents  `db:"unit_price"`
	Quantity  int    `db:"quantity"`
}

// NewSaleFromCart freezes a cart into a sale record. The cart must be bound
// to a client.
func NewSaleFromCart(cart *Cart) *Sale {
	sale := &Sale{
		ID:        uuid.New().String(),
		ClientID:  cart.Client.ID,
		Courier:   cart.Courier,
		SaleType:  cart.SaleType,
		Discount:  cart.Discount,
		Subtotal:  cart.Subtotal(),
		Total:     cart.Total(),
		CreatedAt: time.Now(),
		Items:     make([]SaleItem, 0, len(cart.Lines)),
	}
	for _, l := range cart.Lines {
		sale.Items = append(sale.Items, SaleItem{
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return sale
}
