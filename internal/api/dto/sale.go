package dto

import (
	"time"

	"github.com/martijn/stockpoint/internal/core/domain"
)

type SaleItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateSaleRequest is the cart as sent by a terminal. Discount is a decimal
// string in currency units.
type CreateSaleRequest struct {
	ClientID int64             `json:"client_id"`
	Courier  string            `json:"courier"`
	SaleType string            `json:"sale_type"`
	Discount string            `json:"discount"`
	Items    []SaleItemRequest `json:"items" binding:"dive"`
}

type SaleItemResponse struct {
	ProductID int64  `json:"product_id"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Amount    string `json:"amount"`
}

type SaleResponse struct {
	ID        string             `json:"id"`
	ClientID  int64              `json:"client_id"`
	Courier   string             `json:"courier,omitempty"`
	SaleType  string             `json:"sale_type,omitempty"`
	Discount  string             `json:"discount"`
	Subtotal  string             `json:"subtotal"`
	Total     string             `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []SaleItemResponse `json:"items,omitempty"`
}

type SaleListResponse struct {
	Items      []SaleResponse `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

func NewSaleResponse(s *domain.Sale) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		ClientID:  s.ClientID,
		Courier:   s.Courier,
		SaleType:  s.SaleType,
		Discount:  s.Discount.String(),
		Subtotal:  s.Subtotal.String(),
		Total:     s.Total.String(),
		CreatedAt: s.CreatedAt,
	}
	for _, item := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
			Amount:    (item.UnitPrice * domain.Cents(item.Quantity)).String(),
		})
	}
	return resp
}
