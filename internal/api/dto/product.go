package dto

import (
	"time"

	"github.com/martijn/stockpoint/internal/core/domain"
)

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategoryResponses(categories []*domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		items[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return items
}

// ProductFormRequest is the registration form; it doubles as the draft body.
// Prices are decimal strings ("12.50" or "12,50"), dates YYYY-MM-DD or RFC3339.
type ProductFormRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PurchasePrice string  `json:"purchase_price"`
	SalePrice     string  `json:"sale_price"`
	Quantity      string  `json:"quantity"`
	EntryDate     string  `json:"entry_date"`
	ExpiryDate    string  `json:"expiry_date"`
	CategoryID    *int64  `json:"category_id,omitempty"`
	Image         *string `json:"image,omitempty" binding:"omitempty,uri"`
}

func (r ProductFormRequest) ToDomain() domain.ProductForm {
	return domain.ProductForm(r)
}

func NewProductFormResponse(f domain.ProductForm) ProductFormRequest {
	return ProductFormRequest(f)
}

type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PurchasePrice string    `json:"purchase_price"`
	SalePrice     string    `json:"sale_price"`
	Quantity      int       `json:"quantity"`
	Image         *string   `json:"image,omitempty"`
	EntryDate     string    `json:"entry_date"`
	ExpiryDate    string    `json:"expiry_date"`
	CategoryID    int64     `json:"category_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}

func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice.String(),
		SalePrice:     p.SalePrice.String(),
		Quantity:      p.Quantity,
		Image:         p.Image,
		EntryDate:     p.EntryDate,
		ExpiryDate:    p.ExpiryDate,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
	}
}
