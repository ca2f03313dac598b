package domain

import "time"

// DateLayout is the calendar date format products are stored with.
const DateLayout = "2006-01-02"

type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Product struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	PurchasePrice Cents     `db:"purchase_price"`
	SalePrice     Cents     `db:"sale_price"`
	Quantity      int       `db:"quantity"`
	Image         *string   `db:"image"`
	EntryDate     string    `db:"entry_date"`
	ExpiryDate    string    `db:"expiry_date"`
	CategoryID    int64     `db:"category_id"`
	CreatedAt     time.Time `db:"created_at"`
}

// ProductForm is the registration form as typed by an operator. Every field
// is kept as entered so a half-filled form can be stored as a draft.
type ProductForm struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	PurchasePrice string  `json:"purchase_price"`
	SalePrice     string  `json:"sale_price"`
	Quantity      string  `json:"quantity"`
	EntryDate     string  `json:"entry_date"`
	ExpiryDate    string  `json:"expiry_date"`
	CategoryID    *int64  `json:"category_id,omitempty"`
	Image         *string `json:"image,omitempty"`
}

// IsEmpty reports whether nothing has been entered yet.
func (f ProductForm) IsEmpty() bool {
	return f == ProductForm{}
}
