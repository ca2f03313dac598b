package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
)

// ErrInsufficientStock is returned when a sale asks for more units than a
// product has.
var ErrInsufficientStock = errors.New("insufficient stock")
