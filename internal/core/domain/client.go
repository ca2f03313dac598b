package domain

import (
	"strings"
	"time"
)

// Client is a person that can be attached to a sale. NationalID is unique
// across all clients and is the key operators search by.
type Client struct {
	ID         int64     `db:"id"`
	FullName   string    `db:"full_name"`
	NationalID string    `db:"national_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func NewClient(fullName, nationalID string) *Client {
	return &Client{
		FullName:   strings.TrimSpace(fullName),
		NationalID: strings.TrimSpace(nationalID),
		CreatedAt:  time.Now(),
	}
}

// ValidNationalID reports whether id, once trimmed, is a non-empty run of
// ASCII digits.
func ValidNationalID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
