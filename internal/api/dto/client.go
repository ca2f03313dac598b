package dto

import (
	"time"

	"github.com/martijn/stockpoint/internal/core/domain"
)

// CreateClientRequest is the body of POST /clients. Blank fields are reported
// by the service, so they are not marked required here.
type CreateClientRequest struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id" binding:"omitempty,digits"`
}

type ClientResponse struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	NationalID string    `json:"national_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type ClientListResponse struct {
	Items      []ClientResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

func NewClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		FullName:   c.FullName,
		NationalID: c.NationalID,
		CreatedAt:  c.CreatedAt,
	}
}

func NewClientResponses(clients []*domain.Client) []ClientResponse {
	items := make([]ClientResponse, len(clients))
	for i, c := range clients {
		items[i] = NewClientResponse(c)
	}
	return items
}
