package dto

import "time"

type CreateTerminalRequest struct {
	Label  string   `json:"label" binding:"required"`
	Scopes []string `json:"scopes"`
}

type UpdateTerminalRequest struct {
	Label  string   `json:"label"`
	Scopes []string `json:"scopes"`
}

type TerminalResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TerminalCreateResponse includes the plain secret, shown only once
type TerminalCreateResponse struct {
	TerminalResponse
	Secret string `json:"secret"`
}
