package domain

import (
	"time"

	"github.com/google/uuid"
)

// Terminal is a registered point-of-sale device authenticating with the
// client-credentials grant.
type Terminal struct {
	ID        string    `db:"id"`     // UUID
	Secret    string    `db:"secret"` // bcrypt hashed
	Label     string    `db:"label"`
	Scopes    []string  `db:"-"` // stored as JSON
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewTerminal(label, hashedSecret string, scopes []string) *Terminal {
	now := time.Now()
	return &Terminal{
		ID:        uuid.New().String(),
		Secret:    hashedSecret,
		Label:     label,
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
