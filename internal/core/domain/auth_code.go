package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthCode is a single-use code an operator exchanges for an access token.
type AuthCode struct {
	Code      string    `db:"code"`
	Username  string    `db:"username"`
	Scopes    []string  `db:"-"` // stored as JSON
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func NewAuthCode(username string, scopes []string, ttl time.Duration) *AuthCode {
	now := time.Now()
	return &AuthCode{
		Code:      uuid.New().String(),
		Username:  username,
		Scopes:    scopes,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func (a *AuthCode) IsExpired() bool {
	return time.Now().After(a.ExpiresAt)
}
