package domain

import "time"

// Operator is a shop employee allowed to sign in to the API.
type Operator struct {
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	Password    string    `db:"password"` // bcrypt hashed
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func NewOperator(username, displayName, hashedPassword string) *Operator {
	now := time.Now()
	if displayName == "" {
		displayName = username
	}
	return &Operator{
		Username:    username,
		DisplayName: displayName,
		Password:    hashedPassword,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
