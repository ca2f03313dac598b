package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/martijn/stockpoint/internal/core/repository"
)

type draftRepository struct {
	db *DB
}

func NewDraftRepository(db *DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Put(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO draft (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(payload), time.Now()); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (r *draftRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM draft WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: draft %s", repository.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return []byte(payload), nil
}

// Delete is a no-op when nothing is stored under key.
func (r *draftRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM draft WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
