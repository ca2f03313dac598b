package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
)

// terminalRow mirrors the terminal table; scopes are stored as a JSON array.
type terminalRow struct {
	domain.Terminal
	ScopesJSON string `db:"scopes"`
}

func (row terminalRow) toDomain() (*domain.Terminal, error) {
	t := row.Terminal
	if err := json.Unmarshal([]byte(row.ScopesJSON), &t.Scopes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scopes: %w", err)
	}
	return &t, nil
}

type terminalRepository struct {
	db *DB
}

func NewTerminalRepository(db *DB) repository.TerminalRepository {
	return &terminalRepository{db: db}
}

func (r *terminalRepository) Create(ctx context.Context, terminal *domain.Terminal) error {
	scopesJSON, err := json.Marshal(terminal.Scopes)
	if err != nil {
		return fmt.Errorf("failed to marshal scopes: %w", err)
	}

	query := `
		INSERT INTO terminal (id, secret, label, scopes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		terminal.ID,
		terminal.Secret,
		terminal.Label,
		string(scopesJSON),
		terminal.CreatedAt,
		terminal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	return nil
}

func (r *terminalRepository) FindByID(ctx context.Context, id string) (*domain.Terminal, error) {
	query := `
		SELECT id, secret, label, scopes, created_at, updated_at
		FROM terminal
		WHERE id = ?
	`
	var row terminalRow
	err := r.db.QueryRowxContext(ctx, query, id).Scan(
		&row.ID, &row.Secret, &row.Label, &row.ScopesJSON, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: terminal %s", repository.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find terminal: %w", err)
	}
	return row.toDomain()
}

func (r *terminalRepository) Update(ctx context.Context, terminal *domain.Terminal) error {
	scopesJSON, err := json.Marshal(terminal.Scopes)
	if err != nil {
		return fmt.Errorf("failed to marshal scopes: %w", err)
	}

	query := `
		UPDATE terminal
		SET label = ?, scopes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		terminal.Label,
		string(scopesJSON),
		terminal.UpdatedAt,
		terminal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update terminal: %w", err)
	}
	return expectOneRow(result, "terminal", terminal.ID)
}

func (r *terminalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM terminal WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete terminal: %w", err)
	}
	return expectOneRow(result, "terminal", id)
}

func (r *terminalRepository) List(ctx context.Context) ([]*domain.Terminal, error) {
	query := `
		SELECT id, secret, label, scopes, created_at, updated_at
		FROM terminal
		ORDER BY label
	`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list terminals: %w", err)
	}
	defer rows.Close()

	terminals := []*domain.Terminal{}
	for rows.Next() {
		var row terminalRow
		if err := rows.Scan(&row.ID, &row.Secret, &row.Label, &row.ScopesJSON, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan terminal: %w", err)
		}
		terminal, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		terminals = append(terminals, terminal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating terminals: %w", err)
	}

	return terminals, nil
}
