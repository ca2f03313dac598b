package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
)

type operatorRepository struct {
	db *DB
}

func NewOperatorRepository(db *DB) repository.OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	query := `
		INSERT INTO operator (username, display_name, password, created_at, updated_at)
		VALUES (:username, :display_name, :password, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, operator); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: operator %s", repository.ErrDuplicate, operator.Username)
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *operatorRepository) FindByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	query := `
		SELECT username, display_name, password, created_at, updated_at
		FROM operator
		WHERE username = ?
	`
	var operator domain.Operator
	err := r.db.GetContext(ctx, &operator, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: operator %s", repository.ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	return &operator, nil
}

func (r *operatorRepository) Update(ctx context.Context, operator *domain.Operator) error {
	query := `
		UPDATE operator
		SET display_name = :display_name, password = :password, updated_at = :updated_at
		WHERE username = :username
	`
	result, err := r.db.NamedExecContext(ctx, query, operator)
	if err != nil {
		return fmt.Errorf("failed to update operator: %w", err)
	}
	return expectOneRow(result, "operator", operator.Username)
}

func (r *operatorRepository) Delete(ctx context.Context, username string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operator WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("failed to delete operator: %w", err)
	}
	return expectOneRow(result, "operator", username)
}

func (r *operatorRepository) List(ctx context.Context) ([]*domain.Operator, error) {
	query := `
		SELECT username, display_name, password, created_at, updated_at
		FROM operator
		ORDER BY username
	`
	operators := []*domain.Operator{}
	if err := r.db.SelectContext(ctx, &operators, query); err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}
	return operators, nil
}

// expectOneRow turns a zero-row UPDATE/DELETE into ErrNotFound.
func expectOneRow(result sql.Result, kind, key string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", repository.ErrNotFound, kind, key)
	}
	return nil
}
