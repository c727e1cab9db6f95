package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type APITokenRepository struct {
	db *pgxpool.Pool
}

func NewAPITokenRepository(db *pgxpool.Pool) *APITokenRepository {
	return &APITokenRepository{db: db}
}

// Ensure APITokenRepository implements ports.APITokenRepository
var _ portsrepo.APITokenRepository = (*APITokenRepository)(nil)

func (r *APITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	query := `
        INSERT INTO api_tokens (id, user_id, name, token_hash, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.Name,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create API token: %w", err)
	}
	return nil
}

func (r *APITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	query := `
        SELECT id, user_id, name, token_hash, last_used_at, expires_at, created_at
        FROM api_tokens
        WHERE id = $1;
    `
	var token domain.APIToken
	err := r.db.QueryRow(ctx, query, id).Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.TokenHash,
		&token.LastUsedAt,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find API token by ID: %w", err)
	}
	return &token, nil
}

func (r *APITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	query := `
        SELECT id, user_id, name, token_hash, last_used_at, expires_at, created_at
        FROM api_tokens
        WHERE user_id = $1
        ORDER BY created_at DESC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query API tokens: %w", err)
	}
	defer rows.Close()

	tokens := []domain.APIToken{}
	for rows.Next() {
		var token domain.APIToken
		err := rows.Scan(
			&token.ID,
			&token.UserID,
			&token.Name,
			&token.TokenHash,
			&token.LastUsedAt,
			&token.ExpiresAt,
			&token.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan API token row: %w", err)
		}
		tokens = append(tokens, token)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating API token rows: %w", rows.Err())
	}

	return tokens, nil
}

func (r *APITokenRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query := `
        UPDATE api_tokens
        SET last_used_at = $1
        WHERE id = $2;
    `
	if _, err := r.db.Exec(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update token last used: %w", err)
	}
	return nil
}

func (r *APITokenRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM api_tokens WHERE id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete API token: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("API token not found: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *APITokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM api_tokens WHERE expires_at IS NOT NULL AND expires_at < $1;`
	cmdTag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired API tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
