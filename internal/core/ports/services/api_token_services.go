package services

import (
	"context"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// APITokenSvc defines operations for API token management
type APITokenSvc interface {
	// CreateToken generates a new API token for the user.
	// Returns the plaintext token (only shown once) and the token details.
	CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error)

	// ListTokens returns all API tokens for a user
	ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error)

	// RevokeToken deletes a specific API token for a user
	RevokeToken(ctx context.Context, userID, tokenID string) error

	// ValidateToken checks a presented token and returns the owning user ID.
	// Updates last_used_at best-effort when valid.
	ValidateToken(ctx context.Context, tokenString string) (string, error)
}
