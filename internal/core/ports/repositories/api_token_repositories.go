package repositories

import (
	"context"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// APITokenRepository defines the interface for API token data access operations
type APITokenRepository interface {
	// Create persists a new API token
	Create(ctx context.Context, token *domain.APIToken) error

	// FindByID retrieves an API token by its ID
	FindByID(ctx context.Context, id string) (*domain.APIToken, error)

	// FindByUserID retrieves all API tokens for a specific user
	FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error)

	// TouchLastUsed updates only the last_used_at timestamp
	TouchLastUsed(ctx context.Context, id string, at time.Time) error

	// Delete removes an API token by ID
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes all tokens that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
