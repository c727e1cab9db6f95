package repositories

import (
	"context"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// PreferenceReader defines read operations for travel preference data. The
// onboarding wizard writes these rows through its own path; the resolver only
// ever asks whether any exist.
type PreferenceReader interface {
	// HasTravelPreferences reports whether at least one preference row exists
	// for the user.
	HasTravelPreferences(ctx context.Context, userID string) (bool, error)

	// FindTravelPreferencesByUserID retrieves all preference rows for a user.
	FindTravelPreferencesByUserID(ctx context.Context, userID string) ([]domain.TravelPreference, error)
}
