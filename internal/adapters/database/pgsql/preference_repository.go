package pgsql

import (
	"context"
	"fmt"

	"github.com/Voyago/voyago_backend/internal/core/domain"
	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepository struct {
	db *pgxpool.Pool
}

func NewPreferenceRepository(db *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Ensure PreferenceRepository implements ports.PreferenceReader
var _ portsrepo.PreferenceReader = (*PreferenceRepository)(nil)

func (r *PreferenceRepository) HasTravelPreferences(ctx context.Context, userID string) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM travel_preferences WHERE user_id = $1
        );
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check travel preferences: %w", err)
	}
	return exists, nil
}

func (r *PreferenceRepository) FindTravelPreferencesByUserID(ctx context.Context, userID string) ([]domain.TravelPreference, error) {
	query := `
        SELECT id, user_id, pace, budget_level, interests, created_at
        FROM travel_preferences
        WHERE user_id = $1
        ORDER BY created_at DESC;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query travel preferences: %w", err)
	}
	defer rows.Close()

	prefs := []domain.TravelPreference{}
	for rows.Next() {
		var pref domain.TravelPreference
		err := rows.Scan(
			&pref.ID,
			&pref.UserID,
			&pref.Pace,
			&pref.BudgetLevel,
			&pref.Interests,
			&pref.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel preference row: %w", err)
		}
		prefs = append(prefs, pref)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating travel preference rows: %w", rows.Err())
	}

	return prefs, nil
}
