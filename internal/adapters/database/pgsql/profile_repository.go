package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	portsrepo "github.com/Voyago/voyago_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUndefinedColumn is the PostgreSQL error code returned when a statement
// references a column the live schema does not have. The profile insert maps
// it to ErrSchemaMismatch so callers can retry with the minimal column set.
const pgUndefinedColumn = "42703"

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Ensure ProfileRepository implements the full facade
var _ portsrepo.ProfileRepositoryFacade = (*ProfileRepository)(nil)

func (r *ProfileRepository) FindProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
        SELECT id, first_name, last_name, email, email_verified, has_completed_onboarding,
               account_status, pending_email, created_at, updated_at, deleted_at
        FROM profiles
        WHERE id = $1;
    `
	var profile domain.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.EmailVerified,
		&profile.HasCompletedOnboarding,
		&profile.AccountStatus,
		&profile.PendingEmail,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Indicate not found explicitly
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) InsertProfileIfAbsent(ctx context.Context, profile domain.Profile) error {
	query := `
        INSERT INTO profiles (id, first_name, last_name, email, email_verified,
                              has_completed_onboarding, account_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO NOTHING;
    `
	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.EmailVerified,
		profile.HasCompletedOnboarding,
		profile.AccountStatus,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedColumn {
			return fmt.Errorf("%w: %v", apperrors.ErrSchemaMismatch, err)
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) InsertProfileMinimal(ctx context.Context, profile domain.Profile) error {
	query := `
        INSERT INTO profiles (id, first_name, last_name, email, email_verified, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING;
    `
	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
		profile.EmailVerified,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert minimal profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetOnboardingComplete(ctx context.Context, id string, completed bool, at time.Time) error {
	query := `
        UPDATE profiles
        SET has_completed_onboarding = $1, updated_at = $2
        WHERE id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, completed, at, id)
	if err != nil {
		return fmt.Errorf("failed to update onboarding flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found or already deleted: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *ProfileRepository) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	query := `
        UPDATE profiles
        SET email_verified = $1, updated_at = now()
        WHERE id = $2 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, verified, id)
	if err != nil {
		return fmt.Errorf("failed to update email verified flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found or already deleted: %w", pgx.ErrNoRows)
	}
	return nil
}

func (r *ProfileRepository) MarkProfileDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	query := `
        UPDATE profiles
        SET deleted_at = $1, account_status = $2, updated_at = $1
        WHERE id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, domain.AccountStatusPendingDeletion, id)
	if err != nil {
		return fmt.Errorf("failed to mark profile as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Profile might not exist or was already deleted
		return fmt.Errorf("profile not found or already deleted: %w", pgx.ErrNoRows)
	}
	return nil
}
