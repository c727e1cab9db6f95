package repositories

import (
	"context"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// ProfileReader defines read operations for profile data
type ProfileReader interface {
	// FindProfileByID retrieves a profile by its ID (= identity ID).
	// Returns (nil, nil) when no row exists: absence is a normal outcome
	// for this table, not an error.
	FindProfileByID(ctx context.Context, id string) (*domain.Profile, error)
}

// ProfileWriter defines write operations for profile data.
//
// Several flows (resolver self-heal, signup recovery, completion writer,
// profile edits) may touch the same row concurrently, so every write here is
// a targeted field update or a conflict-tolerant insert — never a full-row
// overwrite.
type ProfileWriter interface {
	// InsertProfileIfAbsent persists a new profile, doing nothing if a row
	// with the same ID already exists. Returns ErrSchemaMismatch (wrapped)
	// when the insert references a column the live schema lacks.
	InsertProfileIfAbsent(ctx context.Context, profile domain.Profile) error

	// InsertProfileMinimal is the degraded fallback for
	// InsertProfileIfAbsent: it writes only the schema-stable column subset
	// (id, email, names, verification flag, timestamps).
	InsertProfileMinimal(ctx context.Context, profile domain.Profile) error

	// SetOnboardingComplete updates only the completion flag and timestamp.
	SetOnboardingComplete(ctx context.Context, id string, completed bool, at time.Time) error

	// SetEmailVerified updates only the email-verified flag.
	SetEmailVerified(ctx context.Context, id string, verified bool) error
}

// ProfileLifecycleManager defines operations for managing profile lifecycle
type ProfileLifecycleManager interface {
	// MarkProfileDeleted marks a profile as deleted (soft delete; the row is
	// kept for the grace period).
	MarkProfileDeleted(ctx context.Context, id string, deletedAt time.Time) error
}

// ProfileRepositoryFacade combines all profile-related repository interfaces.
type ProfileRepositoryFacade interface {
	ProfileReader
	ProfileWriter
	ProfileLifecycleManager
}
