package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// Recover repairs a partial signup: the platform created the identity but its
// post-creation hook never wrote our profile row ("Database error saving new
// user"). The identity must not be duplicated or abandoned, so failure here
// is always a retryable error, never a crash.
//
// Idempotence: the insert is insert-if-absent and the only update on an
// existing row is the email-verified self-heal, so repeated or concurrent
// calls for the same identity converge to the same single row.
func (s *registrationService) Recover(ctx context.Context, identity *domain.Identity) error {
	if identity == nil || identity.ID == "" {
		return apperrors.ErrSessionUnavailable
	}
	logger := s.logger.With(slog.String("identity_id", identity.ID))

	// Race guard: the platform trigger or a concurrent recover may have
	// created the row between the triggering check and now.
	existing, err := s.profileRepo.FindProfileByID(ctx, identity.ID)
	if err != nil {
		logger.Warn("profile recheck failed, proceeding to insert", slog.String("error", err.Error()))
	}
	if existing != nil {
		// Federated providers pre-verify email; a profile created without
		// the flag must not cause the user to be asked to verify again.
		if identity.IsFederated() && !existing.EmailVerified {
			if err := s.profileRepo.SetEmailVerified(ctx, identity.ID, true); err != nil {
				logger.Warn("email-verified self-heal failed", slog.String("error", err.Error()))
			}
		}
		return nil
	}

	firstName, lastName := domain.NameParts(identity.UserMetadata, identity.Email)
	now := time.Now()
	profile := domain.Profile{
		ID:                     identity.ID,
		FirstName:              firstName,
		LastName:               lastName,
		Email:                  identity.Email,
		EmailVerified:          identity.IsFederated() || identity.EmailConfirmedAt != nil,
		HasCompletedOnboarding: false,
		AccountStatus:          domain.AccountStatusActive,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err = s.profileRepo.InsertProfileIfAbsent(ctx, profile)
	if errors.Is(err, apperrors.ErrSchemaMismatch) {
		// The profiles schema evolves independently of this code; fall back
		// to the minimal column set that every revision has carried.
		logger.Warn("profile insert hit an unknown column, retrying with minimal column set",
			slog.String("error", err.Error()))
		err = s.profileRepo.InsertProfileMinimal(ctx, profile)
	}
	if err != nil {
		logger.Error("signup recovery could not synthesize profile", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", apperrors.ErrRecoveryFailed, err)
	}

	logger.Info("synthesized missing profile row",
		slog.String("provider", string(identity.Provider)),
		slog.Bool("email_verified", profile.EmailVerified))
	return nil
}
