package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// MarkComplete commits the onboarding transition across all signal sources.
//
// The write order matters for crash-consistency, not final-state correctness:
// the shadow goes first because it is the cheapest, most available store and
// it alone keeps the current session from bouncing back into onboarding while
// the network writes are still in flight. Every later failure is logged and
// absorbed; the next Resolve's self-healing write-back finishes the job.
func (s *registrationService) MarkComplete(ctx context.Context, identity *domain.Identity, accessToken string, completed bool) error {
	if identity == nil || identity.ID == "" {
		return apperrors.ErrSessionUnavailable
	}
	logger := s.logger.With(slog.String("identity_id", identity.ID), slog.Bool("completed", completed))

	// 1. Shadow flags.
	shadowErr := s.shadow.SetFlag(ctx, identity.ID, domain.ShadowKeyOnboardingComplete, completed)
	if shadowErr != nil {
		logger.Error("shadow completion write failed", slog.String("error", shadowErr.Error()))
	}
	if err := s.shadow.SetFlag(ctx, identity.ID, domain.ShadowKeyInitialFlow, completed); err != nil {
		logger.Warn("legacy shadow flag write failed", slog.String("error", err.Error()))
	}

	// 2. Profile row, targeted field update only.
	if err := s.profileRepo.SetOnboardingComplete(ctx, identity.ID, completed, time.Now()); err != nil {
		logger.Warn("profile completion write failed", slog.String("error", err.Error()))
	}

	// 3. Identity metadata on the platform.
	if accessToken != "" {
		if _, err := s.metadata.UpdateIdentityMetadata(ctx, accessToken, map[string]any{
			domain.MetadataKeyOnboardingComplete: completed,
		}); err != nil {
			logger.Warn("identity metadata completion write failed", slog.String("error", err.Error()))
		}

		// 4. Best-effort re-read so the caller's view of the session reflects
		// the new metadata; inconsistency here is only worth a log line.
		if ident, err := s.sessions.GetIdentity(ctx, accessToken); err != nil {
			logger.Warn("session refresh after completion failed", slog.String("error", err.Error()))
		} else if ident != nil && ident.HasCompletedOnboardingMetadata() != completed {
			logger.Warn("identity metadata not yet consistent after completion write")
		}
	}

	// The call succeeds iff the shadow write did: that is the write that
	// governs this session's routing right now.
	if shadowErr != nil {
		return fmt.Errorf("failed to record onboarding completion: %w", shadowErr)
	}
	return nil
}
