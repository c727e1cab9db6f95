package services

import (
	"context"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// RegistrationResolverSvc decides which lifecycle stage a user is in by
// cross-checking every completion signal source.
type RegistrationResolverSvc interface {
	// Resolve computes the canonical registration status for the identity
	// behind accessToken. It never fails the caller's flow because of an
	// unreachable secondary source: each sub-fetch failure is absorbed as
	// "signal absent". The returned resolution is never nil; a failed
	// session fetch yields StatusError with a diagnostic cause.
	Resolve(ctx context.Context, accessToken string) *domain.RegistrationResolution
}

// SignupRecoverySvc repairs partial signups: the platform identity exists but
// the post-creation hook never wrote the profile row.
type SignupRecoverySvc interface {
	// Recover ensures a profile row exists for the identity. Idempotent:
	// repeated or concurrent calls for the same identity converge to one
	// row. A non-nil error is retryable; the identity is left intact.
	Recover(ctx context.Context, identity *domain.Identity) error
}

// OnboardingSvc commits the onboarding-complete transition across all signal
// sources.
type OnboardingSvc interface {
	// MarkComplete writes the completion flag shadow-first, then to the
	// profile row, then to the identity metadata, then refreshes the
	// caller's view of the session best-effort. Later steps' failures are
	// logged but do not abort; the call succeeds iff the shadow write did.
	MarkComplete(ctx context.Context, identity *domain.Identity, accessToken string, completed bool) error
}

// RegistrationSvcFacade combines the registration-related services for
// handlers that need all of them.
type RegistrationSvcFacade interface {
	RegistrationResolverSvc
	SignupRecoverySvc
	OnboardingSvc
}
