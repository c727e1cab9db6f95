package services

import (
	"context"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// SessionAccessorSvc reads identity state from the hosted identity platform.
// "No session" is a normal, non-exceptional outcome for first-time visitors
// and is reported as apperrors.ErrSessionUnavailable.
type SessionAccessorSvc interface {
	// GetIdentity fetches the identity behind an access token.
	GetIdentity(ctx context.Context, accessToken string) (*domain.Identity, error)

	// RefreshSession exchanges a refresh token for a fresh session.
	RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error)
}

// IdentityMetadataSvc patches the free-form metadata map the platform keeps on
// an identity.
type IdentityMetadataSvc interface {
	UpdateIdentityMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*domain.Identity, error)
}

// IdentityAdminSvc reads identities with service-role credentials, for flows
// that hold no end-user token (server-to-server recovery).
type IdentityAdminSvc interface {
	AdminGetIdentity(ctx context.Context, identityID string) (*domain.Identity, error)
}

// IDTokenSignInSvc signs a user in to the platform with a validated
// third-party ID token (the backend-driven federated path).
type IDTokenSignInSvc interface {
	SignInWithIDToken(ctx context.Context, provider domain.AuthProvider, idToken string) (*domain.Session, error)
}

// CompletionShadowSvc is the device-local-shadow analogue on the backend: a
// synchronous, always-close-by store for the two completion flags, bridging
// the window while authoritative network writes are in flight. It holds no
// secrets and has no authority of its own.
type CompletionShadowSvc interface {
	// GetFlag reads a flag; absence reads as false, never as an error.
	GetFlag(ctx context.Context, identityID, key string) (bool, error)

	// SetFlag writes a flag.
	SetFlag(ctx context.Context, identityID, key string, value bool) error
}
