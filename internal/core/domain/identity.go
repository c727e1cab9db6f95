package domain

import (
	"time"
)

// AuthProvider identifies how an identity authenticates with the hosted
// identity platform.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderApple    AuthProvider = "apple"
	ProviderFacebook AuthProvider = "facebook"
)

// MetadataKeyOnboardingComplete is the user-metadata key the platform carries
// for the onboarding completion flag. The SPA and this backend both read and
// write it, so the key must stay stable.
const MetadataKeyOnboardingComplete = "has_completed_onboarding"

// Identity is the account as known to the hosted identity platform. The
// platform owns it; we never create or delete identities, only read them and
// patch their metadata.
type Identity struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Provider         AuthProvider   `json:"provider"`
	EmailConfirmedAt *time.Time     `json:"emailConfirmedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	LastSignInAt     *time.Time     `json:"lastSignInAt,omitempty"`
	// IdentityCreatedAt is the creation time of the provider identity entry
	// (as opposed to the account itself). For a first-ever federated sign-in
	// the two coincide.
	IdentityCreatedAt *time.Time     `json:"identityCreatedAt,omitempty"`
	UserMetadata      map[string]any `json:"userMetadata,omitempty"`
	AppMetadata       map[string]any `json:"appMetadata,omitempty"`
}

// IsFederated reports whether the identity came from a third-party provider
// rather than a native email/password credential.
func (i *Identity) IsFederated() bool {
	return i.Provider != "" && i.Provider != ProviderEmail
}

// HasCompletedOnboardingMetadata reads the completion flag out of the
// platform-side user metadata. The SPA historically wrote it both as a bool
// and as the string "true", so both spellings count.
func (i *Identity) HasCompletedOnboardingMetadata() bool {
	v, ok := i.UserMetadata[MetadataKeyOnboardingComplete]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

// brandNewTolerance bounds how far apart the account and provider-identity
// creation timestamps may be while still counting as the same event.
const brandNewTolerance = time.Second

// IsBrandNewFederated reports whether this is a first-ever sign-in for a
// federated identity: the provider identity entry was created in the same
// instant as the account itself.
func (i *Identity) IsBrandNewFederated() bool {
	if !i.IsFederated() || i.IdentityCreatedAt == nil {
		return false
	}
	delta := i.IdentityCreatedAt.Sub(i.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta <= brandNewTolerance
}

// Session is the pair of platform-issued tokens plus the identity they belong
// to, as returned by the platform's token endpoint.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Identity     *Identity `json:"identity,omitempty"`
}
