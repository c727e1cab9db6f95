package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkComplete_WritesEverySource(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, false))

	require.NoError(t, f.svc.MarkComplete(context.Background(), ident, testAccessToken, true))

	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyOnboardingComplete))
	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyInitialFlow))
	profile := f.profiles.get(testIdentityID)
	require.NotNil(t, profile)
	assert.True(t, profile.HasCompletedOnboarding)
	assert.Equal(t, 1, f.metadata.updateCount())
}

func TestMarkComplete_NilIdentityIsRejected(t *testing.T) {
	f := newFixture(t)

	err := f.svc.MarkComplete(context.Background(), nil, testAccessToken, true)
	assert.ErrorIs(t, err, apperrors.ErrSessionUnavailable)
}

func TestMarkComplete_ShadowFailureFailsTheCall(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.profiles.put(activeProfile(testIdentityID, false))
	f.shadow.SetFlagFn = func(ctx context.Context, identityID, key string, value bool) error {
		return errors.New("shadow store unavailable")
	}

	err := f.svc.MarkComplete(context.Background(), ident, testAccessToken, true)
	assert.Error(t, err)
}

func TestMarkComplete_DownstreamFailuresAreAbsorbed(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.serveIdentity(ident)
	f.profiles.SetOnboardingCompleteFn = func(ctx context.Context, id string, completed bool, at time.Time) error {
		return errors.New("database timeout")
	}
	f.metadata.UpdateIdentityMetadataFn = func(ctx context.Context, accessToken string, metadata map[string]any) (*domain.Identity, error) {
		return nil, errors.New("platform 503")
	}

	// The shadow write is the success criterion; everything else heals later.
	require.NoError(t, f.svc.MarkComplete(context.Background(), ident, testAccessToken, true))
	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyOnboardingComplete))
}

func TestMarkComplete_WithoutTokenSkipsPlatformWrites(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.profiles.put(activeProfile(testIdentityID, false))

	require.NoError(t, f.svc.MarkComplete(context.Background(), ident, "", true))

	assert.Equal(t, 0, f.metadata.updateCount())
	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyOnboardingComplete))
}

func TestMarkComplete_FalseClearsTheFlags(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, true))
	require.NoError(t, f.shadow.SetFlag(context.Background(), testIdentityID, domain.ShadowKeyOnboardingComplete, true))

	require.NoError(t, f.svc.MarkComplete(context.Background(), ident, testAccessToken, false))

	assert.False(t, f.shadow.flag(testIdentityID, domain.ShadowKeyOnboardingComplete))
	profile := f.profiles.get(testIdentityID)
	require.NotNil(t, profile)
	assert.False(t, profile.HasCompletedOnboarding)
}
