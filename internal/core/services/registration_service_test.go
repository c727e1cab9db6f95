package services_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Voyago/voyago_backend/internal/apperrors"
	"github.com/Voyago/voyago_backend/internal/core/domain"
	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/Voyago/voyago_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdentityID  = "3f1a0a8e-3c2e-4b62-9c43-0b0a46a0e111"
	testAccessToken = "test-access-token"
)

type testFixture struct {
	profiles *mockProfileRepo
	prefs    *mockPreferenceRepo
	shadow   *mockShadow
	sessions *mockSessions
	metadata *mockMetadata
	svc      portssvc.RegistrationSvcFacade
}

func newFixture(t *testing.T, opts ...services.RegistrationServiceOption) *testFixture {
	t.Helper()
	f := &testFixture{
		profiles: newMockProfileRepo(),
		prefs:    &mockPreferenceRepo{},
		shadow:   newMockShadow(),
		sessions: &mockSessions{},
		metadata: &mockMetadata{},
	}
	allOpts := append([]services.RegistrationServiceOption{services.WithSynchronousWriteBack()}, opts...)
	f.svc = services.NewRegistrationService(
		f.profiles, f.prefs, f.shadow, f.sessions, f.metadata,
		slog.Default(), allOpts...,
	)
	return f
}

func (f *testFixture) serveIdentity(ident *domain.Identity) {
	f.sessions.GetIdentityFn = func(ctx context.Context, accessToken string) (*domain.Identity, error) {
		return ident, nil
	}
}

func emailIdentity(id string) *domain.Identity {
	return &domain.Identity{
		ID:        id,
		Email:     "jane.doe@example.com",
		Provider:  domain.ProviderEmail,
		CreatedAt: time.Now().Add(-30 * 24 * time.Hour),
	}
}

func federatedIdentity(id string, accountAge time.Duration) *domain.Identity {
	createdAt := time.Now().Add(-accountAge)
	identCreatedAt := time.Now()
	return &domain.Identity{
		ID:                id,
		Email:             "jane.doe@gmail.com",
		Provider:          domain.ProviderGoogle,
		CreatedAt:         createdAt,
		IdentityCreatedAt: &identCreatedAt,
		UserMetadata:      map[string]any{"given_name": "Jane", "family_name": "Doe"},
	}
}

func activeProfile(id string, completed bool) domain.Profile {
	now := time.Now().Add(-24 * time.Hour)
	return domain.Profile{
		ID:                     id,
		FirstName:              "Jane",
		LastName:               "Doe",
		Email:                  "jane.doe@example.com",
		EmailVerified:          true,
		HasCompletedOnboarding: completed,
		AccountStatus:          domain.AccountStatusActive,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func TestResolve_SessionUnavailableYieldsError(t *testing.T) {
	f := newFixture(t)
	f.sessions.GetIdentityFn = func(ctx context.Context, accessToken string) (*domain.Identity, error) {
		return nil, apperrors.ErrSessionUnavailable
	}

	res := f.svc.Resolve(context.Background(), "")

	require.NotNil(t, res)
	assert.Equal(t, domain.StatusError, res.Status)
	assert.NotEmpty(t, res.Cause)
	assert.Nil(t, res.Identity)
}

func TestResolve_NoProfileYieldsNewAndRecovers(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusNew, res.Status)
	// Recovery ran as a side effect and synthesized the missing row.
	created := f.profiles.get(testIdentityID)
	require.NotNil(t, created)
	assert.False(t, created.HasCompletedOnboarding)
}

func TestResolve_ProfileWithoutCompletionIsIncomplete(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	f.profiles.put(activeProfile(testIdentityID, false))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusIncompleteOnboarding, res.Status)
	assert.True(t, res.Signals.ProfileExists)
	assert.False(t, res.Signals.AnyComplete())
}

func TestResolve_ProfileFlagAloneWins(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	f.profiles.put(activeProfile(testIdentityID, true))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
}

func TestResolve_PreferenceRowAloneWins(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	f.profiles.put(activeProfile(testIdentityID, false))
	f.prefs.HasTravelPreferencesFn = func(ctx context.Context, userID string) (bool, error) {
		return true, nil
	}

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
	assert.True(t, res.Signals.PreferenceRow)
	assert.False(t, res.Signals.ProfileFlag)
}

func TestResolve_MetadataFlagAloneWinsAndRepairsProfile(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	ident.UserMetadata = map[string]any{domain.MetadataKeyOnboardingComplete: true}
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, false))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
	// Self-healing write-back corrected the lagging profile row.
	repaired := f.profiles.get(testIdentityID)
	require.NotNil(t, repaired)
	assert.True(t, repaired.HasCompletedOnboarding)
	// And backfilled the shadow for both key spellings.
	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyOnboardingComplete))
	assert.True(t, f.shadow.flag(testIdentityID, domain.ShadowKeyInitialFlow))
}

func TestResolve_StringTrueMetadataCounts(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	ident.UserMetadata = map[string]any{domain.MetadataKeyOnboardingComplete: "true"}
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, false))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
}

func TestResolve_ShadowFlagAloneWins(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	f.profiles.put(activeProfile(testIdentityID, false))
	require.NoError(t, f.shadow.SetFlag(context.Background(), testIdentityID, domain.ShadowKeyInitialFlow, true))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
	assert.True(t, res.Signals.ShadowFlag)
}

func TestResolve_SignalFetchFailuresAreAbsorbed(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	f.profiles.put(activeProfile(testIdentityID, false))
	f.prefs.HasTravelPreferencesFn = func(ctx context.Context, userID string) (bool, error) {
		return false, errors.New("preferences table unreachable")
	}
	f.shadow.GetFlagFn = func(ctx context.Context, identityID, key string) (bool, error) {
		return false, errors.New("redis down")
	}

	res := f.svc.Resolve(context.Background(), testAccessToken)

	// Unreachable secondary sources degrade to "signal absent", never to ERROR.
	assert.Equal(t, domain.StatusIncompleteOnboarding, res.Status)
}

func TestResolve_BrandNewFederatedIgnoresStrayFlags(t *testing.T) {
	f := newFixture(t)
	ident := federatedIdentity(testIdentityID, 0)
	// Stray completion flags on a first-ever sign-in: corrupt state.
	ident.UserMetadata[domain.MetadataKeyOnboardingComplete] = true
	f.serveIdentity(ident)
	require.NoError(t, f.shadow.SetFlag(context.Background(), testIdentityID, domain.ShadowKeyOnboardingComplete, true))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusNew, res.Status)
	// Recovery still synthesized the profile row.
	require.NotNil(t, f.profiles.get(testIdentityID))
}

func TestResolve_BrandNewFederatedProfileFlagStillWins(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(federatedIdentity(testIdentityID, 0))
	// The authoritative profile row says complete; the override must not apply.
	f.profiles.put(activeProfile(testIdentityID, true))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
}

func TestResolve_ReturningFederatedKeepsMetadataFlag(t *testing.T) {
	f := newFixture(t)
	// Account is a month old; this is not a first sign-in, flags are trusted.
	ident := federatedIdentity(testIdentityID, 30*24*time.Hour)
	ident.UserMetadata[domain.MetadataKeyOnboardingComplete] = true
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, false))

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.Equal(t, domain.StatusReturning, res.Status)
}

func TestResolve_SoftDeletedProfileReadsAsAbsent(t *testing.T) {
	f := newFixture(t)
	f.serveIdentity(emailIdentity(testIdentityID))
	p := activeProfile(testIdentityID, true)
	deletedAt := time.Now().Add(-time.Hour)
	p.DeletedAt = &deletedAt
	f.profiles.put(p)

	res := f.svc.Resolve(context.Background(), testAccessToken)

	assert.False(t, res.Signals.ProfileExists)
	assert.False(t, res.Signals.ProfileFlag)
}

func TestMarkCompleteThenResolveIsReturning(t *testing.T) {
	f := newFixture(t)
	ident := emailIdentity(testIdentityID)
	f.serveIdentity(ident)
	f.profiles.put(activeProfile(testIdentityID, false))
	// Simulate the database write lagging: the targeted update silently fails.
	f.profiles.SetOnboardingCompleteFn = func(ctx context.Context, id string, completed bool, at time.Time) error {
		return errors.New("database timeout")
	}

	require.NoError(t, f.svc.MarkComplete(context.Background(), ident, testAccessToken, true))

	// Even with every network write lagging, the shadow alone carries the day.
	res := f.svc.Resolve(context.Background(), testAccessToken)
	assert.Equal(t, domain.StatusReturning, res.Status)
	assert.True(t, res.Signals.ShadowFlag)
}
