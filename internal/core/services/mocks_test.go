package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
)

// mockProfileRepo is an in-memory ProfileRepositoryFacade. Behaviour can be
// overridden per test via the Fn fields; the default is a map-backed store
// whose insert honours insert-if-absent semantics.
type mockProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile

	insertCalls  int
	minimalCalls int

	FindProfileByIDFn       func(ctx context.Context, id string) (*domain.Profile, error)
	InsertProfileIfAbsentFn func(ctx context.Context, profile domain.Profile) error
	InsertProfileMinimalFn  func(ctx context.Context, profile domain.Profile) error
	SetOnboardingCompleteFn func(ctx context.Context, id string, completed bool, at time.Time) error
	SetEmailVerifiedFn      func(ctx context.Context, id string, verified bool) error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (m *mockProfileRepo) put(p domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.profiles[p.ID] = &cp
}

func (m *mockProfileRepo) get(id string) *domain.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (m *mockProfileRepo) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

func (m *mockProfileRepo) FindProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.FindProfileByIDFn != nil {
		return m.FindProfileByIDFn(ctx, id)
	}
	return m.get(id), nil
}

func (m *mockProfileRepo) InsertProfileIfAbsent(ctx context.Context, profile domain.Profile) error {
	if m.InsertProfileIfAbsentFn != nil {
		return m.InsertProfileIfAbsentFn(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if _, exists := m.profiles[profile.ID]; exists {
		return nil
	}
	cp := profile
	m.profiles[profile.ID] = &cp
	return nil
}

func (m *mockProfileRepo) InsertProfileMinimal(ctx context.Context, profile domain.Profile) error {
	if m.InsertProfileMinimalFn != nil {
		return m.InsertProfileMinimalFn(ctx, profile)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minimalCalls++
	if _, exists := m.profiles[profile.ID]; exists {
		return nil
	}
	cp := profile
	m.profiles[profile.ID] = &cp
	return nil
}

func (m *mockProfileRepo) SetOnboardingComplete(ctx context.Context, id string, completed bool, at time.Time) error {
	if m.SetOnboardingCompleteFn != nil {
		return m.SetOnboardingCompleteFn(ctx, id, completed, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.HasCompletedOnboarding = completed
		p.UpdatedAt = at
	}
	return nil
}

func (m *mockProfileRepo) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	if m.SetEmailVerifiedFn != nil {
		return m.SetEmailVerifiedFn(ctx, id, verified)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.EmailVerified = verified
	}
	return nil
}

func (m *mockProfileRepo) MarkProfileDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.DeletedAt = &deletedAt
	}
	return nil
}

// mockPreferenceRepo reports preference-row existence.
type mockPreferenceRepo struct {
	HasTravelPreferencesFn func(ctx context.Context, userID string) (bool, error)
}

func (m *mockPreferenceRepo) HasTravelPreferences(ctx context.Context, userID string) (bool, error) {
	if m.HasTravelPreferencesFn != nil {
		return m.HasTravelPreferencesFn(ctx, userID)
	}
	return false, nil
}

func (m *mockPreferenceRepo) FindTravelPreferencesByUserID(ctx context.Context, userID string) ([]domain.TravelPreference, error) {
	return nil, nil
}

// mockShadow is a map-backed CompletionShadowSvc.
type mockShadow struct {
	mu    sync.Mutex
	flags map[string]bool

	GetFlagFn func(ctx context.Context, identityID, key string) (bool, error)
	SetFlagFn func(ctx context.Context, identityID, key string, value bool) error
}

func newMockShadow() *mockShadow {
	return &mockShadow{flags: make(map[string]bool)}
}

func (m *mockShadow) GetFlag(ctx context.Context, identityID, key string) (bool, error) {
	if m.GetFlagFn != nil {
		return m.GetFlagFn(ctx, identityID, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[identityID+"/"+key], nil
}

func (m *mockShadow) SetFlag(ctx context.Context, identityID, key string, value bool) error {
	if m.SetFlagFn != nil {
		return m.SetFlagFn(ctx, identityID, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[identityID+"/"+key] = value
	return nil
}

func (m *mockShadow) flag(identityID, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[identityID+"/"+key]
}

// mockSessions serves identities for access tokens.
type mockSessions struct {
	GetIdentityFn    func(ctx context.Context, accessToken string) (*domain.Identity, error)
	RefreshSessionFn func(ctx context.Context, refreshToken string) (*domain.Session, error)
}

func (m *mockSessions) GetIdentity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if m.GetIdentityFn != nil {
		return m.GetIdentityFn(ctx, accessToken)
	}
	return nil, nil
}

func (m *mockSessions) RefreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.RefreshSessionFn != nil {
		return m.RefreshSessionFn(ctx, refreshToken)
	}
	return nil, nil
}

// mockMetadata records metadata updates.
type mockMetadata struct {
	mu      sync.Mutex
	updates []map[string]any

	UpdateIdentityMetadataFn func(ctx context.Context, accessToken string, metadata map[string]any) (*domain.Identity, error)
}

func (m *mockMetadata) UpdateIdentityMetadata(ctx context.Context, accessToken string, metadata map[string]any) (*domain.Identity, error) {
	if m.UpdateIdentityMetadataFn != nil {
		return m.UpdateIdentityMetadataFn(ctx, accessToken, metadata)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, metadata)
	return nil, nil
}

func (m *mockMetadata) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}
