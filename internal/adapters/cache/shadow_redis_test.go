package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Voyago/voyago_backend/internal/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestShadow(t *testing.T) (*RedisShadow, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisShadow(client, time.Hour, nil), mr
}

func TestRedisShadow_MissingFlagReadsFalse(t *testing.T) {
	shadow, _ := setupTestShadow(t)

	got, err := shadow.GetFlag(context.Background(), "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisShadow_SetThenGet(t *testing.T) {
	shadow, _ := setupTestShadow(t)
	ctx := context.Background()

	require.NoError(t, shadow.SetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete, true))

	got, err := shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.True(t, got)

	// Other identities and other keys are unaffected.
	got, err = shadow.GetFlag(ctx, "identity-2", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyInitialFlow)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisShadow_SetFalseOverwrites(t *testing.T) {
	shadow, _ := setupTestShadow(t)
	ctx := context.Background()

	require.NoError(t, shadow.SetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete, true))
	require.NoError(t, shadow.SetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete, false))

	got, err := shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRedisShadow_FlagExpires(t *testing.T) {
	shadow, mr := setupTestShadow(t)
	ctx := context.Background()

	require.NoError(t, shadow.SetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete, true))

	mr.FastForward(2 * time.Hour)

	got, err := shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMemoryShadow_SetThenGet(t *testing.T) {
	shadow := NewMemoryShadow()
	ctx := context.Background()

	got, err := shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, shadow.SetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete, true))

	got, err = shadow.GetFlag(ctx, "identity-1", domain.ShadowKeyOnboardingComplete)
	require.NoError(t, err)
	assert.True(t, got)
}
