package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// RedisShadow keeps the completion flags in redis, keyed per identity and
// flag. Entries carry a TTL: the shadow only needs to outlive the window in
// which the authoritative sources lag behind, after which the resolver's
// write-back repopulates it on the next visit anyway.
type RedisShadow struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisShadow creates a redis-backed completion shadow.
func NewRedisShadow(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisShadow {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisShadow{client: client, ttl: ttl, logger: logger}
}

var _ portssvc.CompletionShadowSvc = (*RedisShadow)(nil)

func shadowKey(identityID, flag string) string {
	return fmt.Sprintf("onboarding:shadow:%s:%s", identityID, flag)
}

// GetFlag reads a flag. A missing key reads as false.
func (s *RedisShadow) GetFlag(ctx context.Context, identityID, key string) (bool, error) {
	val, err := s.client.Get(ctx, shadowKey(identityID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read shadow flag: %w", err)
	}
	return val == "true", nil
}

// SetFlag writes a flag with the configured TTL.
func (s *RedisShadow) SetFlag(ctx context.Context, identityID, key string, value bool) error {
	val := "false"
	if value {
		val = "true"
	}
	if err := s.client.Set(ctx, shadowKey(identityID, key), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write shadow flag: %w", err)
	}
	return nil
}
