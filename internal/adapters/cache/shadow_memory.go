package cache

import (
	"context"
	"sync"

	portssvc "github.com/Voyago/voyago_backend/internal/core/ports/services"
)

// MemoryShadow is the in-process fallback when no redis is configured (local
// development, tests). Flags do not survive a restart, which is acceptable:
// the shadow is a latency bridge, not a source of record.
type MemoryShadow struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewMemoryShadow creates an empty in-memory completion shadow.
func NewMemoryShadow() *MemoryShadow {
	return &MemoryShadow{flags: make(map[string]bool)}
}

var _ portssvc.CompletionShadowSvc = (*MemoryShadow)(nil)

func (s *MemoryShadow) GetFlag(_ context.Context, identityID, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags[shadowKey(identityID, key)], nil
}

func (s *MemoryShadow) SetFlag(_ context.Context, identityID, key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[shadowKey(identityID, key)] = value
	return nil
}
