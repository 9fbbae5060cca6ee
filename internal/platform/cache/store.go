// Package cache provides the process-local key-value store the in-memory
// repositories build on.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fplmate/fpl-live/internal/platform/resilience"
)

// Store is an in-memory cache with a single expiry policy for all entries.
// A ttl of zero or less disables expiry, leaving Delete, DeletePrefix and
// Clear as the only ways entries leave the map. Concurrent misses on the
// same key share one loader run.
type Store struct {
	ttl   time.Duration
	clock func() time.Time

	mu     sync.RWMutex
	items  map[string]item
	flight resilience.Flight
}

type item struct {
	value any
	exp   time.Time
}

func (it item) live(now time.Time) bool {
	return it.exp.IsZero() || it.exp.After(now)
}

func NewStore(ttl time.Duration) *Store {
	return NewStoreWithClock(ttl, time.Now)
}

// NewStoreWithClock builds a Store that reads the current time from clock.
// Tests use it to step expiry deterministically.
func NewStoreWithClock(ttl time.Duration, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		ttl:   ttl,
		clock: clock,
		items: make(map[string]item),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !it.live(s.clock()) {
		s.mu.Lock()
		// Re-check under the write lock so a concurrent fresh Set survives.
		if cur, ok := s.items[key]; ok && !cur.live(s.clock()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	it := item{value: value}
	if s.ttl > 0 {
		it.exp = s.clock().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// DeletePrefix removes every entry whose key starts with prefix.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	s.mu.Unlock()
}

// Clear drops every entry at once.
func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	s.items = make(map[string]item)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key, running loader on a miss.
// Callers racing on the same missing key wait for a single loader run.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if hit, ok := s.Get(ctx, key); ok {
		return hit, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		// Another caller may have filled the key while we queued.
		if hit, ok := s.Get(ctx, key); ok {
			return hit, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	return value, err
}
