package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// sweepEvery is the number of writes between scans for expired entries.
const sweepEvery = 256

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. A zero ttl keeps entries until deleted.
// Abandoned entries are dropped by a periodic sweep on write.
type Store[V any] struct {
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[V]
	writes  int
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func NewStore[V any](ttl time.Duration, opts ...Option) *Store[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]entry[V]),
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.expired(e, s.now()) {
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	if key == "" {
		return
	}

	now := s.now()
	e := entry[V]{value: value}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	s.writes++
	if s.ttl > 0 && s.writes%sweepEvery == 0 {
		for k, cur := range s.entries {
			if s.expired(cur, now) {
				delete(s.entries, k)
			}
		}
	}
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len counts stored entries, expired ones included until the next sweep.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers. Loader errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(V), nil
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}
