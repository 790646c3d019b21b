// Package cache holds the in-process TTL store shared by the read-through
// repository decorators, the leaderboard, and the token introspection client.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

type item struct {
	value    any
	deadline time.Time
}

func (it item) live(now time.Time) bool {
	return it.deadline.IsZero() || it.deadline.After(now)
}

// pendingLoad tracks loaders running for one key. gen is bumped by every
// invalidation of the key so a loader that started earlier cannot store
// what it read.
type pendingLoad struct {
	gen  uint64
	refs int
}

// Store is a TTL map. Concurrent loads of the same key are collapsed into
// one call. A zero TTL keeps entries until they are deleted.
type Store struct {
	mu         sync.RWMutex
	items      map[string]item
	pending    map[string]*pendingLoad
	ttl        time.Duration
	maxEntries int
	flight     singleflight.Group
	now        func() time.Time
}

type Option func(*Store)

// WithMaxEntries bounds the store. When full, expired entries are swept
// first and then an arbitrary live entry is dropped.
func WithMaxEntries(n int) Option {
	return func(s *Store) { s.maxEntries = n }
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		items:   make(map[string]item),
		pending: make(map[string]*pendingLoad),
		ttl:     max(ttl, 0),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
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
	if !it.live(s.now()) {
		s.mu.Lock()
		if current, still := s.items[key]; still && current.deadline.Equal(it.deadline) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetUntil(ctx, key, value, time.Time{})
}

// SetUntil stores value until the earlier of the store TTL and notAfter. A
// zero notAfter means only the TTL applies. Values whose deadline already
// passed are not stored.
func (s *Store) SetUntil(_ context.Context, key string, value any, notAfter time.Time) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLocked(key, value, notAfter)
}

func (s *Store) storeLocked(key string, value any, notAfter time.Time) {
	now := s.now()
	var deadline time.Time
	if s.ttl > 0 {
		deadline = now.Add(s.ttl)
	}
	if !notAfter.IsZero() && (deadline.IsZero() || notAfter.Before(deadline)) {
		deadline = notAfter
	}
	if !deadline.IsZero() && !deadline.After(now) {
		return
	}

	if _, exists := s.items[key]; !exists {
		s.makeRoom(now)
	}
	s.items[key] = item{value: value, deadline: deadline}
}

func (s *Store) makeRoom(now time.Time) {
	if s.maxEntries <= 0 || len(s.items) < s.maxEntries {
		return
	}
	for key, it := range s.items {
		if !it.live(now) {
			delete(s.items, key)
		}
	}
	for key := range s.items {
		if len(s.items) < s.maxEntries {
			return
		}
		delete(s.items, key)
	}
}

// Delete drops keys. A load of any of them that is still running returns
// its value to its callers but does not store it.
func (s *Store) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		s.invalidateLocked(key)
	}
}

// DeletePrefix drops every stored or loading key starting with prefix.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			s.invalidateLocked(key)
		}
	}
	for key := range s.pending {
		if strings.HasPrefix(key, prefix) {
			s.invalidateLocked(key)
		}
	}
}

func (s *Store) invalidateLocked(key string) {
	delete(s.items, key)
	if p, ok := s.pending[key]; ok {
		p.gen++
	}
	s.flight.Forget(key)
}

func (s *Store) beginLoad(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[key]
	if !ok {
		p = &pendingLoad{}
		s.pending[key] = p
	}
	p.refs++
	return p.gen
}

// storeIfCurrent stores value only when key was not invalidated since gen
// was taken.
func (s *Store) storeIfCurrent(key string, gen uint64, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[key]; ok && p.gen == gen {
		s.storeLocked(key, value, time.Time{})
	}
}

func (s *Store) endLoad(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[key]; ok {
		p.refs--
		if p.refs == 0 {
			delete(s.pending, key)
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key or calls loader once for all
// concurrent callers. Loader errors are returned and never cached. An empty
// key bypasses the store.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("cache: loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if value, ok := s.Get(ctx, key); ok {
			return value, nil
		}
		gen := s.beginLoad(key)
		defer s.endLoad(key)

		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.storeIfCurrent(key, gen, value)
		return value, nil
	})
	return value, err
}

// Load is GetOrLoad with a typed loader. A cached value of another type is
// treated as a miss and reloaded. A nil store always calls loader.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	if s == nil {
		return loader(ctx)
	}

	raw, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if typed, ok := raw.(T); ok {
		return typed, nil
	}
	s.Delete(ctx, key)
	return loader(ctx)
}
