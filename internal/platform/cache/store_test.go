package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore(ttl time.Duration, opts ...Option) (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, opts...)
	s.now = clock.now
	return s, clock
}

func TestStore_GetOrLoadCollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	var wg conc.WaitGroup
	results := make(chan any, 16)
	for range 16 {
		wg.Go(func() {
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			assert.NoError(t, err)
			results <- v
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		assert.Equal(t, "value", v)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store, clock := newClockedStore(time.Minute)
	store.Set(t.Context(), "leaderboard", 42)

	got, ok := store.Get(t.Context(), "leaderboard")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	clock.advance(2 * time.Minute)
	_, ok = store.Get(t.Context(), "leaderboard")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	store, clock := newClockedStore(0)
	store.Set(t.Context(), "k", "v")
	clock.advance(24 * time.Hour)

	_, ok := store.Get(t.Context(), "k")
	assert.True(t, ok)
}

func TestStore_SetUntilUsesEarlierDeadline(t *testing.T) {
	t.Parallel()

	store, clock := newClockedStore(time.Minute)
	store.SetUntil(t.Context(), "short", 1, clock.t.Add(10*time.Second))
	store.SetUntil(t.Context(), "long", 2, clock.t.Add(time.Hour))
	store.SetUntil(t.Context(), "stale", 3, clock.t.Add(-time.Second))

	_, ok := store.Get(t.Context(), "stale")
	assert.False(t, ok, "already expired values are not stored")

	clock.advance(11 * time.Second)
	_, ok = store.Get(t.Context(), "short")
	assert.False(t, ok)
	_, ok = store.Get(t.Context(), "long")
	assert.True(t, ok)

	clock.advance(time.Minute)
	_, ok = store.Get(t.Context(), "long")
	assert.False(t, ok, "ttl caps a later deadline")
}

func TestStore_MaxEntriesPrefersExpired(t *testing.T) {
	t.Parallel()

	store, clock := newClockedStore(time.Minute, WithMaxEntries(2))
	store.SetUntil(t.Context(), "old", 1, clock.t.Add(time.Second))
	store.Set(t.Context(), "keep", 2)
	clock.advance(2 * time.Second)

	store.Set(t.Context(), "new", 3)
	assert.Equal(t, 2, store.Len())
	_, ok := store.Get(t.Context(), "keep")
	assert.True(t, ok)
	_, ok = store.Get(t.Context(), "new")
	assert.True(t, ok)

	store.Set(t.Context(), "newest", 4)
	assert.Equal(t, 2, store.Len())
	_, ok = store.Get(t.Context(), "newest")
	assert.True(t, ok)
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(t.Context(), "race:id:1", 1)
	store.Set(t.Context(), "race:list", 2)
	store.Set(t.Context(), "participant:list", 3)

	store.DeletePrefix(t.Context(), "race:")

	assert.Equal(t, 1, store.Len())
	_, ok := store.Get(t.Context(), "participant:list")
	assert.True(t, ok)
}

// gatedLoader blocks inside the loader until release is closed, so a test
// can invalidate while the load is in flight.
type gatedLoader struct {
	entered chan struct{}
	release chan struct{}
	value   atomic.Value
}

func newGatedLoader(initial string) *gatedLoader {
	g := &gatedLoader{entered: make(chan struct{}), release: make(chan struct{})}
	g.value.Store(initial)
	return g
}

func (g *gatedLoader) load(context.Context) (any, error) {
	read := g.value.Load()
	close(g.entered)
	<-g.release
	return read, nil
}

func TestStore_InvalidationDuringLoadIsNotUndone(t *testing.T) {
	t.Parallel()

	cases := map[string]func(s *Store){
		"delete":        func(s *Store) { s.Delete(context.Background(), "race:id:mon") },
		"delete prefix": func(s *Store) { s.DeletePrefix(context.Background(), "race:") },
	}

	for name, invalidate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := NewStore(time.Minute)
			gate := newGatedLoader("OPEN")

			done := make(chan any, 1)
			go func() {
				v, err := store.GetOrLoad(context.Background(), "race:id:mon", gate.load)
				assert.NoError(t, err)
				done <- v
			}()
			<-gate.entered

			gate.value.Store("TIPPABLE")
			invalidate(store)
			close(gate.release)
			assert.Equal(t, "OPEN", <-done, "the in-flight caller still gets what it read")

			_, ok := store.Get(context.Background(), "race:id:mon")
			assert.False(t, ok, "value read before the invalidation must not be stored")

			got, err := store.GetOrLoad(context.Background(), "race:id:mon", func(context.Context) (any, error) {
				return gate.value.Load(), nil
			})
			require.NoError(t, err)
			assert.Equal(t, "TIPPABLE", got)
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestStore_LoadAfterInvalidationIsStored(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Delete(context.Background(), "k")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	got, ok := store.Get(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, 1, got)
	assert.Empty(t, store.pending)
}

func TestLoad_TypedLoaderIsCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	for range 3 {
		got, err := Load(t.Context(), store, "k", loader)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestLoad_TypeMismatchReloads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(t.Context(), "k", "not an int")

	got, err := Load(t.Context(), store, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestLoad_ErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("db down")
	_, err := Load(t.Context(), store, "k", func(context.Context) (int, error) { return 0, wantErr })
	assert.ErrorIs(t, err, wantErr)
	assert.Zero(t, store.Len())
}

func TestLoad_NilStoreCallsLoader(t *testing.T) {
	t.Parallel()

	got, err := Load(t.Context(), nil, "k", func(context.Context) (string, error) { return "direct", nil })
	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}
