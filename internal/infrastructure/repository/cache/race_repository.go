package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
	basecache "github.com/riskibarqy/race-tipping/internal/platform/cache"
)

const raceKeyPrefix = "race:"

type RaceRepository struct {
	next  race.Repository
	cache *basecache.Store
}

func NewRaceRepository(next race.Repository, cache *basecache.Store) *RaceRepository {
	return &RaceRepository{next: next, cache: cache}
}

func (r *RaceRepository) List(ctx context.Context) ([]race.Race, error) {
	items, err := basecache.Load(ctx, r.cache, raceKeyPrefix+"list", func(ctx context.Context) ([]race.Race, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneRaces(items), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRaces(items), nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	key := raceKeyPrefix + "id:" + raceID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, raceID)
		if err != nil {
			return nil, err
		}
		return cachedRaceByID{value: cloneRace(item), exists: exists}, nil
	})
	if err != nil {
		return race.Race{}, false, err
	}

	cached, _ := v.(cachedRaceByID)
	return cloneRace(cached.value), cached.exists, nil
}

type cachedRaceByID struct {
	value  race.Race
	exists bool
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *RaceRepository) Update(ctx context.Context, item race.Race) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *RaceRepository) Delete(ctx context.Context, raceID string) error {
	if err := r.next.Delete(ctx, raceID); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Transition and Close always hit storage; their compare-and-set must not
// see a cached status.
func (r *RaceRepository) Transition(ctx context.Context, raceID string, from, to race.Status, at time.Time) (race.Race, bool, error) {
	item, exists, err := r.next.Transition(ctx, raceID, from, to, at)
	r.invalidate(ctx)
	return item, exists, err
}

func (r *RaceRepository) Close(ctx context.Context, raceID string, officialOrder []string, at time.Time) (race.Race, bool, error) {
	item, exists, err := r.next.Close(ctx, raceID, officialOrder, at)
	r.invalidate(ctx)
	return item, exists, err
}

func (r *RaceRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, raceKeyPrefix)
}

func cloneRaces(items []race.Race) []race.Race {
	out := make([]race.Race, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRace(item))
	}
	return out
}

func cloneRace(item race.Race) race.Race {
	copied := item
	copied.OfficialOrder = append([]string(nil), item.OfficialOrder...)
	if item.ClosedAt != nil {
		closedAt := *item.ClosedAt
		copied.ClosedAt = &closedAt
	}
	return copied
}
