package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
)

type RaceRepository struct {
	mu    sync.RWMutex
	items map[string]race.Race
}

func NewRaceRepository(races []race.Race) *RaceRepository {
	items := make(map[string]race.Race, len(races))
	for _, item := range races {
		items[item.ID] = cloneRace(item)
	}

	return &RaceRepository{items: items}
}

func (r *RaceRepository) List(_ context.Context) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneRace(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}

	return cloneRace(item), true, nil
}

func (r *RaceRepository) Create(_ context.Context, item race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneRace(item)
	return nil
}

func (r *RaceRepository) Update(_ context.Context, item race.Race) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return nil
	}
	current.Name = item.Name
	current.Date = item.Date
	current.Track = item.Track
	current.Weather = item.Weather
	current.Tyres = item.Tyres
	current.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = current
	return nil
}

func (r *RaceRepository) Delete(_ context.Context, raceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, raceID)
	return nil
}

func (r *RaceRepository) Transition(_ context.Context, raceID string, from, to race.Status, at time.Time) (race.Race, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}
	if current.Status != from || !race.CanTransition(from, to) {
		return race.Race{}, true, race.ErrInvalidTransition
	}
	current.Status = to
	current.UpdatedAt = at
	r.items[raceID] = current

	return cloneRace(current), true, nil
}

func (r *RaceRepository) Close(_ context.Context, raceID string, officialOrder []string, at time.Time) (race.Race, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[raceID]
	if !ok {
		return race.Race{}, false, nil
	}
	if current.Status == race.StatusClosed {
		return race.Race{}, true, race.ErrAlreadyClosed
	}
	closedAt := at
	current.Status = race.StatusClosed
	current.OfficialOrder = append([]string(nil), officialOrder...)
	current.ClosedAt = &closedAt
	current.UpdatedAt = at
	r.items[raceID] = current

	return cloneRace(current), true, nil
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
