package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/tip"
)

type TipRepository struct {
	mu    sync.RWMutex
	items map[string]tip.Guess
}

func NewTipRepository() *TipRepository {
	return &TipRepository{items: make(map[string]tip.Guess)}
}

func (r *TipRepository) GetByUserAndRace(_ context.Context, userID, raceID string) (tip.Guess, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[tipKey(userID, raceID)]
	if !ok {
		return tip.Guess{}, false, nil
	}

	return cloneGuess(item), true, nil
}

func (r *TipRepository) ListByRace(_ context.Context, raceID string) ([]tip.Guess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tip.Guess, 0)
	for _, item := range r.items {
		if item.RaceID == raceID {
			out = append(out, cloneGuess(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

func (r *TipRepository) ListByUser(_ context.Context, userID string) ([]tip.Guess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tip.Guess, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, cloneGuess(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RaceID < out[j].RaceID })

	return out, nil
}

func (r *TipRepository) ReplaceAll(_ context.Context, guess tip.Guess, expectedUpdatedAt *time.Time) (tip.Guess, error) {
	if err := tip.ValidatePicks(guess.Picks); err != nil {
		return tip.Guess{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := tipKey(guess.UserID, guess.RaceID)
	current, exists := r.items[key]
	if expectedUpdatedAt != nil {
		stored := time.Time{}
		if exists {
			stored = current.UpdatedAt
		}
		if !stored.Equal(expectedUpdatedAt.UTC().Truncate(time.Microsecond)) {
			return tip.Guess{}, tip.ErrStaleWrite
		}
	}

	guess.UpdatedAt = guess.UpdatedAt.UTC().Truncate(time.Microsecond)
	if guess.Empty() {
		delete(r.items, key)
		return cloneGuess(guess), nil
	}
	r.items[key] = cloneGuess(guess)

	return cloneGuess(guess), nil
}

func (r *TipRepository) DeleteByRace(_ context.Context, raceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		if item.RaceID == raceID {
			delete(r.items, key)
		}
	}
	return nil
}

func tipKey(userID, raceID string) string {
	return userID + "::" + raceID
}

func cloneGuess(item tip.Guess) tip.Guess {
	copied := item
	copied.Picks = append([]tip.Pick(nil), item.Picks...)
	return copied
}
