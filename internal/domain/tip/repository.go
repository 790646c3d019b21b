package tip

import (
	"context"
	"time"
)

// Repository describes guess persistence needs from use cases.
type Repository interface {
	GetByUserAndRace(ctx context.Context, userID, raceID string) (Guess, bool, error)
	ListByRace(ctx context.Context, raceID string) ([]Guess, error)
	ListByUser(ctx context.Context, userID string) ([]Guess, error)
	// ReplaceAll drops every stored pick of (guess.UserID, guess.RaceID) and
	// writes guess.Picks in one atomic unit. An empty picks list leaves no guess.
	// When expectedUpdatedAt is set the write only happens if the stored
	// last-write time equals it (zero time when nothing is stored), otherwise
	// ErrStaleWrite is returned.
	ReplaceAll(ctx context.Context, guess Guess, expectedUpdatedAt *time.Time) (Guess, error)
	DeleteByRace(ctx context.Context, raceID string) error
}
