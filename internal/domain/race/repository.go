package race

import (
	"context"
	"time"
)

// Repository describes race persistence needs from use cases.
type Repository interface {
	// List returns races ordered by date, then id.
	List(ctx context.Context) ([]Race, error)
	GetByID(ctx context.Context, raceID string) (Race, bool, error)
	Create(ctx context.Context, item Race) error
	// Update writes descriptive fields only; status and official order are untouched.
	Update(ctx context.Context, item Race) error
	Delete(ctx context.Context, raceID string) error
	// Transition moves the race from one status to another, failing with
	// ErrInvalidTransition when the stored status is not from.
	Transition(ctx context.Context, raceID string, from, to Status, at time.Time) (Race, bool, error)
	// Close stores the official order and sets CLOSED in one write. It fails
	// with ErrAlreadyClosed when the race is already closed.
	Close(ctx context.Context, raceID string, officialOrder []string, at time.Time) (Race, bool, error)
}
