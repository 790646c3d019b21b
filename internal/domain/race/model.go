package race

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxOfficialOrderLength bounds the number of classified finishers recorded for a race.
const MaxOfficialOrderLength = 20

var ErrInvalidOfficialOrder = errors.New("invalid official order")

type Race struct {
	ID      string
	Name    string
	Date    time.Time
	Track   string
	Weather string
	Tyres   string
	Status  Status
	// OfficialOrder holds participant ids, index 0 is the winner.
	OfficialOrder []string
	ClosedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r Race) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("race id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("race name is required")
	}
	if r.Date.IsZero() {
		return fmt.Errorf("race date is required")
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	return nil
}

// Scorable reports whether guesses for this race earn points.
func (r Race) Scorable() bool {
	return r.Status == StatusClosed && len(r.OfficialOrder) > 0
}

// OfficialPositions maps finishing position (1-based) to participant id.
func (r Race) OfficialPositions() map[int]string {
	out := make(map[int]string, len(r.OfficialOrder))
	for i, participantID := range r.OfficialOrder {
		out[i+1] = participantID
	}
	return out
}

func ValidateOfficialOrder(participantIDs []string) error {
	if len(participantIDs) > MaxOfficialOrderLength {
		return fmt.Errorf("%w: at most %d results, got %d", ErrInvalidOfficialOrder, MaxOfficialOrderLength, len(participantIDs))
	}
	seen := make(map[string]int, len(participantIDs))
	for i, participantID := range participantIDs {
		if strings.TrimSpace(participantID) == "" {
			return fmt.Errorf("%w: position %d is empty", ErrInvalidOfficialOrder, i+1)
		}
		if prev, ok := seen[participantID]; ok {
			return fmt.Errorf("%w: participant %s at positions %d and %d", ErrInvalidOfficialOrder, participantID, prev, i+1)
		}
		seen[participantID] = i + 1
	}
	return nil
}

// SameOrder reports whether two official orders are identical.
func SameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
