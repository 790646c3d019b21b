package tip

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxPicks is the number of finishing positions a guess may cover.
const MaxPicks = 10

var (
	ErrStaleWrite    = errors.New("guess was modified by another write")
	ErrInvalidPicks  = errors.New("invalid picks")
	ErrDuplicatePick = errors.New("participant picked more than once")
)

// Pick is one predicted finishing position.
type Pick struct {
	Position      int
	ParticipantID string
}

// Guess is the single live tip of a user for a race.
type Guess struct {
	UserID    string
	RaceID    string
	Picks     []Pick
	UpdatedAt time.Time
}

// Empty reports whether the guess holds no picks.
func (g Guess) Empty() bool {
	return len(g.Picks) == 0
}

// PositionMap maps position to participant id.
func (g Guess) PositionMap() map[int]string {
	out := make(map[int]string, len(g.Picks))
	for _, pick := range g.Picks {
		out[pick.Position] = pick.ParticipantID
	}
	return out
}

// ParticipantIDs returns participant ids ordered by position.
func (g Guess) ParticipantIDs() []string {
	out := make([]string, 0, len(g.Picks))
	for pos := 1; pos <= MaxPicks; pos++ {
		for _, pick := range g.Picks {
			if pick.Position == pos {
				out = append(out, pick.ParticipantID)
				break
			}
		}
	}
	return out
}

// PicksFromOrder assigns compacted positions 1..n to ordered participant ids.
func PicksFromOrder(participantIDs []string) []Pick {
	out := make([]Pick, 0, len(participantIDs))
	for i, participantID := range participantIDs {
		out = append(out, Pick{Position: i + 1, ParticipantID: participantID})
	}
	return out
}

func ValidatePicks(picks []Pick) error {
	if len(picks) > MaxPicks {
		return fmt.Errorf("%w: at most %d picks, got %d", ErrInvalidPicks, MaxPicks, len(picks))
	}

	positions := make(map[int]struct{}, len(picks))
	participants := make(map[string]struct{}, len(picks))
	for _, pick := range picks {
		if pick.Position < 1 || pick.Position > MaxPicks {
			return fmt.Errorf("%w: position %d out of range", ErrInvalidPicks, pick.Position)
		}
		if strings.TrimSpace(pick.ParticipantID) == "" {
			return fmt.Errorf("%w: position %d has no participant", ErrInvalidPicks, pick.Position)
		}
		if _, ok := positions[pick.Position]; ok {
			return fmt.Errorf("%w: position %d repeated", ErrInvalidPicks, pick.Position)
		}
		if _, ok := participants[pick.ParticipantID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePick, pick.ParticipantID)
		}
		positions[pick.Position] = struct{}{}
		participants[pick.ParticipantID] = struct{}{}
	}

	return nil
}
