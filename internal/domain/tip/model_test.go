package tip

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidatePicks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		picks     []Pick
		targetErr error
	}{
		{name: "empty", picks: nil},
		{name: "valid", picks: PicksFromOrder([]string{"p1", "p2", "p3"})},
		{
			name:      "too many",
			picks:     PicksFromOrder([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}),
			targetErr: ErrInvalidPicks,
		},
		{name: "position zero", picks: []Pick{{Position: 0, ParticipantID: "p1"}}, targetErr: ErrInvalidPicks},
		{name: "position eleven", picks: []Pick{{Position: 11, ParticipantID: "p1"}}, targetErr: ErrInvalidPicks},
		{name: "blank participant", picks: []Pick{{Position: 1, ParticipantID: ""}}, targetErr: ErrInvalidPicks},
		{
			name:      "repeated position",
			picks:     []Pick{{Position: 1, ParticipantID: "p1"}, {Position: 1, ParticipantID: "p2"}},
			targetErr: ErrInvalidPicks,
		},
		{
			name:      "duplicate participant",
			picks:     []Pick{{Position: 1, ParticipantID: "p1"}, {Position: 2, ParticipantID: "p1"}},
			targetErr: ErrDuplicatePick,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePicks(tt.picks)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestGuessParticipantIDsOrderedByPosition(t *testing.T) {
	t.Parallel()

	guess := Guess{Picks: []Pick{
		{Position: 3, ParticipantID: "c"},
		{Position: 1, ParticipantID: "a"},
		{Position: 2, ParticipantID: "b"},
	}}

	if diff := cmp.Diff([]string{"a", "b", "c"}, guess.ParticipantIDs()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int]string{1: "a", 2: "b", 3: "c"}, guess.PositionMap()); diff != "" {
		t.Fatalf("unexpected position map (-want +got):\n%s", diff)
	}
}
