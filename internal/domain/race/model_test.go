package race

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidateOfficialOrder(t *testing.T) {
	t.Parallel()

	tooMany := make([]string, MaxOfficialOrderLength+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("p%d", i)
	}

	tests := []struct {
		name    string
		order   []string
		wantErr bool
	}{
		{name: "empty", order: nil},
		{name: "full", order: tooMany[:MaxOfficialOrderLength]},
		{name: "too many", order: tooMany, wantErr: true},
		{name: "blank id", order: []string{"p1", " "}, wantErr: true},
		{name: "duplicate", order: []string{"p1", "p2", "p1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateOfficialOrder(tt.order)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidOfficialOrder) {
				t.Fatalf("expected ErrInvalidOfficialOrder, got %v", err)
			}
		})
	}
}

func TestRaceScorable(t *testing.T) {
	t.Parallel()

	base := Race{ID: "r1", Name: "Monza", Date: time.Date(2026, 9, 6, 13, 0, 0, 0, time.UTC)}

	open := base
	open.Status = StatusOpen
	open.OfficialOrder = []string{"p1"}
	if open.Scorable() {
		t.Fatalf("open race must not be scorable")
	}

	closedEmpty := base
	closedEmpty.Status = StatusClosed
	if closedEmpty.Scorable() {
		t.Fatalf("closed race without results must not be scorable")
	}

	closed := base
	closed.Status = StatusClosed
	closed.OfficialOrder = []string{"p1", "p2"}
	if !closed.Scorable() {
		t.Fatalf("closed race with results must be scorable")
	}
	positions := closed.OfficialPositions()
	if positions[1] != "p1" || positions[2] != "p2" || len(positions) != 2 {
		t.Fatalf("unexpected positions: %+v", positions)
	}
}
