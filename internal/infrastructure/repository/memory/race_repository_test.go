package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
)

func TestRaceRepository_TransitionAndClose(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 7, 15, 0, 0, 0, time.UTC)
	repo := NewRaceRepository([]race.Race{{ID: "mon", Name: "Monaco", Date: at, Status: race.StatusOpen}})

	if _, _, err := repo.Transition(t.Context(), "mon", race.StatusTippable, race.StatusClosed, at); !errors.Is(err, race.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for wrong from status, got %v", err)
	}

	opened, exists, err := repo.Transition(t.Context(), "mon", race.StatusOpen, race.StatusTippable, at)
	if err != nil || !exists {
		t.Fatalf("open: exists=%v err=%v", exists, err)
	}
	if opened.Status != race.StatusTippable {
		t.Fatalf("expected tippable, got %s", opened.Status)
	}

	order := []string{"lec", "pia"}
	closed, _, err := repo.Close(t.Context(), "mon", order, at)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	order[0] = "mutated"
	if closed.OfficialOrder[0] != "lec" || closed.ClosedAt == nil {
		t.Fatalf("unexpected closed race: %+v", closed)
	}

	if _, _, err := repo.Close(t.Context(), "mon", []string{"ver"}, at); !errors.Is(err, race.ErrAlreadyClosed) {
		t.Fatalf("expected ErrAlreadyClosed, got %v", err)
	}

	if _, exists, err := repo.Close(t.Context(), "missing", nil, at); err != nil || exists {
		t.Fatalf("expected missing race, exists=%v err=%v", exists, err)
	}
}
