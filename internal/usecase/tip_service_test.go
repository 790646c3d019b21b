package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	racemock "github.com/riskibarqy/race-tipping/internal/mocks/domain/race"
	tipmock "github.com/riskibarqy/race-tipping/internal/mocks/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/mock"
)

func TestTipService_SubmitIsIdempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	input := SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "b", "C"}}

	first, err := env.tips.Submit(t.Context(), input)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	env.tips.now = func() time.Time { return testNow.Add(time.Minute) }
	second, err := env.tips.Submit(t.Context(), input)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if diff := cmp.Diff(first.Names, second.Names); diff != "" {
		t.Fatalf("resubmission changed names (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, second.Names); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("expected newer timestamp, first=%s second=%s", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestTipService_SubmitIsFullReplacement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "B"}}); err != nil {
		t.Fatalf("submit A,B: %v", err)
	}
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"C"}}); err != nil {
		t.Fatalf("submit C: %v", err)
	}

	got, err := env.tips.Get(t.Context(), "u1", "r1")
	if err != nil {
		t.Fatalf("get tip: %v", err)
	}
	if diff := cmp.Diff([]string{"C"}, got.Names); diff != "" {
		t.Fatalf("expected only C (-want +got):\n%s", diff)
	}
}

func TestTipService_UnknownParticipantLeavesGuessUntouched(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "B"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "UnknownName", "C"}})
	var unknown *UnknownParticipantError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownParticipantError, got %v", err)
	}
	if unknown.Name != "UnknownName" {
		t.Fatalf("unexpected unknown name: %q", unknown.Name)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown participant must also be an input error")
	}

	got, err := env.tips.Get(t.Context(), "u1", "r1")
	if err != nil {
		t.Fatalf("get tip: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, got.Names); diff != "" {
		t.Fatalf("stored guess changed (-want +got):\n%s", diff)
	}
}

func TestTipService_TruncatesAndCompacts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	names := []string{"A", "", "B", "  ", "C", "D", "E", "F", "G", "H", "I", "J", "K"}

	got, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: names})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The first ten entries include two blanks, so eight picks remain.
	want := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	if diff := cmp.Diff(want, got.Names); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}

	stored, _, err := env.tipRepo.GetByUserAndRace(t.Context(), "u1", "r1")
	if err != nil {
		t.Fatalf("get stored guess: %v", err)
	}
	if stored.Picks[1].Position != 2 || stored.Picks[1].ParticipantID != "p-B" {
		t.Fatalf("blank entries must not consume positions: %+v", stored.Picks)
	}
}

func TestTipService_RejectsDuplicateParticipant(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	_, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "a"}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTipService_RequiresTippableRace(t *testing.T) {
	t.Parallel()

	for _, status := range []race.Status{race.StatusOpen, race.StatusClosed} {
		env := newTestEnv(t, status)
		_, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A"}})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("status %s: expected ErrConflict, got %v", status, err)
		}
	}

	env := newTestEnv(t, race.StatusOpen)
	env.tips.cfg.RequireTippable = false
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A"}}); err != nil {
		t.Fatalf("ungated submit: %v", err)
	}
}

func TestTipService_CompareAndSwapConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	zero := time.Time{}
	first, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A"}, ExpectedUpdatedAt: &zero})
	if err != nil {
		t.Fatalf("first cas submit: %v", err)
	}

	stale := first.UpdatedAt.Add(-time.Second)
	_, err = env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"B"}, ExpectedUpdatedAt: &stale})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := env.tips.Get(t.Context(), "u1", "r1")
	if err != nil {
		t.Fatalf("get tip: %v", err)
	}
	if diff := cmp.Diff([]string{"A"}, got.Names); diff != "" {
		t.Fatalf("stale write must not change guess (-want +got):\n%s", diff)
	}
}

func TestTipService_GetWithoutGuessReturnsNow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	got, err := env.tips.Get(t.Context(), "u1", "r1")
	if err != nil {
		t.Fatalf("get tip: %v", err)
	}
	if len(got.Names) != 0 {
		t.Fatalf("expected no names, got %v", got.Names)
	}
	if !got.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected now timestamp, got %s", got.UpdatedAt)
	}
}

func TestTipService_ListByUserOrderedByRaceDate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	early := race.Race{ID: "r0", Name: "Monaco Grand Prix", Date: testNow.AddDate(0, -3, 0), Status: race.StatusTippable}
	if err := env.raceRepo.Create(t.Context(), early); err != nil {
		t.Fatalf("create race: %v", err)
	}

	for _, raceID := range []string{"r1", "r0"} {
		if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: raceID, Names: []string{"A"}}); err != nil {
			t.Fatalf("submit %s: %v", raceID, err)
		}
	}

	got, err := env.tips.ListByUser(t.Context(), "u1")
	if err != nil {
		t.Fatalf("list tips: %v", err)
	}
	if len(got) != 2 || got[0].RaceID != "r0" || got[1].RaceID != "r1" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestTipService_Submit_RaceNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	raceRepo := racemock.NewRepository(t)
	tipRepo := tipmock.NewRepository(t)
	service := NewTipService(raceRepo, tipRepo, nil, TipConfig{RequireTippable: true}, logging.NewNop())

	raceRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "missing").
		Return(race.Race{}, false, nil).
		Once()

	_, err := service.Submit(ctx, SubmitTipInput{UserID: "u1", RaceID: "missing", Names: []string{"A"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	tipRepo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestTipService_Submit_StorageFailurePropagatesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	raceRepo := racemock.NewRepository(t)
	tipRepo := tipmock.NewRepository(t)
	env := newTestEnv(t, race.StatusTippable)
	service := NewTipService(raceRepo, tipRepo, env.participants, TipConfig{RequireTippable: true}, logging.NewNop())

	raceRepo.
		On("GetByID", mock.Anything, "r1").
		Return(race.Race{ID: "r1", Status: race.StatusTippable}, true, nil).
		Once()
	storageErr := errors.New("connection reset")
	tipRepo.
		On("ReplaceAll", mock.Anything, mock.MatchedBy(func(g tip.Guess) bool {
			return g.UserID == "u1" && len(g.Picks) == 2 && g.Picks[0].ParticipantID == "p-A"
		}), (*time.Time)(nil)).
		Return(tip.Guess{}, storageErr).
		Once()

	_, err := service.Submit(ctx, SubmitTipInput{UserID: "u1", RaceID: "r1", Names: []string{"A", "B"}})
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestTipService_ConcurrentFirstSubmitsConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable)
	none := time.Time{}
	orders := [][]string{{"A", "B", "C"}, {"D", "E"}}

	errs := make([]error, len(orders))
	var wg conc.WaitGroup
	for i, names := range orders {
		wg.Go(func() {
			_, errs[i] = env.tips.Submit(t.Context(), SubmitTipInput{UserID: "u1", RaceID: "r1", Names: names, ExpectedUpdatedAt: &none})
		})
	}
	wg.Wait()

	var winner int
	switch {
	case errs[0] == nil && errors.Is(errs[1], ErrConflict):
		winner = 0
	case errs[1] == nil && errors.Is(errs[0], ErrConflict):
		winner = 1
	default:
		t.Fatalf("expected one success and one conflict, got %v", errs)
	}

	stored, exists, err := env.tipRepo.GetByUserAndRace(t.Context(), "u1", "r1")
	if err != nil || !exists {
		t.Fatalf("get stored guess: exists=%v err=%v", exists, err)
	}
	if diff := cmp.Diff(ids(orders[winner]...), stored.ParticipantIDs()); diff != "" {
		t.Fatalf("stored guess is not the winner's (-want +got):\n%s", diff)
	}
}
