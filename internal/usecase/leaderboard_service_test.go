package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/race-tipping/internal/domain/leaderboard"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/domain/user"
	usermock "github.com/riskibarqy/race-tipping/internal/mocks/domain/user"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestLeaderboardService_EndToEnd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable,
		user.User{ID: "x", Username: "xavier"},
		user.User{ID: "y", Username: "yara"},
	)

	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "x", RaceID: "r1", Names: testOrder}); err != nil {
		t.Fatalf("submit tip: %v", err)
	}
	if _, err := env.races.CloseWithResults(t.Context(), "r1", testOrder); err != nil {
		t.Fatalf("close race: %v", err)
	}

	got, err := env.leaderboard.Build(t.Context())
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}

	want := []leaderboard.Entry{
		{UserID: "x", Username: "xavier", DisplayName: "xavier", Points: 36, Rank: 1},
		{UserID: "y", Username: "yara", DisplayName: "yara", Points: 0, Rank: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected leaderboard (-want +got):\n%s", diff)
	}

	points, err := env.leaderboard.GetUserPoints(t.Context(), "x")
	if err != nil {
		t.Fatalf("get user points: %v", err)
	}
	if points != 36 {
		t.Fatalf("expected 36 points, got %d", points)
	}
}

func TestLeaderboardService_NonClosedRacesExcluded(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable, user.User{ID: "x", Username: "xavier"})
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "x", RaceID: "r1", Names: testOrder}); err != nil {
		t.Fatalf("submit tip: %v", err)
	}

	got, err := env.leaderboard.Build(t.Context())
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if len(got) != 1 || got[0].Points != 0 || got[0].Rank != 1 {
		t.Fatalf("tippable race must not contribute: %+v", got)
	}
}

func TestLeaderboardService_RotatedGuessScoresThirteen(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable, user.User{ID: "x", Username: "xavier"})
	rotated := append(append([]string(nil), testOrder[1:]...), testOrder[0])
	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "x", RaceID: "r1", Names: rotated}); err != nil {
		t.Fatalf("submit tip: %v", err)
	}
	if _, err := env.races.CloseWithResults(t.Context(), "r1", testOrder); err != nil {
		t.Fatalf("close race: %v", err)
	}

	points, err := env.leaderboard.PointsFor(t.Context(), "x")
	if err != nil {
		t.Fatalf("points for: %v", err)
	}
	if points != 13 {
		t.Fatalf("expected 13 points, got %d", points)
	}
}

func TestLeaderboardService_MemoIsInvalidatedByWrites(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable, user.User{ID: "x", Username: "xavier"})
	if _, err := env.leaderboard.Build(t.Context()); err != nil {
		t.Fatalf("warm build: %v", err)
	}
	if env.store.Len() == 0 {
		t.Fatalf("expected memoized leaderboard")
	}

	if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: "x", RaceID: "r1", Names: []string{"A"}}); err != nil {
		t.Fatalf("submit tip: %v", err)
	}
	if _, err := env.races.CloseWithResults(t.Context(), "r1", []string{"A"}); err != nil {
		t.Fatalf("close race: %v", err)
	}

	got, err := env.leaderboard.Build(t.Context())
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if got[0].Points != 5 {
		t.Fatalf("expected fresh total of 5, got %d", got[0].Points)
	}

	if _, err := env.profiles.UpdateMe(t.Context(), "x", user.Profile{DisplayName: strPtr("Xavi")}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	got, err = env.leaderboard.Build(t.Context())
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if got[0].DisplayName != "Xavi" {
		t.Fatalf("expected refreshed display name, got %q", got[0].DisplayName)
	}
}

// Totals from the pooled full build must agree with the per-user path.
func TestLeaderboardService_BuildMatchesPointsFor(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(42)
	users := make([]user.User, 0, 25)
	for i := 0; i < 25; i++ {
		users = append(users, user.User{ID: faker.UUID(), Username: faker.Username()})
	}
	env := newTestEnv(t, race.StatusTippable, users...)

	raceIDs := []string{"r1"}
	for i := 0; i < 5; i++ {
		extra := race.Race{ID: faker.UUID(), Name: faker.Name(), Date: testNow.AddDate(0, 0, i+1), Status: race.StatusTippable}
		if err := env.raceRepo.Create(t.Context(), extra); err != nil {
			t.Fatalf("create race: %v", err)
		}
		raceIDs = append(raceIDs, extra.ID)
	}

	for _, raceID := range raceIDs {
		for _, u := range users {
			if faker.Bool() {
				continue
			}
			guess := append([]string(nil), testOrder...)
			faker.ShuffleAnySlice(guess)
			if _, err := env.tips.Submit(t.Context(), SubmitTipInput{UserID: u.ID, RaceID: raceID, Names: guess[:faker.Number(1, len(guess))]}); err != nil {
				t.Fatalf("submit tip: %v", err)
			}
		}
		order := append([]string(nil), testOrder...)
		faker.ShuffleAnySlice(order)
		if _, err := env.races.CloseWithResults(t.Context(), raceID, order); err != nil {
			t.Fatalf("close race: %v", err)
		}
	}

	entries, err := env.leaderboard.Build(t.Context())
	if err != nil {
		t.Fatalf("build leaderboard: %v", err)
	}
	if len(entries) != len(users) {
		t.Fatalf("expected %d entries, got %d", len(users), len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Fatalf("ranks must be sequential, entry %d has rank %d", i, entry.Rank)
		}
		if i > 0 && entries[i-1].Points < entry.Points {
			t.Fatalf("entries must be sorted by points descending")
		}
		points, err := env.leaderboard.PointsFor(t.Context(), entry.UserID)
		if err != nil {
			t.Fatalf("points for %s: %v", entry.UserID, err)
		}
		if points != entry.Points {
			t.Fatalf("user %s: build=%d pointsFor=%d", entry.UserID, entry.Points, points)
		}
	}
}

func TestLeaderboardService_GetUserPoints_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	userRepo := usermock.NewRepository(t)
	service := NewLeaderboardService(userRepo, nil, nil, nil, LeaderboardConfig{}, logging.NewNop())

	userRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "ghost").
		Return(user.User{}, false, nil).
		Once()

	if _, err := service.GetUserPoints(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardService_Build_PropagatesStorageErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	userRepo := usermock.NewRepository(t)
	env := newTestEnv(t, race.StatusTippable)
	service := NewLeaderboardService(userRepo, env.raceRepo, env.tipRepo, nil, LeaderboardConfig{}, logging.NewNop())

	storageErr := errors.New("users table unavailable")
	userRepo.
		On("List", mock.Anything).
		Return(nil, storageErr).
		Once()

	if _, err := service.Build(ctx); !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

// parkedTipRepository parks the first ListByRace after it has read storage.
type parkedTipRepository struct {
	tip.Repository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *parkedTipRepository) ListByRace(ctx context.Context, raceID string) ([]tip.Guess, error) {
	guesses, err := r.Repository.ListByRace(ctx, raceID)
	r.once.Do(func() {
		close(r.entered)
		<-r.release
	})
	return guesses, err
}

func TestLeaderboardService_InvalidateDuringBuildIsNotUndone(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, race.StatusTippable, user.User{ID: "x", Username: "xavier"})
	if _, err := env.races.CloseWithResults(t.Context(), "r1", testOrder); err != nil {
		t.Fatalf("close race: %v", err)
	}

	parked := &parkedTipRepository{Repository: env.tipRepo, entered: make(chan struct{}), release: make(chan struct{})}
	board := NewLeaderboardService(env.userRepo, env.raceRepo, parked, env.store, LeaderboardConfig{MaxWorkers: 1}, logging.NewNop())

	built := make(chan error, 1)
	go func() {
		_, err := board.Build(t.Context())
		built <- err
	}()
	<-parked.entered

	picks := make([]tip.Pick, 0, len(testOrder))
	for i, participantID := range ids(testOrder...) {
		picks = append(picks, tip.Pick{Position: i + 1, ParticipantID: participantID})
	}
	if _, err := env.tipRepo.ReplaceAll(t.Context(), tip.Guess{UserID: "x", RaceID: "r1", Picks: picks, UpdatedAt: testNow}, nil); err != nil {
		t.Fatalf("write guess: %v", err)
	}
	board.Invalidate(t.Context())
	close(parked.release)
	if err := <-built; err != nil {
		t.Fatalf("in-flight build: %v", err)
	}

	got, err := board.Build(t.Context())
	if err != nil {
		t.Fatalf("build after invalidate: %v", err)
	}
	if len(got) != 1 || got[0].Points != 36 {
		t.Fatalf("expected fresh total of 36, got %+v", got)
	}
}
