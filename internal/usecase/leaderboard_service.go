package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/race-tipping/internal/domain/leaderboard"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/scoring"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

const (
	leaderboardCacheKey       = "leaderboard:all"
	defaultLeaderboardWorkers = 8
)

type LeaderboardConfig struct {
	MaxWorkers int
}

// LeaderboardService scores every guess of every closed race and ranks users.
type LeaderboardService struct {
	userRepo user.Repository
	raceRepo race.Repository
	tipRepo  tip.Repository
	store    *cache.Store
	cfg      LeaderboardConfig
	recorder Recorder
	logger   *logging.Logger
	now      func() time.Time
}

// NewLeaderboardService builds the service. A nil store disables memoization.
func NewLeaderboardService(
	userRepo user.Repository,
	raceRepo race.Repository,
	tipRepo tip.Repository,
	store *cache.Store,
	cfg LeaderboardConfig,
	logger *logging.Logger,
) *LeaderboardService {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultLeaderboardWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeaderboardService{
		userRepo: userRepo,
		raceRepo: raceRepo,
		tipRepo:  tipRepo,
		store:    store,
		cfg:      cfg,
		recorder: noopRecorder{},
		logger:   logger,
		now:      time.Now,
	}
}

func (s *LeaderboardService) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// Build returns the ranked leaderboard.
func (s *LeaderboardService) Build(ctx context.Context) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Build")
	defer span.End()

	entries, err := cache.Load(ctx, s.store, leaderboardCacheKey, s.build)
	if err != nil {
		return nil, err
	}
	return append([]leaderboard.Entry(nil), entries...), nil
}

// Invalidate drops the memoized leaderboard.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.store.Delete(ctx, leaderboardCacheKey)
}

// Warm rebuilds the memo and reports how many users were ranked.
func (s *LeaderboardService) Warm(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Warm")
	defer span.End()

	s.Invalidate(ctx)
	entries, err := s.Build(ctx)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// GetUserPoints returns the total of a known user.
func (s *LeaderboardService) GetUserPoints(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetUserPoints")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return s.PointsFor(ctx, userID)
}

// PointsFor sums one user's points over every scorable race.
func (s *LeaderboardService) PointsFor(ctx context.Context, userID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.PointsFor")
	defer span.End()

	var (
		races    []race.Race
		guesses  []tip.Guess
		racesErr error
		tipsErr  error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		races, racesErr = s.raceRepo.List(ctx)
	})
	wg.Go(func() {
		guesses, tipsErr = s.tipRepo.ListByUser(ctx, userID)
	})
	wg.Wait()
	if racesErr != nil {
		return 0, fmt.Errorf("list races: %w", racesErr)
	}
	if tipsErr != nil {
		return 0, fmt.Errorf("list tips by user: %w", tipsErr)
	}

	official := make(map[string]map[int]string, len(races))
	for _, item := range scorableRaces(races) {
		official[item.ID] = item.OfficialPositions()
	}

	total := 0
	for _, guess := range guesses {
		positions, ok := official[guess.RaceID]
		if !ok {
			continue
		}
		total += scoring.Points(guess.PositionMap(), positions)
	}
	return total, nil
}

func (s *LeaderboardService) build(ctx context.Context) ([]leaderboard.Entry, error) {
	start := s.now()

	var (
		users    []user.User
		races    []race.Race
		usersErr error
		racesErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		users, usersErr = s.userRepo.List(ctx)
	})
	wg.Go(func() {
		races, racesErr = s.raceRepo.List(ctx)
	})
	wg.Wait()
	if usersErr != nil {
		return nil, fmt.Errorf("list users: %w", usersErr)
	}
	if racesErr != nil {
		return nil, fmt.Errorf("list races: %w", racesErr)
	}

	scorable := scorableRaces(races)
	totals, err := s.scoreRaces(ctx, scorable)
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboard.Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, leaderboard.Entry{
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.Label(),
			Points:      totals[u.ID],
		})
	}
	ranked := leaderboard.Rank(entries)

	elapsed := s.now().Sub(start)
	s.recorder.LeaderboardBuilt(len(ranked), len(scorable), elapsed)
	s.logger.DebugContext(ctx, "leaderboard built", "users", len(ranked), "scorable_races", len(scorable), "duration", elapsed)
	return ranked, nil
}

type raceScore struct {
	raceID string
	points map[string]int
	err    error
}

// scoreRaces scores each race on a bounded pool and sums per-user points.
func (s *LeaderboardService) scoreRaces(ctx context.Context, races []race.Race) (map[string]int, error) {
	totals := make(map[string]int)
	if len(races) == 0 {
		return totals, nil
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(races) {
		workerCount = len(races)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan raceScore, len(races))
	var workers sync.WaitGroup
	for _, item := range races {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.scoreRace(ctx, item)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit race scoring to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("score race=%s: %w", result.raceID, result.err)
		}
		for userID, points := range result.points {
			totals[userID] += points
		}
	}
	return totals, nil
}

func (s *LeaderboardService) scoreRace(ctx context.Context, item race.Race) raceScore {
	guesses, err := s.tipRepo.ListByRace(ctx, item.ID)
	if err != nil {
		return raceScore{raceID: item.ID, err: err}
	}

	official := item.OfficialPositions()
	points := make(map[string]int, len(guesses))
	for _, guess := range guesses {
		points[guess.UserID] += scoring.Points(guess.PositionMap(), official)
	}
	return raceScore{raceID: item.ID, points: points}
}

func scorableRaces(races []race.Race) []race.Race {
	out := make([]race.Race, 0, len(races))
	for _, item := range races {
		if item.Scorable() {
			out = append(out, item)
		}
	}
	return out
}
