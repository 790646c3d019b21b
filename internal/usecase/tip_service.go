package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

type TipConfig struct {
	// RequireTippable rejects submissions unless the race is TIPPABLE.
	RequireTippable bool
}

type SubmitTipInput struct {
	UserID string
	RaceID string
	// Names are ordered from predicted winner down.
	Names []string
	// ExpectedUpdatedAt turns the replace into a compare-and-swap on the
	// stored last-write time; zero time means "no guess stored yet".
	ExpectedUpdatedAt *time.Time
}

// TipView is a guess rendered with participant names.
type TipView struct {
	UserID    string
	RaceID    string
	Names     []string
	UpdatedAt time.Time
}

type TipService struct {
	raceRepo     race.Repository
	tipRepo      tip.Repository
	participants *ParticipantService
	cfg          TipConfig
	leaderboard  LeaderboardInvalidator
	recorder     Recorder
	logger       *logging.Logger
	now          func() time.Time
}

func NewTipService(
	raceRepo race.Repository,
	tipRepo tip.Repository,
	participants *ParticipantService,
	cfg TipConfig,
	logger *logging.Logger,
) *TipService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TipService{
		raceRepo:     raceRepo,
		tipRepo:      tipRepo,
		participants: participants,
		cfg:          cfg,
		leaderboard:  noopInvalidator{},
		recorder:     noopRecorder{},
		logger:       logger,
		now:          time.Now,
	}
}

func (s *TipService) SetLeaderboardInvalidator(v LeaderboardInvalidator) {
	if v != nil {
		s.leaderboard = v
	}
}

func (s *TipService) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// Submit replaces the caller's guess for a race. Nothing is written unless
// every name resolves.
func (s *TipService) Submit(ctx context.Context, input SubmitTipInput) (TipView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TipService.Submit", raceAttr(input.RaceID))
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	raceID := strings.TrimSpace(input.RaceID)
	if userID == "" || raceID == "" {
		return TipView{}, fmt.Errorf("%w: user_id and race_id are required", ErrInvalidInput)
	}

	names := input.Names
	if len(names) > tip.MaxPicks {
		names = names[:tip.MaxPicks]
	}
	names = compactNames(names)

	item, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return TipView{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return TipView{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}
	if s.cfg.RequireTippable && item.Status != race.StatusTippable {
		return TipView{}, fmt.Errorf("%w: race=%s is %s, tips are only accepted while voting", ErrConflict, raceID, item.Status.WireName())
	}

	participantIDs, err := s.participants.ResolveNames(ctx, names)
	if err != nil {
		return TipView{}, err
	}

	picks := tip.PicksFromOrder(participantIDs)
	if err := tip.ValidatePicks(picks); err != nil {
		return TipView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.tipRepo.ReplaceAll(ctx, tip.Guess{
		UserID:    userID,
		RaceID:    raceID,
		Picks:     picks,
		UpdatedAt: s.now().UTC(),
	}, input.ExpectedUpdatedAt)
	if err != nil {
		if errors.Is(err, tip.ErrStaleWrite) {
			return TipView{}, fmt.Errorf("%w: tip for race=%s was changed by another request", ErrConflict, raceID)
		}
		return TipView{}, fmt.Errorf("replace tip: %w", err)
	}

	s.leaderboard.Invalidate(ctx)
	s.recorder.TipSubmitted(len(picks))
	s.logger.DebugContext(ctx, "tip submitted", "user_id", userID, "race_id", raceID, "picks", len(picks))

	return s.view(ctx, stored)
}

// Get returns the live guess. Without one, names are empty and the
// timestamp is the current time.
func (s *TipService) Get(ctx context.Context, userID, raceID string) (TipView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TipService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	raceID = strings.TrimSpace(raceID)
	if userID == "" || raceID == "" {
		return TipView{}, fmt.Errorf("%w: user_id and race_id are required", ErrInvalidInput)
	}

	_, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return TipView{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return TipView{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}

	guess, exists, err := s.tipRepo.GetByUserAndRace(ctx, userID, raceID)
	if err != nil {
		return TipView{}, fmt.Errorf("get tip: %w", err)
	}
	if !exists {
		return TipView{UserID: userID, RaceID: raceID, Names: []string{}, UpdatedAt: s.now().UTC()}, nil
	}
	return s.view(ctx, guess)
}

// ListByUser returns every live guess of a user ordered by race date.
func (s *TipService) ListByUser(ctx context.Context, userID string) ([]TipView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TipService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	guesses, err := s.tipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tips by user: %w", err)
	}
	races, err := s.raceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	raceOrder := make(map[string]int, len(races))
	for i, item := range races {
		raceOrder[item.ID] = i
	}

	ids := make([]string, 0, len(guesses)*tip.MaxPicks)
	for _, guess := range guesses {
		ids = append(ids, guess.ParticipantIDs()...)
	}
	names, err := s.participants.NamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TipView, 0, len(guesses))
	for _, guess := range guesses {
		if _, ok := raceOrder[guess.RaceID]; !ok {
			continue
		}
		out = append(out, renderGuess(guess, names))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return raceOrder[out[i].RaceID] < raceOrder[out[j].RaceID]
	})
	return out, nil
}

func (s *TipService) view(ctx context.Context, guess tip.Guess) (TipView, error) {
	names, err := s.participants.NamesByID(ctx, guess.ParticipantIDs())
	if err != nil {
		return TipView{}, err
	}
	return renderGuess(guess, names), nil
}

func renderGuess(guess tip.Guess, names map[string]string) TipView {
	ordered := make([]string, 0, len(guess.Picks))
	for _, participantID := range guess.ParticipantIDs() {
		name, ok := names[participantID]
		if !ok {
			name = participantID
		}
		ordered = append(ordered, name)
	}
	return TipView{
		UserID:    guess.UserID,
		RaceID:    guess.RaceID,
		Names:     ordered,
		UpdatedAt: guess.UpdatedAt,
	}
}
