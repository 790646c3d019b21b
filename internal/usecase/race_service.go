package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/platform/id"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

type CreateRaceInput struct {
	Name    string
	Date    time.Time
	Track   string
	Weather string
	Tyres   string
}

type UpdateRaceInput struct {
	ID      string
	Name    string
	Date    time.Time
	Track   string
	Weather string
	Tyres   string
	// Status is optional; it may stay unchanged or move OPEN to TIPPABLE.
	Status string
}

// RaceResults is a race together with its official order as display names.
type RaceResults struct {
	Race  race.Race
	Names []string
}

type RaceService struct {
	raceRepo     race.Repository
	tipRepo      tip.Repository
	participants *ParticipantService
	idGen        id.Generator
	leaderboard  LeaderboardInvalidator
	queue        JobQueue
	recorder     Recorder
	logger       *logging.Logger
	now          func() time.Time
}

func NewRaceService(
	raceRepo race.Repository,
	tipRepo tip.Repository,
	participants *ParticipantService,
	idGen id.Generator,
	logger *logging.Logger,
) *RaceService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RaceService{
		raceRepo:     raceRepo,
		tipRepo:      tipRepo,
		participants: participants,
		idGen:        idGen,
		leaderboard:  noopInvalidator{},
		queue:        NewNoopJobQueue(),
		recorder:     noopRecorder{},
		logger:       logger,
		now:          time.Now,
	}
}

func (s *RaceService) SetLeaderboardInvalidator(v LeaderboardInvalidator) {
	if v != nil {
		s.leaderboard = v
	}
}

func (s *RaceService) SetJobQueue(queue JobQueue) {
	if queue != nil {
		s.queue = queue
	}
}

func (s *RaceService) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

func (s *RaceService) List(ctx context.Context) ([]race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.List")
	defer span.End()

	items, err := s.raceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	return items, nil
}

func (s *RaceService) Get(ctx context.Context, raceID string) (race.Race, error) {
	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return race.Race{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	item, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return race.Race{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, raceID)
	}
	return item, nil
}

func (s *RaceService) Create(ctx context.Context, input CreateRaceInput) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.Create")
	defer span.End()

	raceID, err := s.idGen.NewID()
	if err != nil {
		return race.Race{}, fmt.Errorf("generate race id: %w", err)
	}

	now := s.now().UTC()
	item := race.Race{
		ID:        raceID,
		Name:      strings.TrimSpace(input.Name),
		Date:      input.Date.UTC(),
		Track:     strings.TrimSpace(input.Track),
		Weather:   strings.TrimSpace(input.Weather),
		Tyres:     strings.TrimSpace(input.Tyres),
		Status:    race.StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return race.Race{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.raceRepo.Create(ctx, item); err != nil {
		return race.Race{}, fmt.Errorf("create race: %w", err)
	}
	return item, nil
}

func (s *RaceService) Update(ctx context.Context, input UpdateRaceInput) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.Update", raceAttr(input.ID))
	defer span.End()

	current, err := s.Get(ctx, input.ID)
	if err != nil {
		return race.Race{}, err
	}

	target := current.Status
	if strings.TrimSpace(input.Status) != "" {
		target, err = race.ParseStatus(input.Status)
		if err != nil {
			return race.Race{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if target != current.Status && !(current.Status == race.StatusOpen && target == race.StatusTippable) {
		return race.Race{}, fmt.Errorf("%w: race status cannot change from %s to %s here", ErrConflict, current.Status.WireName(), target.WireName())
	}

	now := s.now().UTC()
	edit := func(item race.Race) race.Race {
		item.Name = strings.TrimSpace(input.Name)
		item.Date = input.Date.UTC()
		item.Track = strings.TrimSpace(input.Track)
		item.Weather = strings.TrimSpace(input.Weather)
		item.Tyres = strings.TrimSpace(input.Tyres)
		item.UpdatedAt = now
		return item
	}
	if err := edit(current).Validate(); err != nil {
		return race.Race{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// The status move is a compare-and-set; metadata is only written once it
	// has succeeded.
	if target != current.Status {
		current, err = s.Open(ctx, current.ID)
		if err != nil {
			return race.Race{}, err
		}
	}

	updated := edit(current)
	if err := s.raceRepo.Update(ctx, updated); err != nil {
		return race.Race{}, fmt.Errorf("update race: %w", err)
	}
	return updated, nil
}

// Delete removes the race and then every guess for it. Guesses left behind
// by a failed second step belong to no race and are never scored.
func (s *RaceService) Delete(ctx context.Context, raceID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.Delete", raceAttr(raceID))
	defer span.End()

	item, err := s.Get(ctx, raceID)
	if err != nil {
		return err
	}
	if err := s.raceRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete race: %w", err)
	}
	s.leaderboard.Invalidate(ctx)

	if err := s.tipRepo.DeleteByRace(ctx, item.ID); err != nil {
		return fmt.Errorf("delete race tips: %w", err)
	}
	return nil
}

// Open moves an OPEN race to TIPPABLE.
func (s *RaceService) Open(ctx context.Context, raceID string) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.Open", raceAttr(raceID))
	defer span.End()

	current, err := s.Get(ctx, raceID)
	if err != nil {
		return race.Race{}, err
	}
	if current.Status != race.StatusOpen {
		return race.Race{}, fmt.Errorf("%w: race=%s is %s, only open races can start voting", ErrConflict, current.ID, current.Status.WireName())
	}

	updated, exists, err := s.raceRepo.Transition(ctx, current.ID, race.StatusOpen, race.StatusTippable, s.now().UTC())
	switch {
	case errors.Is(err, race.ErrInvalidTransition):
		return race.Race{}, fmt.Errorf("%w: race=%s changed status concurrently", ErrConflict, current.ID)
	case err != nil:
		return race.Race{}, fmt.Errorf("open race: %w", err)
	case !exists:
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, current.ID)
	}

	s.logger.InfoContext(ctx, "race opened for tips", "race_id", updated.ID)
	return updated, nil
}

// CloseWithResults records the official order and closes the race in one write.
// Re-closing with the identical order is a no-op; any other order conflicts.
func (s *RaceService) CloseWithResults(ctx context.Context, raceID string, orderedNames []string) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.CloseWithResults", raceAttr(raceID))
	defer span.End()

	if len(orderedNames) > race.MaxOfficialOrderLength {
		return race.Race{}, fmt.Errorf("%w: at most %d results, got %d", ErrInvalidInput, race.MaxOfficialOrderLength, len(orderedNames))
	}
	for i, name := range orderedNames {
		if strings.TrimSpace(name) == "" {
			return race.Race{}, fmt.Errorf("%w: result position %d is blank", ErrInvalidInput, i+1)
		}
	}

	current, err := s.Get(ctx, raceID)
	if err != nil {
		return race.Race{}, err
	}

	order, err := s.participants.ResolveNames(ctx, orderedNames)
	if err != nil {
		return race.Race{}, err
	}
	if err := race.ValidateOfficialOrder(order); err != nil {
		return race.Race{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if current.Status == race.StatusClosed {
		return s.reclose(current, order)
	}

	closed, exists, err := s.raceRepo.Close(ctx, current.ID, order, s.now().UTC())
	switch {
	case errors.Is(err, race.ErrAlreadyClosed):
		latest, getErr := s.Get(ctx, current.ID)
		if getErr != nil {
			return race.Race{}, getErr
		}
		return s.reclose(latest, order)
	case err != nil:
		return race.Race{}, fmt.Errorf("close race: %w", err)
	case !exists:
		return race.Race{}, fmt.Errorf("%w: race=%s", ErrNotFound, current.ID)
	}

	s.leaderboard.Invalidate(ctx)
	s.recorder.RaceClosed()
	s.enqueueWarm(ctx, closed)
	s.logger.InfoContext(ctx, "race closed with results", "race_id", closed.ID, "results", len(order))
	return closed, nil
}

func (s *RaceService) reclose(current race.Race, order []string) (race.Race, error) {
	if race.SameOrder(current.OfficialOrder, order) {
		return current, nil
	}
	return race.Race{}, fmt.Errorf("%w: race=%s is already closed with different results", ErrConflict, current.ID)
}

// GetResults returns the official order as names; empty when not closed.
func (s *RaceService) GetResults(ctx context.Context, raceID string) (RaceResults, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RaceService.GetResults", raceAttr(raceID))
	defer span.End()

	item, err := s.Get(ctx, raceID)
	if err != nil {
		return RaceResults{}, err
	}

	names, err := s.participants.OrderedNames(ctx, item.OfficialOrder)
	if err != nil {
		return RaceResults{}, err
	}
	return RaceResults{Race: item, Names: names}, nil
}

func (s *RaceService) enqueueWarm(ctx context.Context, item race.Race) {
	at := s.now().UTC()
	payload := WarmLeaderboardPayload{RaceID: item.ID}
	if err := s.queue.Enqueue(ctx, WarmLeaderboardJobPath, payload, 0, dedupKey("warm-leaderboard", item.ID, at, time.Minute)); err != nil {
		s.logger.WarnContext(ctx, "enqueue leaderboard warm job failed", "race_id", item.ID, "error", err)
	}
}
