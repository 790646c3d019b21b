package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/platform/id"
)

type CreateParticipantInput struct {
	Name string
	Team string
}

type UpdateParticipantInput struct {
	ID   string
	Name string
	Team string
}

// ParticipantService is the roster directory: admin CRUD plus name resolution.
type ParticipantService struct {
	repo  participant.Repository
	idGen id.Generator
	now   func() time.Time
}

func NewParticipantService(repo participant.Repository, idGen id.Generator) *ParticipantService {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &ParticipantService{
		repo:  repo,
		idGen: idGen,
		now:   time.Now,
	}
}

func (s *ParticipantService) List(ctx context.Context) ([]participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return participant.NameKey(items[i].Name) < participant.NameKey(items[j].Name)
	})
	return items, nil
}

func (s *ParticipantService) Get(ctx context.Context, participantID string) (participant.Participant, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return participant.Participant{}, fmt.Errorf("%w: participant id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return participant.Participant{}, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}
	return item, nil
}

func (s *ParticipantService) Create(ctx context.Context, input CreateParticipantInput) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Create")
	defer span.End()

	participantID, err := s.idGen.NewID()
	if err != nil {
		return participant.Participant{}, fmt.Errorf("generate participant id: %w", err)
	}

	now := s.now().UTC()
	item := participant.Participant{
		ID:        participantID,
		Name:      strings.TrimSpace(input.Name),
		Team:      strings.TrimSpace(input.Team),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := item.Validate(); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ensureNameFree(ctx, item.Name, ""); err != nil {
		return participant.Participant{}, err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return participant.Participant{}, mapParticipantWriteError("create participant", err)
	}
	return item, nil
}

func (s *ParticipantService) Update(ctx context.Context, input UpdateParticipantInput) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.Update")
	defer span.End()

	current, err := s.Get(ctx, input.ID)
	if err != nil {
		return participant.Participant{}, err
	}

	current.Name = strings.TrimSpace(input.Name)
	current.Team = strings.TrimSpace(input.Team)
	current.UpdatedAt = s.now().UTC()
	if err := current.Validate(); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ensureNameFree(ctx, current.Name, current.ID); err != nil {
		return participant.Participant{}, err
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return participant.Participant{}, mapParticipantWriteError("update participant", err)
	}
	return current, nil
}

func (s *ParticipantService) Delete(ctx context.Context, participantID string) error {
	if _, err := s.Get(ctx, participantID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, strings.TrimSpace(participantID)); err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// ResolveNames maps display names to participant ids, preserving order.
// Blank names must be filtered by the caller. The first unknown name aborts
// the whole resolution with *UnknownParticipantError.
func (s *ParticipantService) ResolveNames(ctx context.Context, names []string) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.ResolveNames")
	defer span.End()

	if len(names) == 0 {
		return []string{}, nil
	}

	items, err := s.repo.ListByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("list participants by names: %w", err)
	}
	byKey := make(map[string]string, len(items))
	for _, item := range items {
		byKey[participant.NameKey(item.Name)] = item.ID
	}

	out := make([]string, 0, len(names))
	for _, name := range names {
		participantID, ok := byKey[participant.NameKey(name)]
		if !ok {
			return nil, &UnknownParticipantError{Name: strings.TrimSpace(name)}
		}
		out = append(out, participantID)
	}
	return out, nil
}

// NamesByID returns display names for the given ids. Ids no longer on the
// roster are mapped to themselves.
func (s *ParticipantService) NamesByID(ctx context.Context, participantIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(participantIDs))
	if len(participantIDs) == 0 {
		return out, nil
	}

	items, err := s.repo.ListByIDs(ctx, participantIDs)
	if err != nil {
		return nil, fmt.Errorf("list participants by ids: %w", err)
	}
	for _, item := range items {
		out[item.ID] = item.Name
	}
	for _, participantID := range participantIDs {
		if _, ok := out[participantID]; !ok {
			out[participantID] = participantID
		}
	}
	return out, nil
}

// OrderedNames maps ordered ids to names.
func (s *ParticipantService) OrderedNames(ctx context.Context, participantIDs []string) ([]string, error) {
	names, err := s.NamesByID(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(participantIDs))
	for _, participantID := range participantIDs {
		out = append(out, names[participantID])
	}
	return out, nil
}

func (s *ParticipantService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.repo.ListByNames(ctx, []string{name})
	if err != nil {
		return fmt.Errorf("check participant name: %w", err)
	}
	for _, item := range existing {
		if item.ID != selfID {
			return fmt.Errorf("%w: participant name %q already exists", ErrConflict, name)
		}
	}
	return nil
}

func mapParticipantWriteError(op string, err error) error {
	if errors.Is(err, participant.ErrDuplicateName) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// compactNames trims entries and drops blanks, keeping order.
func compactNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
