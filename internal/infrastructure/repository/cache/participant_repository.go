package cache

import (
	"context"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	basecache "github.com/riskibarqy/race-tipping/internal/platform/cache"
)

const participantKeyPrefix = "participant:"

// ParticipantRepository serves roster reads from the shared store. Name and id
// lookups filter the cached roster, which stays small.
type ParticipantRepository struct {
	next  participant.Repository
	cache *basecache.Store
}

func NewParticipantRepository(next participant.Repository, cache *basecache.Store) *ParticipantRepository {
	return &ParticipantRepository{next: next, cache: cache}
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	items, err := r.roster(ctx)
	if err != nil {
		return nil, err
	}
	return append([]participant.Participant(nil), items...), nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (participant.Participant, bool, error) {
	key := participantKeyPrefix + "id:" + participantID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, participantID)
		if err != nil {
			return nil, err
		}
		return cachedParticipantByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return participant.Participant{}, false, err
	}

	cached, _ := v.(cachedParticipantByID)
	return cached.value, cached.exists, nil
}

type cachedParticipantByID struct {
	value  participant.Participant
	exists bool
}

func (r *ParticipantRepository) ListByNames(ctx context.Context, names []string) ([]participant.Participant, error) {
	items, err := r.roster(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[participant.NameKey(name)] = struct{}{}
	}
	out := make([]participant.Participant, 0, len(names))
	for _, item := range items {
		if _, ok := wanted[participant.NameKey(item.Name)]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ParticipantRepository) ListByIDs(ctx context.Context, participantIDs []string) ([]participant.Participant, error) {
	items, err := r.roster(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(participantIDs))
	for _, participantID := range participantIDs {
		wanted[participantID] = struct{}{}
	}
	out := make([]participant.Participant, 0, len(participantIDs))
	for _, item := range items {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *ParticipantRepository) Create(ctx context.Context, item participant.Participant) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, participantKeyPrefix)
	return nil
}

func (r *ParticipantRepository) Update(ctx context.Context, item participant.Participant) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, participantKeyPrefix)
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, participantID string) error {
	if err := r.next.Delete(ctx, participantID); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, participantKeyPrefix)
	return nil
}

func (r *ParticipantRepository) roster(ctx context.Context) ([]participant.Participant, error) {
	return basecache.Load(ctx, r.cache, participantKeyPrefix+"list", func(ctx context.Context) ([]participant.Participant, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]participant.Participant(nil), items...), nil
	})
}
