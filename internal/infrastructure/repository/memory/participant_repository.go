package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
)

type ParticipantRepository struct {
	mu     sync.RWMutex
	items  map[string]participant.Participant
	byName map[string]string
	orders []string
}

func NewParticipantRepository(participants []participant.Participant) *ParticipantRepository {
	repo := &ParticipantRepository{
		items:  make(map[string]participant.Participant, len(participants)),
		byName: make(map[string]string, len(participants)),
		orders: make([]string, 0, len(participants)),
	}
	for _, p := range participants {
		repo.items[p.ID] = p
		repo.byName[participant.NameKey(p.Name)] = p.ID
		repo.orders = append(repo.orders, p.ID)
	}

	return repo
}

func (r *ParticipantRepository) List(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *ParticipantRepository) GetByID(_ context.Context, participantID string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[participantID]
	return p, ok, nil
}

func (r *ParticipantRepository) ListByNames(_ context.Context, names []string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		id, ok := r.byName[participant.NameKey(name)]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *ParticipantRepository) ListByIDs(_ context.Context, participantIDs []string) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(participantIDs))
	seen := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		p, ok := r.items[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}

	return out, nil
}

func (r *ParticipantRepository) Create(_ context.Context, item participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := participant.NameKey(item.Name)
	if _, taken := r.byName[key]; taken {
		return participant.ErrDuplicateName
	}
	r.items[item.ID] = item
	r.byName[key] = item.ID
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *ParticipantRepository) Update(_ context.Context, item participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[item.ID]
	if !ok {
		return nil
	}
	key := participant.NameKey(item.Name)
	if owner, taken := r.byName[key]; taken && owner != item.ID {
		return participant.ErrDuplicateName
	}
	delete(r.byName, participant.NameKey(current.Name))
	r.byName[key] = item.ID
	r.items[item.ID] = item
	return nil
}

func (r *ParticipantRepository) Delete(_ context.Context, participantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[participantID]
	if !ok {
		return nil
	}
	delete(r.items, participantID)
	delete(r.byName, participant.NameKey(current.Name))
	for i, id := range r.orders {
		if id == participantID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}
