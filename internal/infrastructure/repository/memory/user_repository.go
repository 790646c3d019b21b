package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
	now   func() time.Time
}

func NewUserRepository(users []user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, u := range users {
		items[u.ID] = cloneUser(u)
	}

	return &UserRepository{items: items, now: time.Now}
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.items))
	for _, u := range r.items {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}

	return cloneUser(u), true, nil
}

func (r *UserRepository) UpsertIdentity(_ context.Context, identity user.Identity) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	u, ok := r.items[identity.ID]
	if !ok {
		u = user.User{ID: identity.ID, CreatedAt: now}
	}
	u.Username = identity.Username
	u.Email = identity.Email
	u.Role = identity.Role
	u.UpdatedAt = now
	r.items[identity.ID] = u

	return cloneUser(u), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, userID string, profile user.Profile) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return user.User{}, false, nil
	}
	u.DisplayName = cloneString(profile.DisplayName)
	u.FavoriteTeam = cloneString(profile.FavoriteTeam)
	u.Country = cloneString(profile.Country)
	u.Bio = cloneString(profile.Bio)
	u.UpdatedAt = r.now().UTC()
	r.items[userID] = u

	return cloneUser(u), true, nil
}

func cloneUser(u user.User) user.User {
	copied := u
	copied.DisplayName = cloneString(u.DisplayName)
	copied.FavoriteTeam = cloneString(u.FavoriteTeam)
	copied.Country = cloneString(u.Country)
	copied.Bio = cloneString(u.Bio)
	return copied
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
