package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

type pointsProvider interface {
	PointsFor(ctx context.Context, userID string) (int, error)
}

// ProfileView is a user with their accumulated points.
type ProfileView struct {
	User   user.User
	Points int
}

type ProfileService struct {
	userRepo    user.Repository
	points      pointsProvider
	leaderboard LeaderboardInvalidator
	// seen remembers identities already upserted; nil upserts every time.
	seen   *cache.Store
	logger *logging.Logger
}

func NewProfileService(userRepo user.Repository, points pointsProvider, seen *cache.Store, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileService{
		userRepo:    userRepo,
		points:      points,
		leaderboard: noopInvalidator{},
		seen:        seen,
		logger:      logger,
	}
}

func (s *ProfileService) SetLeaderboardInvalidator(v LeaderboardInvalidator) {
	if v != nil {
		s.leaderboard = v
	}
}

// EnsureUser records the authenticated identity so the user shows up on the
// leaderboard.
func (s *ProfileService) EnsureUser(ctx context.Context, principal user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.EnsureUser")
	defer span.End()

	identity := user.IdentityFromPrincipal(principal)
	if strings.TrimSpace(identity.ID) == "" {
		return fmt.Errorf("%w: principal has no user id", ErrUnauthorized)
	}

	key := "user:ensured:" + identity.ID + ":" + identity.Username + ":" + identity.Email + ":" + string(identity.Role)
	if s.seen != nil {
		if _, ok := s.seen.Get(ctx, key); ok {
			return nil
		}
	}

	if _, err := s.userRepo.UpsertIdentity(ctx, identity); err != nil {
		return fmt.Errorf("upsert user identity: %w", err)
	}
	if s.seen != nil {
		s.seen.Set(ctx, key, true)
	}
	s.leaderboard.Invalidate(ctx)
	return nil
}

func (s *ProfileService) GetMe(ctx context.Context, userID string) (ProfileView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetMe")
	defer span.End()

	item, err := s.get(ctx, userID)
	if err != nil {
		return ProfileView{}, err
	}

	points, err := s.points.PointsFor(ctx, item.ID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("compute user points: %w", err)
	}
	return ProfileView{User: item, Points: points}, nil
}

// UpdateMe replaces the optional profile fields. Blank values clear a field.
func (s *ProfileService) UpdateMe(ctx context.Context, userID string, profile user.Profile) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateMe")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	updated, exists, err := s.userRepo.UpdateProfile(ctx, userID, profile.Normalize())
	if err != nil {
		return user.User{}, fmt.Errorf("update profile: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	s.leaderboard.Invalidate(ctx)
	return updated, nil
}

func (s *ProfileService) get(ctx context.Context, userID string) (user.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return item, nil
}
