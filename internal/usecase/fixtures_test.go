package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/user"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	"github.com/riskibarqy/race-tipping/internal/platform/id"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

var (
	testNow   = time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	testOrder = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
)

type testEnv struct {
	participantRepo *memory.ParticipantRepository
	raceRepo        *memory.RaceRepository
	tipRepo         *memory.TipRepository
	userRepo        *memory.UserRepository

	participants *ParticipantService
	races        *RaceService
	tips         *TipService
	leaderboard  *LeaderboardService
	profiles     *ProfileService
	store        *cache.Store
}

// newTestEnv wires every service over in-memory storage. Participants are
// named A..L with ids p-A..p-L; race "r1" starts in the given status.
func newTestEnv(t *testing.T, status race.Status, users ...user.User) *testEnv {
	t.Helper()

	roster := make([]participant.Participant, 0, 12)
	for _, name := range append(append([]string(nil), testOrder...), "K", "L") {
		roster = append(roster, participant.Participant{ID: "p-" + name, Name: name, Team: "Team " + name})
	}

	env := &testEnv{
		participantRepo: memory.NewParticipantRepository(roster),
		raceRepo: memory.NewRaceRepository([]race.Race{
			{ID: "r1", Name: "Italian Grand Prix", Date: testNow, Status: status},
		}),
		tipRepo:  memory.NewTipRepository(),
		userRepo: memory.NewUserRepository(users),
		store:    cache.NewStore(time.Minute),
	}

	logger := logging.NewNop()
	env.participants = NewParticipantService(env.participantRepo, id.NewSequenceGenerator("p"))
	env.races = NewRaceService(env.raceRepo, env.tipRepo, env.participants, id.NewSequenceGenerator("race"), logger)
	env.tips = NewTipService(env.raceRepo, env.tipRepo, env.participants, TipConfig{RequireTippable: true}, logger)
	env.leaderboard = NewLeaderboardService(env.userRepo, env.raceRepo, env.tipRepo, env.store, LeaderboardConfig{MaxWorkers: 4}, logger)
	env.profiles = NewProfileService(env.userRepo, env.leaderboard, env.store, logger)

	env.races.SetLeaderboardInvalidator(env.leaderboard)
	env.tips.SetLeaderboardInvalidator(env.leaderboard)
	env.profiles.SetLeaderboardInvalidator(env.leaderboard)

	clock := func() time.Time { return testNow }
	env.races.now = clock
	env.tips.now = clock

	return env
}

func ids(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, "p-"+name)
	}
	return out
}

func strPtr(v string) *string { return &v }
