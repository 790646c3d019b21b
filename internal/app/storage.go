package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/race-tipping/internal/config"
	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/domain/race"
	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	"github.com/riskibarqy/race-tipping/internal/domain/user"
	cacherepo "github.com/riskibarqy/race-tipping/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/race-tipping/internal/platform/cache"
	"github.com/riskibarqy/race-tipping/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	participants participant.Repository
	races        race.Repository
	tips         tip.Repository
	users        user.Repository
	close        func() error
}

func buildRepositories(ctx context.Context, cfg config.Config, store *cache.Store, logger *logging.Logger) (repositories, error) {
	seed, err := memory.LoadSeed(cfg.RosterSeedFile)
	if err != nil {
		return repositories{}, err
	}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		repos, err = openPostgres(ctx, cfg, seed, logger)
	default:
		repos, err = openMemory(seed)
	}
	if err != nil {
		return repositories{}, err
	}

	if cfg.CacheEnabled && store != nil {
		repos.participants = cacherepo.NewParticipantRepository(repos.participants, store)
		repos.races = cacherepo.NewRaceRepository(repos.races, store)
	}

	logger.Info("storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled,
		"season", seed.Season,
	)
	return repos, nil
}

func openMemory(seed memory.Seed) (repositories, error) {
	now := time.Now().UTC()
	participants, err := seed.ParticipantList(now)
	if err != nil {
		return repositories{}, err
	}
	races, err := seed.RaceList(now)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		participants: memory.NewParticipantRepository(participants),
		races:        memory.NewRaceRepository(races),
		tips:         memory.NewTipRepository(),
		users:        memory.NewUserRepository(nil),
		close:        func() error { return nil },
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, seed memory.Seed, logger *logging.Logger) (repositories, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping postgres: %w", err)
	}

	if err := postgres.BootstrapSeed(ctx, db, seed); err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	logger.Info("postgres connected", "db_name", dbNameFromURL(dsn))

	return newPostgresRepositories(db), nil
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		participants: postgres.NewParticipantRepository(db),
		races:        postgres.NewRaceRepository(db),
		tips:         postgres.NewTipRepository(db),
		users:        postgres.NewUserRepository(db),
		close:        db.Close,
	}
}
