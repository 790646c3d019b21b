package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	"github.com/riskibarqy/race-tipping/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the roster and season calendar into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM participants WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count participants for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := storedTime(time.Now())
	participants, err := seed.ParticipantList(now)
	if err != nil {
		return err
	}
	races, err := seed.RaceList(now)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range participants {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO participants (public_id, name, name_key, team, created_at, updated_at)
VALUES (:public_id, :name, :name_key, :team, :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  p.ID,
			"name":       p.Name,
			"name_key":   participant.NameKey(p.Name),
			"team":       p.Team,
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed participant %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed participant %s: %w", p.ID, err)
		}
	}

	for _, r := range races {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO races (public_id, name, race_date, track, weather, tyres, status, results_order, created_at, updated_at)
VALUES (:public_id, :name, :race_date, :track, '', '', :status, '{}', :created_at, :updated_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  r.ID,
			"name":       r.Name,
			"race_date":  r.Date,
			"track":      r.Track,
			"status":     string(r.Status),
			"created_at": r.CreatedAt,
			"updated_at": r.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind seed race %s query: %w", r.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed race %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
