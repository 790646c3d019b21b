package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/race-tipping/internal/domain/tip"
	qb "github.com/riskibarqy/race-tipping/internal/platform/querybuilder"
)

type TipRepository struct {
	db *sqlx.DB
}

func NewTipRepository(db *sqlx.DB) *TipRepository {
	return &TipRepository{db: db}
}

func tipBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(tipColumns...).From("tips")
}

func (r *TipRepository) GetByUserAndRace(ctx context.Context, userID, raceID string) (tip.Guess, bool, error) {
	query, args, err := tipBaseSelectBuilder().
		Where(qb.Eq("user_id", userID), qb.Eq("race_public_id", raceID), qb.IsNull("deleted_at")).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return tip.Guess{}, false, fmt.Errorf("build get tip query: %w", err)
	}

	guesses, err := r.selectGuesses(ctx, "get tip", query, args)
	if err != nil {
		return tip.Guess{}, false, err
	}
	if len(guesses) == 0 {
		return tip.Guess{}, false, nil
	}
	return guesses[0], true, nil
}

func (r *TipRepository) ListByRace(ctx context.Context, raceID string) ([]tip.Guess, error) {
	query, args, err := tipBaseSelectBuilder().
		Where(qb.Eq("race_public_id", raceID), qb.IsNull("deleted_at")).
		OrderBy("user_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tips by race query: %w", err)
	}

	return r.selectGuesses(ctx, "list tips by race", query, args)
}

func (r *TipRepository) ListByUser(ctx context.Context, userID string) ([]tip.Guess, error) {
	query, args, err := tipBaseSelectBuilder().
		Where(qb.Eq("user_id", userID), qb.IsNull("deleted_at")).
		OrderBy("race_public_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tips by user query: %w", err)
	}

	return r.selectGuesses(ctx, "list tips by user", query, args)
}

// ReplaceAll runs lock, optional compare, soft delete and insert in one
// transaction. The advisory lock serializes writers of the same guess.
func (r *TipRepository) ReplaceAll(ctx context.Context, guess tip.Guess, expectedUpdatedAt *time.Time) (tip.Guess, error) {
	if err := tip.ValidatePicks(guess.Picks); err != nil {
		return tip.Guess{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return tip.Guess{}, fmt.Errorf("begin tx replace tips: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", guess.UserID+"::"+guess.RaceID); err != nil {
		return tip.Guess{}, fmt.Errorf("lock tip %s/%s: %w", guess.UserID, guess.RaceID, err)
	}

	if expectedUpdatedAt != nil {
		stored, err := lastWrite(ctx, tx, guess.UserID, guess.RaceID)
		if err != nil {
			return tip.Guess{}, err
		}
		if !stored.Equal(storedTime(*expectedUpdatedAt)) {
			return tip.Guess{}, tip.ErrStaleWrite
		}
	}

	deleteQuery, deleteArgs, err := qb.Update("tips").
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("user_id", guess.UserID), qb.Eq("race_public_id", guess.RaceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return tip.Guess{}, fmt.Errorf("build delete tips query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return tip.Guess{}, fmt.Errorf("soft delete tips: %w", err)
	}

	guess.UpdatedAt = storedTime(guess.UpdatedAt)
	if !guess.Empty() {
		insert := qb.InsertInto("tips").Columns("user_id", "race_public_id", "position", "participant_public_id", "updated_at")
		for _, pick := range guess.Picks {
			insert.Values(guess.UserID, guess.RaceID, pick.Position, pick.ParticipantID, guess.UpdatedAt)
		}
		insertQuery, insertArgs, err := insert.ToSQL()
		if err != nil {
			return tip.Guess{}, fmt.Errorf("build insert tips query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return tip.Guess{}, fmt.Errorf("insert tips: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return tip.Guess{}, fmt.Errorf("commit replace tips: %w", err)
	}

	guess.Picks = append([]tip.Pick(nil), guess.Picks...)
	return guess, nil
}

func (r *TipRepository) DeleteByRace(ctx context.Context, raceID string) error {
	query, args, err := qb.Update("tips").
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("race_public_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete tips by race query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete tips by race: %w", err)
	}
	return nil
}

func lastWrite(ctx context.Context, tx *sqlx.Tx, userID, raceID string) (time.Time, error) {
	query, args, err := qb.Select("MAX(updated_at)").
		From("tips").
		Where(qb.Eq("user_id", userID), qb.Eq("race_public_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return time.Time{}, fmt.Errorf("build tip last write query: %w", err)
	}

	var stored sql.NullTime
	if err := tx.GetContext(ctx, &stored, query, args...); err != nil {
		return time.Time{}, fmt.Errorf("get tip last write: %w", err)
	}
	if !stored.Valid {
		return time.Time{}, nil
	}
	return storedTime(stored.Time), nil
}

// selectGuesses folds position rows into guesses, preserving first-seen order.
func (r *TipRepository) selectGuesses(ctx context.Context, op, query string, args []any) ([]tip.Guess, error) {
	var rows []tipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return foldTipRows(rows), nil
}

func foldTipRows(rows []tipTableModel) []tip.Guess {
	out := make([]tip.Guess, 0)
	index := make(map[string]int)
	for _, row := range rows {
		key := row.UserID + "::" + row.RacePublicID
		idx, ok := index[key]
		if !ok {
			idx = len(out)
			index[key] = idx
			out = append(out, tip.Guess{UserID: row.UserID, RaceID: row.RacePublicID})
		}
		out[idx].Picks = append(out[idx].Picks, tip.Pick{Position: row.Position, ParticipantID: row.ParticipantPublicID})
		if updatedAt := row.UpdatedAt.UTC(); updatedAt.After(out[idx].UpdatedAt) {
			out[idx].UpdatedAt = updatedAt
		}
	}
	return out
}
