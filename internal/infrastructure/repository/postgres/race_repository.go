package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/race-tipping/internal/domain/race"
	qb "github.com/riskibarqy/race-tipping/internal/platform/querybuilder"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

func raceBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(raceColumns...).From("races")
}

func (r *RaceRepository) List(ctx context.Context) ([]race.Race, error) {
	query, args, err := raceBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("race_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list races query: %w", err)
	}

	var rows []raceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		out = append(out, raceFromRow(row))
	}
	return out, nil
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	query, args, err := raceBaseSelectBuilder().
		Where(qb.Eq("public_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build get race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get race: %w", err)
	}

	return raceFromRow(row), true, nil
}

func (r *RaceRepository) Create(ctx context.Context, item race.Race) error {
	order := item.OfficialOrder
	if order == nil {
		order = []string{}
	}
	insertModel := raceInsertModel{
		PublicID:     item.ID,
		Name:         item.Name,
		RaceDate:     storedTime(item.Date),
		Track:        item.Track,
		Weather:      item.Weather,
		Tyres:        item.Tyres,
		Status:       string(item.Status),
		ResultsOrder: pq.StringArray(order),
		CreatedAt:    storedTime(item.CreatedAt),
		UpdatedAt:    storedTime(item.UpdatedAt),
	}
	query, args, err := qb.InsertModel("races", insertModel).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert race query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert race: %w", err)
	}
	return nil
}

func (r *RaceRepository) Update(ctx context.Context, item race.Race) error {
	query, args, err := qb.Update("races").
		Set("name", item.Name).
		Set("race_date", storedTime(item.Date)).
		Set("track", item.Track).
		Set("weather", item.Weather).
		Set("tyres", item.Tyres).
		Set("updated_at", storedTime(item.UpdatedAt)).
		Where(qb.Eq("public_id", item.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update race query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update race: %w", err)
	}
	return nil
}

func (r *RaceRepository) Delete(ctx context.Context, raceID string) error {
	query, args, err := qb.Update("races").
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("public_id", raceID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete race query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete race: %w", err)
	}
	return nil
}

func (r *RaceRepository) Transition(ctx context.Context, raceID string, from, to race.Status, at time.Time) (race.Race, bool, error) {
	if !race.CanTransition(from, to) {
		return race.Race{}, false, fmt.Errorf("%w: %s -> %s", race.ErrInvalidTransition, from, to)
	}

	query, args, err := qb.Update("races").
		Set("status", string(to)).
		Set("updated_at", storedTime(at)).
		Where(qb.Eq("public_id", raceID), qb.Eq("status", string(from)), qb.IsNull("deleted_at")).
		Returning(raceColumns...).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build transition race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return race.Race{}, false, fmt.Errorf("transition race: %w", err)
		}
		current, exists, getErr := r.GetByID(ctx, raceID)
		if getErr != nil || !exists {
			return race.Race{}, false, getErr
		}
		return race.Race{}, true, fmt.Errorf("%w: race %s is %s", race.ErrInvalidTransition, raceID, current.Status)
	}

	return raceFromRow(row), true, nil
}

func (r *RaceRepository) Close(ctx context.Context, raceID string, officialOrder []string, at time.Time) (race.Race, bool, error) {
	if err := race.ValidateOfficialOrder(officialOrder); err != nil {
		return race.Race{}, false, err
	}

	order := append([]string{}, officialOrder...)
	query, args, err := qb.Update("races").
		Set("status", string(race.StatusClosed)).
		Set("results_order", pq.StringArray(order)).
		Set("closed_at", storedTime(at)).
		Set("updated_at", storedTime(at)).
		Where(qb.Eq("public_id", raceID), qb.NotEq("status", string(race.StatusClosed)), qb.IsNull("deleted_at")).
		Returning(raceColumns...).
		ToSQL()
	if err != nil {
		return race.Race{}, false, fmt.Errorf("build close race query: %w", err)
	}

	var row raceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isNotFound(err) {
			return race.Race{}, false, fmt.Errorf("close race: %w", err)
		}
		_, exists, getErr := r.GetByID(ctx, raceID)
		if getErr != nil || !exists {
			return race.Race{}, false, getErr
		}
		return race.Race{}, true, fmt.Errorf("%w: %s", race.ErrAlreadyClosed, raceID)
	}

	return raceFromRow(row), true, nil
}

func raceFromRow(row raceTableModel) race.Race {
	return race.Race{
		ID:            row.PublicID,
		Name:          row.Name,
		Date:          row.RaceDate.UTC(),
		Track:         row.Track,
		Weather:       row.Weather,
		Tyres:         row.Tyres,
		Status:        race.Status(row.Status),
		OfficialOrder: append([]string(nil), row.ResultsOrder...),
		ClosedAt:      nullTimePtr(row.ClosedAt),
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}
