package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/race-tipping/internal/domain/participant"
	qb "github.com/riskibarqy/race-tipping/internal/platform/querybuilder"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func participantBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("id", "public_id", "name", "name_key", "team", "created_at", "updated_at", "deleted_at").
		From("participants")
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	query, args, err := participantBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("name_key", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	return r.selectParticipants(ctx, "list participants", query, args)
}

func (r *ParticipantRepository) GetByID(ctx context.Context, participantID string) (participant.Participant, bool, error) {
	query, args, err := participantBaseSelectBuilder().
		Where(qb.Eq("public_id", participantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return participantFromRow(row), true, nil
}

func (r *ParticipantRepository) ListByNames(ctx context.Context, names []string) ([]participant.Participant, error) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, participant.NameKey(name))
	}

	query, args, err := participantBaseSelectBuilder().
		Where(qb.InStrings("name_key", keys), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants by names query: %w", err)
	}

	return r.selectParticipants(ctx, "list participants by names", query, args)
}

func (r *ParticipantRepository) ListByIDs(ctx context.Context, participantIDs []string) ([]participant.Participant, error) {
	query, args, err := participantBaseSelectBuilder().
		Where(qb.InStrings("public_id", participantIDs), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants by ids query: %w", err)
	}

	return r.selectParticipants(ctx, "list participants by ids", query, args)
}

func (r *ParticipantRepository) Create(ctx context.Context, item participant.Participant) error {
	insertModel := participantInsertModel{
		PublicID:  item.ID,
		Name:      item.Name,
		NameKey:   participant.NameKey(item.Name),
		Team:      item.Team,
		CreatedAt: storedTime(item.CreatedAt),
		UpdatedAt: storedTime(item.UpdatedAt),
	}
	query, args, err := qb.InsertModel("participants", insertModel).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", participant.ErrDuplicateName, item.Name)
		}
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Update(ctx context.Context, item participant.Participant) error {
	query, args, err := qb.Update("participants").
		Set("name", item.Name).
		Set("name_key", participant.NameKey(item.Name)).
		Set("team", item.Team).
		Set("updated_at", storedTime(item.UpdatedAt)).
		Where(qb.Eq("public_id", item.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", participant.ErrDuplicateName, item.Name)
		}
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, participantID string) error {
	query, args, err := qb.Update("participants").
		SetExpr("deleted_at", "NOW()").
		Where(qb.Eq("public_id", participantID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete participant query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) selectParticipants(ctx context.Context, op, query string, args []any) ([]participant.Participant, error) {
	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}

func participantFromRow(row participantTableModel) participant.Participant {
	return participant.Participant{
		ID:        row.PublicID,
		Name:      row.Name,
		Team:      row.Team,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
