package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/race-tipping/internal/domain/user"
	qb "github.com/riskibarqy/race-tipping/internal/platform/querybuilder"
)

type UserRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userColumns...).
		From("app_users").
		OrderBy("username", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select(userColumns...).
		From("app_users").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) UpsertIdentity(ctx context.Context, identity user.Identity) (user.User, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return user.User{}, fmt.Errorf("user id is required")
	}

	now := storedTime(r.now())
	insertModel := userInsertModel{
		UserID:    identity.ID,
		Username:  identity.Username,
		Email:     identity.Email,
		Role:      string(identity.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	query, args, err := qb.InsertModel("app_users", insertModel).
		OnConflict("(user_id) DO UPDATE SET username = EXCLUDED.username, email = EXCLUDED.email, " +
			"role = EXCLUDED.role, updated_at = EXCLUDED.updated_at").
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return user.User{}, fmt.Errorf("build upsert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return userFromRow(row), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, profile user.Profile) (user.User, bool, error) {
	query, args, err := qb.Update("app_users").
		Set("display_name", stringPtrToNull(profile.DisplayName)).
		Set("favorite_team", stringPtrToNull(profile.FavoriteTeam)).
		Set("country", stringPtrToNull(profile.Country)).
		Set("bio", stringPtrToNull(profile.Bio)).
		Set("updated_at", storedTime(r.now())).
		Where(qb.Eq("user_id", userID)).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build update profile query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("update profile: %w", err)
	}
	return userFromRow(row), true, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.UserID,
		Username:     row.Username,
		Email:        row.Email,
		Role:         user.Role(row.Role),
		DisplayName:  nullStringPtr(row.DisplayName),
		FavoriteTeam: nullStringPtr(row.FavoriteTeam),
		Country:      nullStringPtr(row.Country),
		Bio:          nullStringPtr(row.Bio),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
