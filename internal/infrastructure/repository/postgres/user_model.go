package postgres

import (
	"database/sql"
	"time"
)

type userTableModel struct {
	ID           int64          `db:"id"`
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	DisplayName  sql.NullString `db:"display_name"`
	FavoriteTeam sql.NullString `db:"favorite_team"`
	Country      sql.NullString `db:"country"`
	Bio          sql.NullString `db:"bio"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type userInsertModel struct {
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var userColumns = []string{
	"id", "user_id", "username", "email", "role",
	"display_name", "favorite_team", "country", "bio", "created_at", "updated_at",
}
