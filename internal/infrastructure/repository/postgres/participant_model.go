package postgres

import "time"

type participantTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	NameKey   string     `db:"name_key"`
	Team      string     `db:"team"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type participantInsertModel struct {
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	NameKey   string    `db:"name_key"`
	Team      string    `db:"team"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
