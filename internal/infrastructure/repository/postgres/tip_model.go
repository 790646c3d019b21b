package postgres

import "time"

type tipTableModel struct {
	ID                  int64      `db:"id"`
	UserID              string     `db:"user_id"`
	RacePublicID        string     `db:"race_public_id"`
	Position            int        `db:"position"`
	ParticipantPublicID string     `db:"participant_public_id"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

var tipColumns = []string{"id", "user_id", "race_public_id", "position", "participant_public_id", "updated_at", "deleted_at"}
