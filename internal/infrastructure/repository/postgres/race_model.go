package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type raceTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	Name         string         `db:"name"`
	RaceDate     time.Time      `db:"race_date"`
	Track        string         `db:"track"`
	Weather      string         `db:"weather"`
	Tyres        string         `db:"tyres"`
	Status       string         `db:"status"`
	ResultsOrder pq.StringArray `db:"results_order"`
	ClosedAt     sql.NullTime   `db:"closed_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type raceInsertModel struct {
	PublicID     string         `db:"public_id"`
	Name         string         `db:"name"`
	RaceDate     time.Time      `db:"race_date"`
	Track        string         `db:"track"`
	Weather      string         `db:"weather"`
	Tyres        string         `db:"tyres"`
	Status       string         `db:"status"`
	ResultsOrder pq.StringArray `db:"results_order"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

var raceColumns = []string{
	"id", "public_id", "name", "race_date", "track", "weather", "tyres",
	"status", "results_order", "closed_at", "created_at", "updated_at", "deleted_at",
}
