package postgres

import "time"

type leagueTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Country string `db:"country"`
}

type seasonTableModel struct {
	ID        string    `db:"id"`
	LeagueID  string    `db:"league_id"`
	Name      string    `db:"name"`
	StartYear int       `db:"start_year"`
	EndYear   int       `db:"end_year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seasonInsertModel struct {
	ID        string `db:"id"`
	LeagueID  string `db:"league_id"`
	Name      string `db:"name"`
	StartYear int    `db:"start_year"`
	EndYear   int    `db:"end_year"`
}

type externalIDRowModel struct {
	EntityID   string `db:"entity_id"`
	Source     string `db:"source"`
	ExternalID string `db:"external_id"`
}
