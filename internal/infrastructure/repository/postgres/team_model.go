package postgres

import "time"

type teamTableModel struct {
	ID             string    `db:"id"`
	LeagueID       string    `db:"league_id"`
	Name           string    `db:"name"`
	NormalizedName string    `db:"normalized_name"`
	ShortName      string    `db:"short_name"`
	City           string    `db:"city"`
	VenueName      string    `db:"venue_name"`
	LogoURL        string    `db:"logo_url"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ID             string `db:"id"`
	LeagueID       string `db:"league_id"`
	Name           string `db:"name"`
	NormalizedName string `db:"normalized_name"`
	ShortName      string `db:"short_name"`
	City           string `db:"city"`
	VenueName      string `db:"venue_name"`
	LogoURL        string `db:"logo_url"`
}

type teamParticipationInsertModel struct {
	TeamID   string `db:"team_id"`
	SeasonID string `db:"season_id"`
}
