package postgres

import "database/sql"

type playerLineInsertModel struct {
	GameID          string        `db:"game_id"`
	Source          string        `db:"source"`
	PlayerID        string        `db:"player_id"`
	TeamID          string        `db:"team_id"`
	SecondsPlayed   int           `db:"seconds_played"`
	Points          int           `db:"points"`
	TwoPointsMade   int           `db:"two_points_made"`
	TwoPointsAtt    int           `db:"two_points_att"`
	ThreePointsMade int           `db:"three_points_made"`
	ThreePointsAtt  int           `db:"three_points_att"`
	FreeThrowsMade  int           `db:"free_throws_made"`
	FreeThrowsAtt   int           `db:"free_throws_att"`
	OffRebounds     int           `db:"off_rebounds"`
	DefRebounds     int           `db:"def_rebounds"`
	Assists         int           `db:"assists"`
	Steals          int           `db:"steals"`
	Blocks          int           `db:"blocks"`
	Turnovers       int           `db:"turnovers"`
	Fouls           int           `db:"fouls"`
	PlusMinus       int           `db:"plus_minus"`
	Starter         bool          `db:"starter"`
	JerseyNumber    sql.NullInt64 `db:"jersey_number"`
}

type teamLineInsertModel struct {
	GameID          string `db:"game_id"`
	Source          string `db:"source"`
	TeamID          string `db:"team_id"`
	Points          int    `db:"points"`
	TwoPointsMade   int    `db:"two_points_made"`
	TwoPointsAtt    int    `db:"two_points_att"`
	ThreePointsMade int    `db:"three_points_made"`
	ThreePointsAtt  int    `db:"three_points_att"`
	FreeThrowsMade  int    `db:"free_throws_made"`
	FreeThrowsAtt   int    `db:"free_throws_att"`
	OffRebounds     int    `db:"off_rebounds"`
	DefRebounds     int    `db:"def_rebounds"`
	Assists         int    `db:"assists"`
	Steals          int    `db:"steals"`
	Blocks          int    `db:"blocks"`
	Turnovers       int    `db:"turnovers"`
	Fouls           int    `db:"fouls"`
}
