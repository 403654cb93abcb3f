package gamestats

import "fmt"

// PlayerLine is one player's statistics for one game as reported by one
// source. Lines are snapshots of the provider's reporting: a re-sync
// replaces every line for the (game, source) pair instead of merging.
type PlayerLine struct {
	GameID          string
	Source          string
	PlayerID        string
	TeamID          string
	SecondsPlayed   int
	Points          int
	TwoPointsMade   int
	TwoPointsAtt    int
	ThreePointsMade int
	ThreePointsAtt  int
	FreeThrowsMade  int
	FreeThrowsAtt   int
	OffRebounds     int
	DefRebounds     int
	Assists         int
	Steals          int
	Blocks          int
	Turnovers       int
	Fouls           int
	PlusMinus       int
	Starter         bool
	JerseyNumber    *int
}

// TeamLine is a team's aggregate statistics for one game from one source,
// derived by summing the resolved player lines.
type TeamLine struct {
	GameID          string
	Source          string
	TeamID          string
	Points          int
	TwoPointsMade   int
	TwoPointsAtt    int
	ThreePointsMade int
	ThreePointsAtt  int
	FreeThrowsMade  int
	FreeThrowsAtt   int
	OffRebounds     int
	DefRebounds     int
	Assists         int
	Steals          int
	Blocks          int
	Turnovers       int
	Fouls           int
}

func (l PlayerLine) Validate() error {
	if l.GameID == "" || l.Source == "" {
		return fmt.Errorf("player line game id and source are required")
	}
	if l.PlayerID == "" {
		return fmt.Errorf("player line player id is required")
	}
	if l.TeamID == "" {
		return fmt.Errorf("player line team id is required")
	}
	return nil
}

// Rebounds is the conventional total.
func (l PlayerLine) Rebounds() int { return l.OffRebounds + l.DefRebounds }

// Aggregate sums player lines into a team line. Caller guarantees all lines
// belong to the same (game, source, team).
func Aggregate(gameID, source, teamID string, lines []PlayerLine) TeamLine {
	out := TeamLine{GameID: gameID, Source: source, TeamID: teamID}
	for _, l := range lines {
		out.Points += l.Points
		out.TwoPointsMade += l.TwoPointsMade
		out.TwoPointsAtt += l.TwoPointsAtt
		out.ThreePointsMade += l.ThreePointsMade
		out.ThreePointsAtt += l.ThreePointsAtt
		out.FreeThrowsMade += l.FreeThrowsMade
		out.FreeThrowsAtt += l.FreeThrowsAtt
		out.OffRebounds += l.OffRebounds
		out.DefRebounds += l.DefRebounds
		out.Assists += l.Assists
		out.Steals += l.Steals
		out.Blocks += l.Blocks
		out.Turnovers += l.Turnovers
		out.Fouls += l.Fouls
	}
	return out
}
