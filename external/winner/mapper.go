package winner

import (
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/usecase"
)

// The Winner feed is published Hebrew-first. Action tokens and game
// statuses arrive untranslated, so the adapter ships its own locale table
// and leaves biography fields (heights in meters, day-first birthdates)
// untouched for the canonical parsers.
var winnerEventLocale = map[string]canonical.EventType{
	"קליעה":       canonical.EventShot,
	"שלשה":        canonical.EventShot,
	"זריקה חופשית": canonical.EventFreeThrow,
	"ריבאונד":     canonical.EventRebound,
	"אסיסט":       canonical.EventAssist,
	"איבוד":       canonical.EventTurnover,
	"חטיפה":       canonical.EventSteal,
	"חסימה":       canonical.EventBlock,
	"עבירה":       canonical.EventFoul,
	"חילוף":       canonical.EventSubstitution,
	"פסק זמן":     canonical.EventTimeout,
	"כדור קפיצה":  canonical.EventJumpBall,
}

func (c *Client) EventLocale() map[string]canonical.EventType { return winnerEventLocale }

func (c *Client) IsGameFinal(raw usecase.RawGame) bool {
	status, ok := canonical.ParseGameStatus(raw.Status)
	return ok && status == canonical.StatusFinal
}

type wireSeason struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

type wireTeam struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	City      string `json:"city"`
	Arena     string `json:"arena"`
	LogoURL   string `json:"logo_url"`
}

type wireGame struct {
	ID           string `json:"id"`
	HomeTeamID   string `json:"home_team_id"`
	AwayTeamID   string `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	StartTime    string `json:"start_time"`
	Status       string `json:"status"`
	HomeScore    *int   `json:"home_score"`
	AwayScore    *int   `json:"away_score"`
	Arena        string `json:"arena"`
}

type wireStatLine struct {
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	TeamID       string `json:"team_id"`
	JerseyNumber *int   `json:"jersey_number"`
	Position     string `json:"position"`
	Starter      bool   `json:"starter"`
	Minutes      string `json:"minutes"`
	Points       int    `json:"points"`
	TwoMade      int    `json:"fg2_made"`
	TwoAtt       int    `json:"fg2_att"`
	ThreeMade    int    `json:"fg3_made"`
	ThreeAtt     int    `json:"fg3_att"`
	FTMade       int    `json:"ft_made"`
	FTAtt        int    `json:"ft_att"`
	OffRebounds  int    `json:"off_rebounds"`
	DefRebounds  int    `json:"def_rebounds"`
	Assists      int    `json:"assists"`
	Steals       int    `json:"steals"`
	Blocks       int    `json:"blocks"`
	Turnovers    int    `json:"turnovers"`
	Fouls        int    `json:"fouls"`
	PlusMinus    int    `json:"plus_minus"`
}

type wireBoxScore struct {
	HomeTeamID string         `json:"home_team_id"`
	AwayTeamID string         `json:"away_team_id"`
	Players    []wireStatLine `json:"players"`
}

type wireAction struct {
	Number    int    `json:"number"`
	Quarter   int    `json:"quarter"`
	Clock     string `json:"clock"`
	TeamID    string `json:"team_id"`
	PlayerID  string `json:"player_id"`
	Type      string `json:"type"`
	Related   []int  `json:"related"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

func mapSeasons(items []wireSeason) []usecase.RawSeason {
	out := make([]usecase.RawSeason, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawSeason{
			ExternalID: strings.TrimSpace(item.ID),
			Name:       strings.TrimSpace(item.Name),
			StartYear:  item.StartYear,
			EndYear:    item.EndYear,
		})
	}
	return out
}

func mapTeams(items []wireTeam) []usecase.RawTeam {
	out := make([]usecase.RawTeam, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawTeam{
			ExternalID: strings.TrimSpace(item.ID),
			Name:       strings.TrimSpace(item.Name),
			ShortName:  strings.TrimSpace(item.ShortName),
			City:       strings.TrimSpace(item.City),
			VenueName:  strings.TrimSpace(item.Arena),
			LogoURL:    strings.TrimSpace(item.LogoURL),
		})
	}
	return out
}

func mapGames(items []wireGame) []usecase.RawGame {
	out := make([]usecase.RawGame, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawGame{
			ExternalID:         strings.TrimSpace(item.ID),
			HomeTeamExternalID: strings.TrimSpace(item.HomeTeamID),
			AwayTeamExternalID: strings.TrimSpace(item.AwayTeamID),
			HomeTeamName:       strings.TrimSpace(item.HomeTeamName),
			AwayTeamName:       strings.TrimSpace(item.AwayTeamName),
			ScheduledAt:        parseStartTime(item.StartTime),
			Status:             strings.TrimSpace(item.Status),
			HomeScore:          item.HomeScore,
			AwayScore:          item.AwayScore,
			Venue:              strings.TrimSpace(item.Arena),
		})
	}
	return out
}

func mapBoxScore(gameExternalID string, box wireBoxScore) usecase.RawBoxScore {
	out := usecase.RawBoxScore{
		GameExternalID:     gameExternalID,
		HomeTeamExternalID: strings.TrimSpace(box.HomeTeamID),
		AwayTeamExternalID: strings.TrimSpace(box.AwayTeamID),
		Lines:              make([]usecase.RawStatLine, 0, len(box.Players)),
	}
	for _, line := range box.Players {
		out.Lines = append(out.Lines, usecase.RawStatLine{
			PlayerExternalID: strings.TrimSpace(line.PlayerID),
			PlayerName:       strings.TrimSpace(line.PlayerName),
			TeamExternalID:   strings.TrimSpace(line.TeamID),
			JerseyNumber:     line.JerseyNumber,
			Positions:        strings.TrimSpace(line.Position),
			Starter:          line.Starter,
			SecondsPlayed:    parseMinutesSeconds(line.Minutes),
			Points:           line.Points,
			TwoPointsMade:    line.TwoMade,
			TwoPointsAtt:     line.TwoAtt,
			ThreePointsMade:  line.ThreeMade,
			ThreePointsAtt:   line.ThreeAtt,
			FreeThrowsMade:   line.FTMade,
			FreeThrowsAtt:    line.FTAtt,
			OffRebounds:      line.OffRebounds,
			DefRebounds:      line.DefRebounds,
			Assists:          line.Assists,
			Steals:           line.Steals,
			Blocks:           line.Blocks,
			Turnovers:        line.Turnovers,
			Fouls:            line.Fouls,
			PlusMinus:        line.PlusMinus,
		})
	}
	return out
}

func mapActions(items []wireAction) []usecase.RawEvent {
	out := make([]usecase.RawEvent, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawEvent{
			EventNumber:         item.Number,
			Period:              item.Quarter,
			Clock:               strings.TrimSpace(item.Clock),
			TeamExternalID:      strings.TrimSpace(item.TeamID),
			PlayerExternalID:    strings.TrimSpace(item.PlayerID),
			Type:                strings.TrimSpace(item.Type),
			RelatedEventNumbers: item.Related,
			HomeScore:           item.HomeScore,
			AwayScore:           item.AwayScore,
		})
	}
	return out
}

func parseStartTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.Parse("2006-01-02 15:04", raw); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}

// parseMinutesSeconds converts the feed's "MM:SS" playing time to seconds.
// A bare number is taken as whole minutes.
func parseMinutesSeconds(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parts := strings.SplitN(raw, ":", 2)
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || minutes < 0 {
		return 0
	}
	seconds := 0
	if len(parts) == 2 {
		seconds, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || seconds < 0 || seconds > 59 {
			seconds = 0
		}
	}
	return minutes*60 + seconds
}
