package euroleague

import (
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/usecase"
)

// Euroleague play-by-play uses its own shorthand codes on top of the
// common ones. Biography data is already well behaved (centimeter heights,
// ISO dates), only the action tokens need a locale table.
var euroleagueEventLocale = map[string]canonical.EventType{
	"2fgm":  canonical.EventShot,
	"2fga":  canonical.EventShot,
	"3fgm":  canonical.EventShot,
	"3fga":  canonical.EventShot,
	"as":    canonical.EventAssist,
	"st":    canonical.EventSteal,
	"fv":    canonical.EventBlock,
	"ag":    canonical.EventShot,
	"d":     canonical.EventRebound,
	"o":     canonical.EventRebound,
	"of":    canonical.EventFoul,
	"tpoff": canonical.EventJumpBall,
}

func (c *Client) EventLocale() map[string]canonical.EventType { return euroleagueEventLocale }

func (c *Client) IsGameFinal(raw usecase.RawGame) bool {
	status, ok := canonical.ParseGameStatus(raw.Status)
	return ok && status == canonical.StatusFinal
}

type wireSeason struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

type wireClub struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
	City  string `json:"city"`
	Arena string `json:"arena"`
	Crest string `json:"crest"`
}

type wireClubRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type wireSide struct {
	Club  wireClubRef `json:"club"`
	Score *int        `json:"score"`
}

type wireGame struct {
	Code   string   `json:"code"`
	Local  wireSide `json:"local"`
	Road   wireSide `json:"road"`
	Date   string   `json:"date"`
	Status string   `json:"status"`
	Arena  string   `json:"arena"`
}

type wirePlayerRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type wirePlayerStat struct {
	Player       wirePlayerRef `json:"player"`
	Dorsal       *int          `json:"dorsal"`
	PositionName string        `json:"positionName"`
	IsStarter    bool          `json:"isStarter"`
	Minutes      string        `json:"minutes"`
	Points       int           `json:"points"`
	FGMade2      int           `json:"fieldGoalsMade2"`
	FGAtt2       int           `json:"fieldGoalsAttempted2"`
	FGMade3      int           `json:"fieldGoalsMade3"`
	FGAtt3       int           `json:"fieldGoalsAttempted3"`
	FTMade       int           `json:"freeThrowsMade"`
	FTAtt        int           `json:"freeThrowsAttempted"`
	OffRebounds  int           `json:"offensiveRebounds"`
	DefRebounds  int           `json:"defensiveRebounds"`
	Assists      int           `json:"assistances"`
	Steals       int           `json:"steals"`
	Blocks       int           `json:"blocksFavour"`
	Turnovers    int           `json:"turnovers"`
	Fouls        int           `json:"foulsCommited"`
	PlusMinus    int           `json:"plusminus"`
}

type wireSideStats struct {
	Players []wirePlayerStat `json:"players"`
}

type wireGameStats struct {
	Local wireSideStats `json:"local"`
	Road  wireSideStats `json:"road"`
}

type wirePlay struct {
	NumberOfPlay int    `json:"numberOfPlay"`
	Quarter      int    `json:"quarter"`
	MarkerTime   string `json:"markerTime"`
	TeamCode     string `json:"teamCode"`
	PlayerCode   string `json:"playerCode"`
	PlayType     string `json:"playType"`
	RelatedPlays []int  `json:"relatedPlays"`
	PointsA      int    `json:"pointsA"`
	PointsB      int    `json:"pointsB"`
}

func mapSeasons(items []wireSeason) []usecase.RawSeason {
	out := make([]usecase.RawSeason, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawSeason{
			ExternalID: strings.TrimSpace(item.Code),
			Name:       strings.TrimSpace(item.Name),
			StartYear:  item.Year,
			EndYear:    item.Year + 1,
		})
	}
	return out
}

func mapClubs(items []wireClub) []usecase.RawTeam {
	out := make([]usecase.RawTeam, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawTeam{
			ExternalID: strings.TrimSpace(item.Code),
			Name:       strings.TrimSpace(item.Name),
			ShortName:  strings.TrimSpace(item.Alias),
			City:       strings.TrimSpace(item.City),
			VenueName:  strings.TrimSpace(item.Arena),
			LogoURL:    strings.TrimSpace(item.Crest),
		})
	}
	return out
}

func mapGames(items []wireGame) []usecase.RawGame {
	out := make([]usecase.RawGame, 0, len(items))
	for _, item := range items {
		out = append(out, mapGame(item))
	}
	return out
}

func mapGame(item wireGame) usecase.RawGame {
	return usecase.RawGame{
		ExternalID:         strings.TrimSpace(item.Code),
		HomeTeamExternalID: strings.TrimSpace(item.Local.Club.Code),
		AwayTeamExternalID: strings.TrimSpace(item.Road.Club.Code),
		HomeTeamName:       strings.TrimSpace(item.Local.Club.Name),
		AwayTeamName:       strings.TrimSpace(item.Road.Club.Name),
		ScheduledAt:        parseGameDate(item.Date),
		Status:             strings.TrimSpace(item.Status),
		HomeScore:          item.Local.Score,
		AwayScore:          item.Road.Score,
		Venue:              strings.TrimSpace(item.Arena),
	}
}

func mapBoxScore(gameExternalID string, header wireGame, stats wireGameStats) usecase.RawBoxScore {
	homeCode := strings.TrimSpace(header.Local.Club.Code)
	awayCode := strings.TrimSpace(header.Road.Club.Code)

	out := usecase.RawBoxScore{
		GameExternalID:     gameExternalID,
		HomeTeamExternalID: homeCode,
		AwayTeamExternalID: awayCode,
		Lines:              make([]usecase.RawStatLine, 0, len(stats.Local.Players)+len(stats.Road.Players)),
	}
	for _, row := range stats.Local.Players {
		out.Lines = append(out.Lines, mapStatLine(homeCode, row))
	}
	for _, row := range stats.Road.Players {
		out.Lines = append(out.Lines, mapStatLine(awayCode, row))
	}
	return out
}

func mapStatLine(teamCode string, row wirePlayerStat) usecase.RawStatLine {
	return usecase.RawStatLine{
		PlayerExternalID: strings.TrimSpace(row.Player.Code),
		PlayerName:       strings.TrimSpace(row.Player.Name),
		TeamExternalID:   teamCode,
		JerseyNumber:     row.Dorsal,
		Positions:        strings.TrimSpace(row.PositionName),
		Starter:          row.IsStarter,
		SecondsPlayed:    parseMinutesSeconds(row.Minutes),
		Points:           row.Points,
		TwoPointsMade:    row.FGMade2,
		TwoPointsAtt:     row.FGAtt2,
		ThreePointsMade:  row.FGMade3,
		ThreePointsAtt:   row.FGAtt3,
		FreeThrowsMade:   row.FTMade,
		FreeThrowsAtt:    row.FTAtt,
		OffRebounds:      row.OffRebounds,
		DefRebounds:      row.DefRebounds,
		Assists:          row.Assists,
		Steals:           row.Steals,
		Blocks:           row.Blocks,
		Turnovers:        row.Turnovers,
		Fouls:            row.Fouls,
		PlusMinus:        row.PlusMinus,
	}
}

func mapPlays(items []wirePlay) []usecase.RawEvent {
	out := make([]usecase.RawEvent, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.RawEvent{
			EventNumber:         item.NumberOfPlay,
			Period:              item.Quarter,
			Clock:               strings.TrimSpace(item.MarkerTime),
			TeamExternalID:      strings.TrimSpace(item.TeamCode),
			PlayerExternalID:    strings.TrimSpace(item.PlayerCode),
			Type:                strings.TrimSpace(item.PlayType),
			RelatedEventNumbers: item.RelatedPlays,
			HomeScore:           item.PointsA,
			AwayScore:           item.PointsB,
		})
	}
	return out
}

func parseGameDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC()
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return parsed.UTC()
	}
	return time.Time{}
}

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
