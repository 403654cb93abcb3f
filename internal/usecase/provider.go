package usecase

import (
	"context"
	"time"

	"github.com/courtdata/courtsync/internal/canonical"
)

// SourceAdapter is the fetch side of one statistics provider. Adapters
// return provider data already lifted into the Raw* shapes below plus the
// raw response bytes, which feed the sync cache's change detection. All
// interpretation of provider values (positions, heights, event tokens)
// happens downstream through the canonical parsers, not in the adapter.
type SourceAdapter interface {
	// Source is the provider key used in external-id maps, e.g. "winner".
	Source() string
	// EventLocale overrides the default play-by-play token table for this
	// provider. Nil means defaults only.
	EventLocale() map[string]canonical.EventType

	GetSeasons(ctx context.Context) ([]RawSeason, []byte, error)
	GetTeams(ctx context.Context, seasonExternalID string) ([]RawTeam, []byte, error)
	GetSchedule(ctx context.Context, seasonExternalID string) ([]RawGame, []byte, error)
	GetGameBoxScore(ctx context.Context, gameExternalID string) (RawBoxScore, []byte, error)
	GetGamePlayByPlay(ctx context.Context, gameExternalID string) ([]RawEvent, []byte, error)
	// IsGameFinal reports whether the provider considers the game finished
	// and its box score safe to ingest.
	IsGameFinal(raw RawGame) bool
}

type RawSeason struct {
	ExternalID string
	Name       string
	StartYear  int
	EndYear    int
}

type RawTeam struct {
	ExternalID string
	Name       string
	ShortName  string
	City       string
	VenueName  string
	LogoURL    string
}

type RawGame struct {
	ExternalID         string
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeTeamName       string
	AwayTeamName       string
	ScheduledAt        time.Time
	Status             string
	HomeScore          *int
	AwayScore          *int
	Venue              string
}

// RawPlayer is a player biography record as one provider reports it.
// Height is any because providers disagree on representation: integer
// centimeters, float meters or feet-inches strings all occur in the wild.
type RawPlayer struct {
	ExternalID  string
	FullName    string
	Positions   string
	Height      any
	Birthdate   string
	Nationality string
}

// RawStatLine is one player's box-score row. It carries enough identity
// (external id plus display name) for the deduplicator to resolve or create
// the player.
type RawStatLine struct {
	PlayerExternalID string
	PlayerName       string
	TeamExternalID   string
	JerseyNumber     *int
	Positions        string
	Starter          bool
	SecondsPlayed    int
	Points           int
	TwoPointsMade    int
	TwoPointsAtt     int
	ThreePointsMade  int
	ThreePointsAtt   int
	FreeThrowsMade   int
	FreeThrowsAtt    int
	OffRebounds      int
	DefRebounds      int
	Assists          int
	Steals           int
	Blocks           int
	Turnovers        int
	Fouls            int
	PlusMinus        int
}

type RawBoxScore struct {
	GameExternalID     string
	HomeTeamExternalID string
	AwayTeamExternalID string
	Lines              []RawStatLine
}

// RawEvent is one play-by-play row. Type is the provider's untranslated
// token; RelatedEventNumbers reference other rows of the same batch and may
// dangle.
type RawEvent struct {
	EventNumber         int
	Period              int
	Clock               string
	TeamExternalID      string
	PlayerExternalID    string
	Type                string
	RelatedEventNumbers []int
	HomeScore           int
	AwayScore           int
}
