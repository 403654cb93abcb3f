package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

// stubAdapter serves one season, two teams and two games, the first of
// which is final.
type stubAdapter struct {
	source       string
	boxScoreBody string
}

func (a *stubAdapter) Source() string { return a.source }

func (a *stubAdapter) EventLocale() map[string]canonical.EventType { return nil }

func (a *stubAdapter) GetSeasons(context.Context) ([]RawSeason, []byte, error) {
	return []RawSeason{{ExternalID: "2024", Name: "2024-25", StartYear: 2024, EndYear: 2025}},
		[]byte(`[{"id":"2024"}]`), nil
}

func (a *stubAdapter) GetTeams(_ context.Context, seasonExternalID string) ([]RawTeam, []byte, error) {
	return []RawTeam{
		{ExternalID: "h1", Name: "Hapoel Jerusalem"},
		{ExternalID: "a1", Name: "Maccabi Haifa"},
	}, []byte(`teams:` + seasonExternalID), nil
}

func (a *stubAdapter) GetSchedule(_ context.Context, seasonExternalID string) ([]RawGame, []byte, error) {
	kickoff := time.Date(2025, time.November, 2, 19, 30, 0, 0, time.UTC)
	return []RawGame{
		{
			ExternalID:         "g1",
			HomeTeamExternalID: "h1", HomeTeamName: "Hapoel Jerusalem",
			AwayTeamExternalID: "a1", AwayTeamName: "Maccabi Haifa",
			ScheduledAt: kickoff, Status: "FT",
		},
		{
			ExternalID:         "g2",
			HomeTeamExternalID: "a1", HomeTeamName: "Maccabi Haifa",
			AwayTeamExternalID: "h1", AwayTeamName: "Hapoel Jerusalem",
			ScheduledAt: kickoff.Add(7 * 24 * time.Hour), Status: "NS",
		},
	}, []byte(`schedule:` + seasonExternalID), nil
}

func (a *stubAdapter) GetGameBoxScore(_ context.Context, gameExternalID string) (RawBoxScore, []byte, error) {
	return RawBoxScore{
		GameExternalID:     gameExternalID,
		HomeTeamExternalID: "h1",
		AwayTeamExternalID: "a1",
		Lines: []RawStatLine{
			{PlayerExternalID: "p1", PlayerName: "Adam Ariel", TeamExternalID: "h1", Points: 11},
			{PlayerExternalID: "p2", PlayerName: "Jake Cohen", TeamExternalID: "a1", Points: 14},
		},
	}, []byte(a.boxScoreBody + gameExternalID), nil
}

func (a *stubAdapter) GetGamePlayByPlay(_ context.Context, gameExternalID string) ([]RawEvent, []byte, error) {
	return []RawEvent{
		{EventNumber: 1, Period: 1, Clock: "09:12", TeamExternalID: "h1", PlayerExternalID: "p1", Type: "shot", HomeScore: 2},
	}, []byte(`pbp:` + gameExternalID), nil
}

func (a *stubAdapter) IsGameFinal(raw RawGame) bool {
	status, ok := canonical.ParseGameStatus(raw.Status)
	return ok && status == canonical.StatusFinal
}

type runFixture struct {
	svc     *SyncRunService
	games   *memory.GameRepository
	stats   *memory.GameStatsRepository
	players *memory.PlayerRepository
}

func newRunFixture(t *testing.T, adapter SourceAdapter) *runFixture {
	t.Helper()

	teams := memory.NewTeamRepository()
	rosters := memory.NewRosterRepository()
	players := memory.NewPlayerRepository(rosters)
	conflicts := memory.NewConflictRepository()
	games := memory.NewGameRepository()
	stats := memory.NewGameStatsRepository()
	pbp := memory.NewPlayByPlayRepository()
	ids := id.NewRandomGenerator()
	logger := logging.NewNop()

	playerSvc := NewPlayerSyncService(players, conflicts, ids, logger)
	teamSvc := NewTeamSyncService(teams, rosters, conflicts, playerSvc, ids, logger)
	gameSvc := NewGameSyncService(games, stats, pbp, rosters, teams, teamSvc, playerSvc, ids, logger)
	leagueSvc := NewLeagueSyncService(memory.NewLeagueRepository(), memory.NewSeasonRepository(), ids, logger)
	cacheSvc := NewSyncCacheService(memory.NewSyncCacheRepository(), logger)

	svc := NewSyncRunService(leagueSvc, teamSvc, gameSvc, cacheSvc, logger)
	require.NoError(t, svc.Register(adapter, LeagueBinding{LeagueID: "ibl", Name: "Ligat HaAl", Country: "Israel"}))
	return &runFixture{svc: svc, games: games, stats: stats, players: players}
}

func TestSyncRunService_Run_FullThenCached(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{source: "winner", boxScoreBody: "box:"}
	f := newRunFixture(t, adapter)
	ctx := context.Background()

	result, err := f.svc.Run(ctx, SyncRunInput{MaxWorkers: 2})
	require.NoError(t, err)

	// One teams unit and two game units.
	require.Equal(t, 3, result.TaskCount)
	require.Equal(t, 0, result.FailedCount)
	require.Equal(t, 0, result.ConflictCount)
	require.Equal(t, 3, result.CreatedCount)

	g1, ok, err := f.games.GetBySourceExternalID(ctx, "winner", "g1")
	require.NoError(t, err)
	require.True(t, ok)

	lines, err := f.stats.ListPlayerLines(ctx, g1.ID, "winner")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// The scheduled game got no statistics.
	g2, ok, err := f.games.GetBySourceExternalID(ctx, "winner", "g2")
	require.NoError(t, err)
	require.True(t, ok)
	lines, err = f.stats.ListPlayerLines(ctx, g2.ID, "winner")
	require.NoError(t, err)
	require.Empty(t, lines)

	// A second run with identical payloads is skipped by the cache.
	again, err := f.svc.Run(ctx, SyncRunInput{MaxWorkers: 2})
	require.NoError(t, err)
	require.Equal(t, 0, again.FailedCount)
	require.Equal(t, 0, again.CreatedCount)
	require.NotZero(t, again.SkippedCount)
}

func TestSyncRunService_Run_ForceBypassesCache(t *testing.T) {
	t.Parallel()

	adapter := &stubAdapter{source: "winner", boxScoreBody: "box:"}
	f := newRunFixture(t, adapter)
	ctx := context.Background()

	_, err := f.svc.Run(ctx, SyncRunInput{})
	require.NoError(t, err)

	result, err := f.svc.Run(ctx, SyncRunInput{Force: true})
	require.NoError(t, err)
	require.Equal(t, 0, result.FailedCount)
	// Every unit re-ingests; nothing reports a cache skip.
	for _, unit := range result.Units {
		require.NotEqual(t, "payload unchanged", unit.Message, "unit %s", unit.Unit)
	}
}

func TestSyncRunService_Run_UnknownSource(t *testing.T) {
	t.Parallel()

	f := newRunFixture(t, &stubAdapter{source: "winner"})
	_, err := f.svc.Run(context.Background(), SyncRunInput{Source: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)
}
