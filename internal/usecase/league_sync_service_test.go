package usecase

import (
	"context"
	"testing"

	"github.com/courtdata/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

func newLeagueService() (*LeagueSyncService, *memory.LeagueRepository, *memory.SeasonRepository) {
	leagues := memory.NewLeagueRepository()
	seasons := memory.NewSeasonRepository()
	svc := NewLeagueSyncService(leagues, seasons, id.NewRandomGenerator(), logging.NewNop())
	return svc, leagues, seasons
}

func TestLeagueSyncService_EnsureLeague_Idempotent(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLeagueService()
	ctx := context.Background()

	first, err := svc.EnsureLeague(ctx, "ibl", "Ligat HaAl", "Israel")
	if err != nil {
		t.Fatalf("EnsureLeague error: %v", err)
	}
	second, err := svc.EnsureLeague(ctx, "ibl", "Ligat HaAl", "Israel")
	if err != nil {
		t.Fatalf("EnsureLeague error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("EnsureLeague not idempotent")
	}
}

func TestLeagueSyncService_SyncSeason(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLeagueService()
	ctx := context.Background()

	if _, err := svc.EnsureLeague(ctx, "ibl", "Ligat HaAl", "Israel"); err != nil {
		t.Fatalf("EnsureLeague error: %v", err)
	}

	created, outcome, err := svc.SyncSeason(ctx, "ibl", "winner", RawSeason{
		ExternalID: "2024", Name: "2024-25", StartYear: 2024, EndYear: 2025,
	})
	if err != nil {
		t.Fatalf("SyncSeason error: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("expected created, got=%s", outcome)
	}

	// Another provider reporting the same years merges into the season.
	merged, outcome, err := svc.SyncSeason(ctx, "ibl", "euroleague", RawSeason{
		ExternalID: "E2024", Name: "2024-25", StartYear: 2024, EndYear: 2025,
	})
	if err != nil {
		t.Fatalf("SyncSeason error: %v", err)
	}
	if outcome != OutcomeMerged || merged.ID != created.ID {
		t.Fatalf("year match failed: outcome=%s", outcome)
	}
	if merged.ExternalIDs["winner"] != "2024" || merged.ExternalIDs["euroleague"] != "E2024" {
		t.Fatalf("season external ids not merged: %v", merged.ExternalIDs)
	}

	// The first provider again resolves by external id.
	again, outcome, err := svc.SyncSeason(ctx, "ibl", "winner", RawSeason{
		ExternalID: "2024", Name: "2024-25", StartYear: 2024, EndYear: 2025,
	})
	if err != nil {
		t.Fatalf("SyncSeason error: %v", err)
	}
	if outcome != OutcomeUnchanged || again.ID != created.ID {
		t.Fatalf("external id match failed: outcome=%s", outcome)
	}
}
