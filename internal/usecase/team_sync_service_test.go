package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/courtdata/courtsync/internal/domain/storage"
	"github.com/courtdata/courtsync/internal/domain/team"
	"github.com/courtdata/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

type teamFixture struct {
	teams     *memory.TeamRepository
	rosters   *memory.RosterRepository
	players   *memory.PlayerRepository
	conflicts *memory.ConflictRepository
	svc       *TeamSyncService
}

func newTeamFixture() *teamFixture {
	teams := memory.NewTeamRepository()
	rosters := memory.NewRosterRepository()
	players := memory.NewPlayerRepository(rosters)
	conflicts := memory.NewConflictRepository()
	ids := id.NewRandomGenerator()
	logger := logging.NewNop()

	playerSvc := NewPlayerSyncService(players, conflicts, ids, logger)
	return &teamFixture{
		teams:     teams,
		rosters:   rosters,
		players:   players,
		conflicts: conflicts,
		svc:       NewTeamSyncService(teams, rosters, conflicts, playerSvc, ids, logger),
	}
}

func TestTeamSyncService_SyncTeam_CreateThenExternalIDMatch(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	created, outcome, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Hapoel Jerusalem"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	if outcome != OutcomeCreated {
		t.Fatalf("expected created, got=%s", outcome)
	}

	again, outcome, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Hapoel Jerusalem"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	if outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged, got=%s", outcome)
	}
	if again.ID != created.ID {
		t.Fatalf("external id match returned a different team: got=%s want=%s", again.ID, created.ID)
	}
}

func TestTeamSyncService_SyncTeam_MergesByNormalizedName(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	created, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Maccabi Tel Aviv"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}

	// Same club from a second provider with different casing and a city to
	// fill in.
	merged, outcome, err := f.svc.SyncTeam(ctx, "lg-1", "euroleague", RawTeam{
		ExternalID: "TLV", Name: "MACCABI  TEL AVIV", City: "Tel Aviv",
	})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	if outcome != OutcomeMerged {
		t.Fatalf("expected merged, got=%s", outcome)
	}
	if merged.ID != created.ID {
		t.Fatalf("name match created a duplicate team")
	}
	if merged.ExternalIDs["winner"] != "55" || merged.ExternalIDs["euroleague"] != "TLV" {
		t.Fatalf("external id map not merged: %v", merged.ExternalIDs)
	}
	if merged.City != "Tel Aviv" {
		t.Fatalf("missing city not filled: %q", merged.City)
	}
}

func TestTeamSyncService_SyncTeam_DoesNotOverwriteExistingFields(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	_, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Hapoel Holon", City: "Holon"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	merged, _, err := f.svc.SyncTeam(ctx, "lg-1", "euroleague", RawTeam{ExternalID: "HOL", Name: "Hapoel Holon", City: "Elsewhere"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	if merged.City != "Holon" {
		t.Fatalf("merge overwrote a non-empty field: %q", merged.City)
	}
}

func TestTeamSyncService_SyncTeam_ShortNameFallback(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	created, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "7", Name: "Hapoel Tel Aviv", ShortName: "HTA"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	merged, outcome, err := f.svc.SyncTeam(ctx, "lg-1", "euroleague", RawTeam{ExternalID: "TA2", Name: "Hapoel TA", ShortName: "hta"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	if outcome != OutcomeMerged || merged.ID != created.ID {
		t.Fatalf("short name fallback did not merge: outcome=%s", outcome)
	}
}

func TestTeamSyncService_SyncTeam_ExternalIDConflict(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	_, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Ironi Nahariya"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}

	// Same provider, same name, different external id. The name match hits
	// a team already bound for this source.
	_, outcome, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "99", Name: "Ironi Nahariya"})
	if !errors.Is(err, ErrExternalIDConflict) {
		t.Fatalf("expected ErrExternalIDConflict, got=%v", err)
	}
	if outcome != OutcomeConflict {
		t.Fatalf("expected conflict outcome, got=%s", outcome)
	}

	recorded, err := f.conflicts.List(ctx, 10)
	if err != nil {
		t.Fatalf("List conflicts error: %v", err)
	}
	if len(recorded) != 1 || recorded[0].EntityKind != "team" {
		t.Fatalf("conflict not recorded: %+v", recorded)
	}
}

// staleReadTeamRepo misses the first external-id lookup per pair, as if a
// concurrent worker bound the pair between the lookup and the merge.
type staleReadTeamRepo struct {
	team.Repository
	missed map[string]bool
}

func (r *staleReadTeamRepo) GetBySourceExternalID(ctx context.Context, source, externalID string) (team.Team, bool, error) {
	key := source + "/" + externalID
	if !r.missed[key] {
		r.missed[key] = true
		return team.Team{}, false, nil
	}
	return r.Repository.GetBySourceExternalID(ctx, source, externalID)
}

func TestTeamSyncService_ConflictRecordsBoundTeam(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	matched, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Ironi Nahariya"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}
	holder, _, err := f.svc.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "99", Name: "Maccabi Haifa"})
	if err != nil {
		t.Fatalf("SyncTeam error: %v", err)
	}

	ids := id.NewRandomGenerator()
	stale := NewTeamSyncService(
		&staleReadTeamRepo{Repository: f.teams, missed: map[string]bool{}},
		f.rosters, f.conflicts,
		NewPlayerSyncService(f.players, f.conflicts, ids, logging.NewNop()),
		ids, logging.NewNop(),
	)

	// winner/99 already belongs to another team, but the first lookup is
	// stale and the name match lands on a team bound to winner/55.
	_, outcome, err := stale.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "99", Name: "Ironi Nahariya"})
	if !errors.Is(err, ErrExternalIDConflict) {
		t.Fatalf("expected ErrExternalIDConflict, got=%v", err)
	}
	if outcome != OutcomeConflict {
		t.Fatalf("expected conflict outcome, got=%s", outcome)
	}

	recorded, err := f.conflicts.List(ctx, 10)
	if err != nil {
		t.Fatalf("List conflicts error: %v", err)
	}
	if len(recorded) != 1 {
		t.Fatalf("conflict not recorded: %+v", recorded)
	}
	if recorded[0].BoundEntityID != holder.ID {
		t.Fatalf("bound entity = %q, want holder %q", recorded[0].BoundEntityID, holder.ID)
	}
	if recorded[0].MatchedEntityID != matched.ID {
		t.Fatalf("matched entity = %q, want %q", recorded[0].MatchedEntityID, matched.ID)
	}
}

// raceTeamRepo makes every Create lose: it creates a competing team with a
// different id through the inner repository, then reports a conflict.
type raceTeamRepo struct {
	team.Repository
	ids id.Generator
}

func (r *raceTeamRepo) Create(ctx context.Context, item team.Team) error {
	winnerID, err := r.ids.NewID()
	if err != nil {
		return err
	}
	winner := item
	winner.ID = winnerID
	if err := r.Repository.Create(ctx, winner); err != nil {
		return err
	}
	return storage.ErrConflict
}

func TestTeamSyncService_SyncTeam_LostCreateRace(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	ids := id.NewRandomGenerator()
	racing := NewTeamSyncService(
		&raceTeamRepo{Repository: f.teams, ids: ids},
		f.rosters, f.conflicts,
		NewPlayerSyncService(f.players, f.conflicts, ids, logging.NewNop()),
		ids, logging.NewNop(),
	)

	got, outcome, err := racing.SyncTeam(ctx, "lg-1", "winner", RawTeam{ExternalID: "55", Name: "Bnei Herzliya"})
	if err != nil {
		t.Fatalf("SyncTeam after lost race error: %v", err)
	}
	if outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged after lost race, got=%s", outcome)
	}

	winner, ok, err := f.teams.GetBySourceExternalID(ctx, "winner", "55")
	if err != nil || !ok {
		t.Fatalf("winner not found: ok=%v err=%v", ok, err)
	}
	if got.ID != winner.ID {
		t.Fatalf("lost race did not resolve to the winning row: got=%s want=%s", got.ID, winner.ID)
	}
}

func TestTeamSyncService_SyncTeamSeason_RecordsParticipation(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	synced, _, err := f.svc.SyncTeamSeason(ctx, "lg-1", "season-1", "winner", RawTeam{ExternalID: "55", Name: "Hapoel Haifa"})
	if err != nil {
		t.Fatalf("SyncTeamSeason error: %v", err)
	}
	if !f.teams.HasSeasonParticipation(synced.ID, "season-1") {
		t.Fatalf("season participation not recorded")
	}
}

func TestTeamSyncService_SyncRoster(t *testing.T) {
	t.Parallel()
	f := newTeamFixture()
	ctx := context.Background()

	synced, _, err := f.svc.SyncTeamSeason(ctx, "lg-1", "season-1", "winner", RawTeam{ExternalID: "55", Name: "Hapoel Galil Elyon"})
	if err != nil {
		t.Fatalf("SyncTeamSeason error: %v", err)
	}

	seven := 7
	result, err := f.svc.SyncRoster(ctx, synced.ID, "season-1", "winner", []RawStatLine{
		{PlayerExternalID: "p1", PlayerName: "Guy Pnini", JerseyNumber: &seven, Positions: "SF"},
		{PlayerExternalID: "p2", PlayerName: "Tamir Blatt", Positions: "PG"},
	})
	if err != nil {
		t.Fatalf("SyncRoster error: %v", err)
	}
	if result.Resolved != 2 || result.Created != 2 {
		t.Fatalf("unexpected roster result: %+v", result)
	}

	members, err := f.rosters.ListByTeamSeason(ctx, synced.ID, "season-1")
	if err != nil {
		t.Fatalf("ListByTeamSeason error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 memberships, got=%d", len(members))
	}
}
