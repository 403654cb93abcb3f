package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtdata/courtsync/internal/domain/conflict"
	"github.com/courtdata/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtdata/courtsync/internal/platform/id"
	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/usecase"
)

const testJobToken = "job-token"

func newTestRouter(t *testing.T) (http.Handler, *memory.ConflictRepository, *usecase.PlayerSyncService) {
	t.Helper()

	rosters := memory.NewRosterRepository()
	players := memory.NewPlayerRepository(rosters)
	conflicts := memory.NewConflictRepository()
	leagues := memory.NewLeagueRepository()
	seasons := memory.NewSeasonRepository()
	teams := memory.NewTeamRepository()
	games := memory.NewGameRepository()
	stats := memory.NewGameStatsRepository()
	events := memory.NewPlayByPlayRepository()
	caches := memory.NewSyncCacheRepository()

	ids := id.NewRandomGenerator()
	logger := logging.NewNop()

	playerSvc := usecase.NewPlayerSyncService(players, conflicts, ids, logger)
	teamSvc := usecase.NewTeamSyncService(teams, rosters, conflicts, playerSvc, ids, logger)
	gameSvc := usecase.NewGameSyncService(games, stats, events, rosters, teams, teamSvc, playerSvc, ids, logger)
	leagueSvc := usecase.NewLeagueSyncService(leagues, seasons, ids, logger)
	cacheSvc := usecase.NewSyncCacheService(caches, logger)
	runSvc := usecase.NewSyncRunService(leagueSvc, teamSvc, gameSvc, cacheSvc, logger)

	handler := NewHandler(runSvc, playerSvc, conflicts, logger)
	return NewRouter(handler, logger, testJobToken), conflicts, playerSvc
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestRouter_TriggerSyncRun_RequiresToken(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouter_TriggerSyncRun_UnknownSource(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/runs", strings.NewReader(`{"source":"nope"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown source, got %d (%s)", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope["error"] == nil {
		t.Fatalf("expected error body: %s", rec.Body.String())
	}
}

func TestRouter_ListConflicts(t *testing.T) {
	t.Parallel()

	router, conflicts, _ := newTestRouter(t)
	if err := conflicts.Record(context.Background(), conflict.Conflict{
		ID:         "c1",
		EntityKind: "player",
		Source:     "winner",
		ExternalID: "w-9",
		Detail:     "external id already bound",
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		t.Fatalf("record conflict: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/conflicts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"external_id":"w-9"`) {
		t.Fatalf("expected conflict row in response: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/conflicts?limit=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestRouter_ListPotentialDuplicates(t *testing.T) {
	t.Parallel()

	router, _, playerSvc := newTestRouter(t)
	ctx := context.Background()

	for _, raw := range []usecase.RawPlayer{
		{ExternalID: "w-1", FullName: "Yam Madar", Birthdate: "1995-02-01"},
		{ExternalID: "e-1", FullName: "Yam Madar", Birthdate: "2000-12-30"},
	} {
		source := "winner"
		if strings.HasPrefix(raw.ExternalID, "e-") {
			source = "euroleague"
		}
		if _, _, err := playerSvc.SyncPlayer(ctx, source, "", raw); err != nil {
			t.Fatalf("sync player %s: %v", raw.ExternalID, err)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/duplicates", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "birthdates differ") {
		t.Fatalf("expected duplicate candidate in response: %s", rec.Body.String())
	}
}
