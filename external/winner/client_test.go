package winner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		Logger:  logging.NewNop(),
	})
	return client, srv
}

func TestClient_GetSeasons(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seasons" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seasons":[{"id":"2024-25","name":"Ligat HaAl 2024/25","start_year":2024,"end_year":2025}]}`))
	}))

	seasons, raw, err := client.GetSeasons(context.Background())
	if err != nil {
		t.Fatalf("get seasons: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw payload bytes")
	}
	if len(seasons) != 1 {
		t.Fatalf("expected 1 season, got %d", len(seasons))
	}
	if seasons[0].ExternalID != "2024-25" || seasons[0].StartYear != 2024 || seasons[0].EndYear != 2025 {
		t.Fatalf("unexpected season: %+v", seasons[0])
	}
}

func TestClient_GetGameBoxScore(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/g-101/boxscore" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"home_team_id": "mta",
			"away_team_id": "hje",
			"players": [
				{"player_id":"p1","player_name":"Lorenzo Brown","team_id":"mta","jersey_number":3,
				 "position":"PG","starter":true,"minutes":"31:24","points":18,
				 "fg2_made":4,"fg2_att":7,"fg3_made":2,"fg3_att":5,"ft_made":4,"ft_att":4,
				 "off_rebounds":1,"def_rebounds":4,"assists":7,"steals":2,"blocks":0,
				 "turnovers":3,"fouls":2,"plus_minus":11}
			]
		}`))
	}))

	box, raw, err := client.GetGameBoxScore(context.Background(), "g-101")
	if err != nil {
		t.Fatalf("get box score: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw payload bytes")
	}
	if box.GameExternalID != "g-101" || box.HomeTeamExternalID != "mta" || box.AwayTeamExternalID != "hje" {
		t.Fatalf("unexpected box header: %+v", box)
	}
	if len(box.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(box.Lines))
	}
	line := box.Lines[0]
	if line.PlayerExternalID != "p1" || line.SecondsPlayed != 31*60+24 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.JerseyNumber == nil || *line.JerseyNumber != 3 {
		t.Fatalf("unexpected jersey: %+v", line.JerseyNumber)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"seasons":[]}`))
	}))
	client.maxRetries = 2

	if _, _, err := client.GetSeasons(context.Background()); err != nil {
		t.Fatalf("get seasons after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	client.maxRetries = 3

	if _, _, err := client.GetSeasons(context.Background()); err == nil {
		t.Fatalf("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		_, _ = w.Write([]byte(`{"seasons":[]}`))
	}))
	client.token = "secret"

	if _, _, err := client.GetSeasons(context.Background()); err != nil {
		t.Fatalf("get seasons: %v", err)
	}
}

func TestClient_IsGameFinal(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	if !client.IsGameFinal(usecase.RawGame{Status: "סיום"}) {
		t.Fatalf("expected Hebrew final status to be final")
	}
	if client.IsGameFinal(usecase.RawGame{Status: "טרם החל"}) {
		t.Fatalf("expected scheduled status to not be final")
	}
	if client.IsGameFinal(usecase.RawGame{Status: "???"}) {
		t.Fatalf("expected unknown status to not be final")
	}
}

func TestEventLocale_HebrewTokens(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	locale := client.EventLocale()

	eventType, subtype := canonical.ParseEventType("אסיסט", locale)
	if eventType != canonical.EventAssist {
		t.Fatalf("expected assist, got %s (subtype %q)", eventType, subtype)
	}
	eventType, _ = canonical.ParseEventType("פסק זמן", locale)
	if eventType != canonical.EventTimeout {
		t.Fatalf("expected timeout, got %s", eventType)
	}
}

func TestParseMinutesSeconds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"31:24", 31*60 + 24},
		{"0:45", 45},
		{"12", 12 * 60},
		{"", 0},
		{"dnp", 0},
	}
	for _, tc := range cases {
		if got := parseMinutesSeconds(tc.in); got != tc.want {
			t.Errorf("parseMinutesSeconds(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
