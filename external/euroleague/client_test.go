package euroleague

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtdata/courtsync/internal/canonical"
	"github.com/courtdata/courtsync/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL: srv.URL,
		Logger:  logging.NewNop(),
	})
}

func TestClient_GetSeasons(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/E/seasons" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"code":"E2024","name":"2024-25","year":2024}]}`))
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
	if seasons[0].ExternalID != "E2024" || seasons[0].StartYear != 2024 || seasons[0].EndYear != 2025 {
		t.Fatalf("unexpected season: %+v", seasons[0])
	}
}

func TestClient_GetSchedule(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/E/seasons/E2024/games" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{
			"code":"E2024_101",
			"local":{"club":{"code":"MTA","name":"Maccabi Tel Aviv"},"score":88},
			"road":{"club":{"code":"RMB","name":"Real Madrid"},"score":84},
			"date":"2024-10-03T19:05:00Z",
			"status":"Final",
			"arena":"Menora Mivtachim Arena"
		}]}`))
	}))

	games, _, err := client.GetSchedule(context.Background(), "E2024")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	g := games[0]
	if g.ExternalID != "E2024_101" || g.HomeTeamExternalID != "MTA" || g.AwayTeamExternalID != "RMB" {
		t.Fatalf("unexpected game: %+v", g)
	}
	if g.HomeScore == nil || *g.HomeScore != 88 {
		t.Fatalf("unexpected home score: %+v", g.HomeScore)
	}
	if g.ScheduledAt.IsZero() {
		t.Fatalf("expected parsed scheduled time")
	}
	if !client.IsGameFinal(g) {
		t.Fatalf("expected final game")
	}
}

func TestClient_GetGameBoxScore_CombinesHeaderAndStats(t *testing.T) {
	t.Parallel()

	headerBody := []byte(`{
		"code":"E2024_101",
		"local":{"club":{"code":"MTA","name":"Maccabi Tel Aviv"}},
		"road":{"club":{"code":"RMB","name":"Real Madrid"}}
	}`)
	statsBody := []byte(`{
		"local":{"players":[
			{"player":{"code":"PLB","name":"Lorenzo Brown"},"dorsal":3,"positionName":"Guard",
			 "isStarter":true,"minutes":"28:10","points":15,
			 "fieldGoalsMade2":3,"fieldGoalsAttempted2":6,"fieldGoalsMade3":2,"fieldGoalsAttempted3":4,
			 "freeThrowsMade":3,"freeThrowsAttempted":3,"offensiveRebounds":0,"defensiveRebounds":3,
			 "assistances":6,"steals":1,"blocksFavour":0,"turnovers":2,"foulsCommited":3,"plusminus":9}
		]},
		"road":{"players":[
			{"player":{"code":"PCA","name":"Facundo Campazzo"},"dorsal":7,"positionName":"Guard",
			 "isStarter":true,"minutes":"30:00","points":12,
			 "fieldGoalsMade2":3,"fieldGoalsAttempted2":5,"fieldGoalsMade3":1,"fieldGoalsAttempted3":6,
			 "freeThrowsMade":3,"freeThrowsAttempted":4,"offensiveRebounds":1,"defensiveRebounds":2,
			 "assistances":8,"steals":2,"blocksFavour":0,"turnovers":4,"foulsCommited":2,"plusminus":-4}
		]}
	}`)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/games/E2024_101":
			_, _ = w.Write(headerBody)
		case "/games/E2024_101/stats":
			_, _ = w.Write(statsBody)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	box, raw, err := client.GetGameBoxScore(context.Background(), "E2024_101")
	if err != nil {
		t.Fatalf("get box score: %v", err)
	}
	if box.HomeTeamExternalID != "MTA" || box.AwayTeamExternalID != "RMB" {
		t.Fatalf("unexpected box header: %+v", box)
	}
	if len(box.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(box.Lines))
	}
	if box.Lines[0].TeamExternalID != "MTA" || box.Lines[1].TeamExternalID != "RMB" {
		t.Fatalf("lines not attributed to sides: %+v", box.Lines)
	}
	if box.Lines[0].SecondsPlayed != 28*60+10 {
		t.Fatalf("unexpected seconds played: %d", box.Lines[0].SecondsPlayed)
	}
	if !bytes.Contains(raw, headerBody) || !bytes.Contains(raw, statsBody) {
		t.Fatalf("combined payload missing a part")
	}
}

func TestClient_GetGameBoxScore_PropagatesFetchError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/games/E2024_102/stats" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"code":"E2024_102"}`))
	}))

	if _, _, err := client.GetGameBoxScore(context.Background(), "E2024_102"); err == nil {
		t.Fatalf("expected error when stats fetch fails")
	}
}

func TestClient_GetGamePlayByPlay(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"numberOfPlay":1,"quarter":1,"markerTime":"09:45","teamCode":"MTA","playerCode":"PLB",
			 "playType":"2FGM","relatedPlays":[2],"pointsA":2,"pointsB":0},
			{"numberOfPlay":2,"quarter":1,"markerTime":"09:45","teamCode":"MTA","playerCode":"PWB",
			 "playType":"AS","pointsA":2,"pointsB":0}
		]}`))
	}))

	events, _, err := client.GetGamePlayByPlay(context.Background(), "E2024_101")
	if err != nil {
		t.Fatalf("get play by play: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventNumber != 1 || events[0].Type != "2FGM" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if len(events[0].RelatedEventNumbers) != 1 || events[0].RelatedEventNumbers[0] != 2 {
		t.Fatalf("unexpected related plays: %+v", events[0].RelatedEventNumbers)
	}

	locale := client.EventLocale()
	if eventType, _ := canonical.ParseEventType(events[0].Type, locale); eventType != canonical.EventShot {
		t.Fatalf("expected shot for 2FGM, got %s", eventType)
	}
	if eventType, _ := canonical.ParseEventType(events[1].Type, locale); eventType != canonical.EventAssist {
		t.Fatalf("expected assist for AS, got %s", eventType)
	}
}
