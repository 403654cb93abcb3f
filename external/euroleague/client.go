package euroleague

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"

	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/platform/resilience"
	"github.com/courtdata/courtsync/internal/usecase"
)

const (
	defaultBaseURL  = "https://api-live.euroleague.net/v2"
	competitionCode = "E"
)

var errEuroleagueTransient = crerr.New("euroleague transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Euroleague live API and implements
// usecase.SourceAdapter.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Source() string { return "euroleague" }

func (c *Client) GetSeasons(ctx context.Context) ([]usecase.RawSeason, []byte, error) {
	var envelope struct {
		Data []wireSeason `json:"data"`
	}
	raw, err := c.doJSON(ctx, "/competitions/"+competitionCode+"/seasons", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapSeasons(envelope.Data), raw, nil
}

func (c *Client) GetTeams(ctx context.Context, seasonExternalID string) ([]usecase.RawTeam, []byte, error) {
	seasonExternalID = strings.TrimSpace(seasonExternalID)
	if seasonExternalID == "" {
		return nil, nil, fmt.Errorf("season external id is required")
	}

	var envelope struct {
		Data []wireClub `json:"data"`
	}
	path := "/competitions/" + competitionCode + "/seasons/" + url.PathEscape(seasonExternalID) + "/clubs"
	raw, err := c.doJSON(ctx, path, nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapClubs(envelope.Data), raw, nil
}

func (c *Client) GetSchedule(ctx context.Context, seasonExternalID string) ([]usecase.RawGame, []byte, error) {
	seasonExternalID = strings.TrimSpace(seasonExternalID)
	if seasonExternalID == "" {
		return nil, nil, fmt.Errorf("season external id is required")
	}

	var envelope struct {
		Data []wireGame `json:"data"`
	}
	path := "/competitions/" + competitionCode + "/seasons/" + url.PathEscape(seasonExternalID) + "/games"
	raw, err := c.doJSON(ctx, path, nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapGames(envelope.Data), raw, nil
}

// GetGameBoxScore needs two upstream resources, the game header for the
// club codes and the stats sheet for the player rows. Both fetches run
// concurrently and the combined bytes form the change-detection payload.
func (c *Client) GetGameBoxScore(ctx context.Context, gameExternalID string) (usecase.RawBoxScore, []byte, error) {
	gameExternalID = strings.TrimSpace(gameExternalID)
	if gameExternalID == "" {
		return usecase.RawBoxScore{}, nil, fmt.Errorf("game external id is required")
	}

	var (
		header   wireGame
		stats    wireGameStats
		rawGame  []byte
		rawStats []byte
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		raw, err := c.doJSON(ctx, "/games/"+url.PathEscape(gameExternalID), nil, &header)
		if err != nil {
			return err
		}
		rawGame = raw
		return nil
	})
	p.Go(func(ctx context.Context) error {
		raw, err := c.doJSON(ctx, "/games/"+url.PathEscape(gameExternalID)+"/stats", nil, &stats)
		if err != nil {
			return err
		}
		rawStats = raw
		return nil
	})
	if err := p.Wait(); err != nil {
		return usecase.RawBoxScore{}, nil, err
	}

	return mapBoxScore(gameExternalID, header, stats), joinPayloads(rawGame, rawStats), nil
}

func (c *Client) GetGamePlayByPlay(ctx context.Context, gameExternalID string) ([]usecase.RawEvent, []byte, error) {
	gameExternalID = strings.TrimSpace(gameExternalID)
	if gameExternalID == "" {
		return nil, nil, fmt.Errorf("game external id is required")
	}

	var envelope struct {
		Data []wirePlay `json:"data"`
	}
	raw, err := c.doJSON(ctx, "/games/"+url.PathEscape(gameExternalID)+"/playbyplay", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapPlays(envelope.Data), raw, nil
}

// joinPayloads concatenates multiple response bodies into one stable byte
// stream so the sync cache hashes the pair as a unit.
func joinPayloads(payloads ...[]byte) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, payload := range payloads {
		if i > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.Write(payload)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "euroleague circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: euroleague feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errEuroleagueTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode euroleague payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errEuroleagueTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errEuroleagueTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: euroleague status=%d body=%s", errEuroleagueTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("euroleague status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("euroleague request failed")
	}
	c.logger.WarnContext(ctx, "euroleague request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
