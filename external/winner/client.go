package winner

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

	"github.com/courtdata/courtsync/internal/platform/logging"
	"github.com/courtdata/courtsync/internal/platform/resilience"
	"github.com/courtdata/courtsync/internal/usecase"
)

const defaultBaseURL = "https://api.winner.co.il/basket"

var errWinnerTransient = crerr.New("winner transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Winner league feed and implements usecase.SourceAdapter.
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

func (c *Client) Source() string { return "winner" }

func (c *Client) GetSeasons(ctx context.Context) ([]usecase.RawSeason, []byte, error) {
	var envelope struct {
		Seasons []wireSeason `json:"seasons"`
	}
	raw, err := c.doJSON(ctx, "/seasons", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapSeasons(envelope.Seasons), raw, nil
}

func (c *Client) GetTeams(ctx context.Context, seasonExternalID string) ([]usecase.RawTeam, []byte, error) {
	seasonExternalID = strings.TrimSpace(seasonExternalID)
	if seasonExternalID == "" {
		return nil, nil, fmt.Errorf("season external id is required")
	}

	var envelope struct {
		Teams []wireTeam `json:"teams"`
	}
	raw, err := c.doJSON(ctx, "/seasons/"+url.PathEscape(seasonExternalID)+"/teams", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapTeams(envelope.Teams), raw, nil
}

func (c *Client) GetSchedule(ctx context.Context, seasonExternalID string) ([]usecase.RawGame, []byte, error) {
	seasonExternalID = strings.TrimSpace(seasonExternalID)
	if seasonExternalID == "" {
		return nil, nil, fmt.Errorf("season external id is required")
	}

	var envelope struct {
		Games []wireGame `json:"games"`
	}
	raw, err := c.doJSON(ctx, "/seasons/"+url.PathEscape(seasonExternalID)+"/games", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapGames(envelope.Games), raw, nil
}

func (c *Client) GetGameBoxScore(ctx context.Context, gameExternalID string) (usecase.RawBoxScore, []byte, error) {
	gameExternalID = strings.TrimSpace(gameExternalID)
	if gameExternalID == "" {
		return usecase.RawBoxScore{}, nil, fmt.Errorf("game external id is required")
	}

	var envelope wireBoxScore
	raw, err := c.doJSON(ctx, "/games/"+url.PathEscape(gameExternalID)+"/boxscore", nil, &envelope)
	if err != nil {
		return usecase.RawBoxScore{}, nil, err
	}
	return mapBoxScore(gameExternalID, envelope), raw, nil
}

func (c *Client) GetGamePlayByPlay(ctx context.Context, gameExternalID string) ([]usecase.RawEvent, []byte, error) {
	gameExternalID = strings.TrimSpace(gameExternalID)
	if gameExternalID == "" {
		return nil, nil, fmt.Errorf("game external id is required")
	}

	var envelope struct {
		Actions []wireAction `json:"actions"`
	}
	raw, err := c.doJSON(ctx, "/games/"+url.PathEscape(gameExternalID)+"/actions", nil, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return mapActions(envelope.Actions), raw, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "winner circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: winner feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
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
			if reqErr != nil && crerr.Is(reqErr, errWinnerTransient) {
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
		return nil, fmt.Errorf("decode winner payload: %w", err)
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
			lastErr = fmt.Errorf("%w: send request: %v", errWinnerTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errWinnerTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: winner status=%d body=%s", errWinnerTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("winner status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("winner request failed")
	}
	c.logger.WarnContext(ctx, "winner request failed", "url", fullURL, "error", lastErr)
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
