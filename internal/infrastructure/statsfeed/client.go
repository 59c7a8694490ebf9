package statsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"

	"github.com/fanarena/contest-engine/internal/platform/logging"
	"github.com/fanarena/contest-engine/internal/platform/resilience"
	"github.com/fanarena/contest-engine/internal/usecase"
)

var errFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	MaxConcurrency int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls player stat lines from the external scoring feed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	maxConcurrency int
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
		httpClient.Timeout = 15 * time.Second
	}

	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 4
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:     max(cfg.MaxRetries, 0),
		maxConcurrency: maxConcurrency,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchMatchStats returns the stat lines for one match. Concurrent calls
// for the same match share a single request.
func (c *Client) FetchMatchStats(ctx context.Context, matchID string) (usecase.MatchStats, error) {
	if strings.TrimSpace(matchID) == "" {
		return usecase.MatchStats{}, fmt.Errorf("match id is required")
	}

	path := "/v1/matches/" + matchID + "/stats"
	out, err, _ := c.flight.Do(path, func() (any, error) {
		return c.fetch(ctx, path)
	})
	if err != nil {
		return usecase.MatchStats{}, err
	}
	raw := out.([]byte)

	var stats usecase.MatchStats
	if err := sonic.Unmarshal(raw, &stats); err != nil {
		return usecase.MatchStats{}, fmt.Errorf("decode feed payload: %w", err)
	}
	if stats.MatchID == "" {
		stats.MatchID = matchID
	}

	return stats, nil
}

// FetchManyMatchStats fans out over the feed with bounded concurrency.
// One failing match fails the whole batch.
func (c *Client) FetchManyMatchStats(ctx context.Context, matchIDs []string) ([]usecase.MatchStats, error) {
	results := make([]usecase.MatchStats, len(matchIDs))
	var mu sync.Mutex

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(c.maxConcurrency)
	for i, matchID := range matchIDs {
		p.Go(func(ctx context.Context) error {
			stats, err := c.FetchMatchStats(ctx, matchID)
			if err != nil {
				return fmt.Errorf("fetch stats match_id=%s: %w", matchID, err)
			}
			mu.Lock()
			results[i] = stats
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		var raw []byte
		err := c.breaker.Execute(func() error {
			var execErr error
			raw, execErr = c.fetchWithRetries(ctx, path)
			return execErr
		})
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "path", path)
			return nil, fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return raw, err
	}

	return c.fetchWithRetries(ctx, path)
}

func (c *Client) fetchWithRetries(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.execute(ctx, path)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) execute(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := io.Copy(buf, io.LimitReader(resp.Body, 4<<20)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errFeedTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		out := make([]byte, buf.Len())
		copy(out, buf.B)
		return out, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: feed has no stats for %s", usecase.ErrNotFound, path)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: feed status=%d", errFeedTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("feed request failed with status %d", resp.StatusCode)
	}
}
