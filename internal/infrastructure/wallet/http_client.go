package wallet

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	domain "github.com/fanarena/contest-engine/internal/domain/wallet"
	"github.com/fanarena/contest-engine/internal/platform/logging"
	"github.com/fanarena/contest-engine/internal/platform/resilience"
)

var errWalletTransient = crerr.New("wallet transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPClient talks to the wallet service. Failed debits never retry;
// only transport-level failures and 5xx responses count against the
// breaker and get retried.
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &HTTPClient{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *HTTPClient) Credit(ctx context.Context, userID string, amount int64) error {
	return c.post(ctx, "/v1/wallet/credit", userID, amount)
}

func (c *HTTPClient) Debit(ctx context.Context, userID string, amount int64) error {
	return c.post(ctx, "/v1/wallet/debit", userID, amount)
}

func (c *HTTPClient) post(ctx context.Context, path, userID string, amount int64) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}

	call := func() error {
		var lastErr error
		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			lastErr = c.execute(ctx, path, userID, amount)
			if lastErr == nil || !isTransient(lastErr) {
				return lastErr
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return lastErr
	}

	var err error
	if c.circuitEnabled {
		// Definitive rejections (insufficient balance, unknown user) must
		// not trip the breaker; only transient failures count.
		var definitive error
		err = c.breaker.Execute(func() error {
			callErr := call()
			if callErr != nil && !isTransient(callErr) {
				definitive = callErr
				return nil
			}
			return callErr
		})
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "wallet circuit breaker rejected request", "path", path)
			return fmt.Errorf("%w: wallet service is temporarily unavailable", domain.ErrUnavailable)
		}
		if err == nil {
			err = definitive
		}
	} else {
		err = call()
	}

	if isTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}

func (c *HTTPClient) execute(ctx context.Context, path, userID string, amount int64) error {
	encoded, err := sonic.Marshal(moveFundsRequest{UserID: userID, Amount: amount})
	if err != nil {
		return fmt.Errorf("marshal wallet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create wallet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %v", errWalletTransient, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return fmt.Errorf("%w: read response body: %v", errWalletTransient, readErr)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: user %s", domain.ErrInsufficientBalance, userID)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: user %s", domain.ErrIdentityNotFound, userID)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: wallet status=%d body=%s", errWalletTransient, resp.StatusCode, abbreviate(body))
	default:
		return fmt.Errorf("wallet request failed with status %d", resp.StatusCode)
	}
}

func isTransient(err error) bool {
	return err != nil && stderrors.Is(err, errWalletTransient)
}

func abbreviate(body []byte) string {
	const limit = 256
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

type moveFundsRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}
