package records

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"forexradar/internal/config"
	"forexradar/internal/metrics"
	"forexradar/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	recordsPath = "/api/collections/trades/records"
	healthPath  = "/api/health"

	DefaultPageSize = 50

	queryOpen    = "open"
	queryHistory = "history"
)

// ClientInterface defines the trade records API operations the dashboard needs.
type ClientInterface interface {
	FetchOpenTrade(ctx context.Context) (*models.Trade, error)
	FetchHistory(ctx context.Context, pageSize int) ([]models.Trade, error)
	FetchAll(ctx context.Context, pageSize int) (*models.Trade, []models.Trade, error)
	Ping(ctx context.Context) bool
}

// Client is a client for the trade records API.
// It implements the ClientInterface.
type Client struct {
	client        *resty.Client
	logger        *zap.Logger
	limiter       *rate.Limiter
	maxRetries    int
	retryDelay    time.Duration
	healthTimeout time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new records API client.
func NewClient(cfg *config.Records, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	logger = logger.Named("records")
	logger.Info("Using records API", zap.String("base_url", cfg.BaseURL))

	return &Client{
		client:        client,
		logger:        logger,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
		healthTimeout: cfg.HealthTimeout,
		sleep:         sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FetchOpenTrade returns the most recently opened trade without a close price,
// or nil when no trade is running.
func (c *Client) FetchOpenTrade(ctx context.Context) (*models.Trade, error) {
	params := map[string]string{
		"filter":  "close_price=0",
		"sort":    "-opened_at",
		"perPage": "1",
	}

	list, err := c.list(ctx, queryOpen, params)
	if err != nil {
		c.logger.Error("Failed to fetch running trade", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch running trade: %w", err)
	}

	if len(list.Items) == 0 {
		c.logger.Debug("No running trade found")
		return nil, nil
	}

	trade, err := list.Items[0].Trade()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch running trade: %w", err)
	}
	c.logger.Debug("Running trade found", zap.String("ticket", trade.Ticket))
	return &trade, nil
}

// FetchHistory returns up to pageSize closed trades, newest close first.
// Records that fail normalization are logged and left out.
func (c *Client) FetchHistory(ctx context.Context, pageSize int) ([]models.Trade, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	params := map[string]string{
		"filter":  "close_price>0",
		"sort":    "-closed_at",
		"perPage": strconv.Itoa(pageSize),
	}

	list, err := c.list(ctx, queryHistory, params)
	if err != nil {
		c.logger.Error("Failed to fetch history", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	trades := make([]models.Trade, 0, len(list.Items))
	for _, item := range list.Items {
		trade, err := item.Trade()
		if err != nil {
			// One bad record must not hide the rest of the history.
			c.logger.Warn("Dropping malformed history record", zap.Error(err))
			continue
		}
		trades = append(trades, trade)
	}

	c.logger.Debug("Fetched history", zap.Int("count", len(trades)))
	return trades, nil
}

// FetchAll fetches the running trade and the history concurrently. It fails
// as a whole if either query fails, and the first failure cancels the other.
func (c *Client) FetchAll(ctx context.Context, pageSize int) (*models.Trade, []models.Trade, error) {
	var (
		open    *models.Trade
		history []models.Trade
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		open, err = c.FetchOpenTrade(gctx)
		return err
	})
	g.Go(func() (err error) {
		history, err = c.FetchHistory(gctx, pageSize)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch trades: %w", err)
	}
	return open, history, nil
}

// Ping checks that the records API is reachable. It is not retried.
func (c *Client) Ping(ctx context.Context) bool {
	if c.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.healthTimeout)
		defer cancel()
	}

	resp, err := c.client.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		c.logger.Warn("Records API health check failed", zap.Error(err))
		return false
	}
	return resp.StatusCode() == http.StatusOK
}

func (c *Client) list(ctx context.Context, query string, params map[string]string) (*ListResponse, error) {
	resp, err := c.doRequest(ctx, query, func() *resty.Request {
		return c.client.R().SetQueryParams(params)
	})
	if err != nil {
		return nil, err
	}

	var list ListResponse
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		metrics.RecordsRequests.WithLabelValues(query, "malformed").Inc()
		return nil, fmt.Errorf("failed to decode records response: %w", err)
	}
	return &list, nil
}

// doRequest executes a GET on the records path with rate limiting and
// linear-backoff retries on network failures. Any other failure is returned
// without retrying.
func (c *Client) doRequest(ctx context.Context, query string, newRequest func() *resty.Request) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request",
			zap.String("query", query),
			zap.String("url", c.client.BaseURL+recordsPath),
			zap.Int("attempt", attempt+1),
		)
		resp, err := newRequest().SetContext(ctx).Get(recordsPath)

		if err == nil {
			if resp.StatusCode() != http.StatusOK {
				metrics.RecordsRequests.WithLabelValues(query, "status").Inc()
				return nil, &StatusError{StatusCode: resp.StatusCode(), Status: resp.Status()}
			}
			metrics.RecordsRequests.WithLabelValues(query, "ok").Inc()
			return resp, nil
		}

		if !isNetworkError(err) {
			metrics.RecordsRequests.WithLabelValues(query, "error").Inc()
			return nil, fmt.Errorf("request failed: %w", err)
		}
		metrics.RecordsRequests.WithLabelValues(query, "network").Inc()

		if attempt >= c.maxRetries {
			c.logger.Error("Network retries exhausted",
				zap.String("query", query),
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			return nil, ErrNoConnectivity
		}

		delay := c.retryDelay * time.Duration(attempt+1)
		c.logger.Warn("Network error, retrying...",
			zap.String("query", query),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", c.maxRetries),
			zap.Duration("retry_after", delay),
			zap.Error(err),
		)
		metrics.RecordsRetries.WithLabelValues(query).Inc()

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}
