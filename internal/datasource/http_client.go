// Package datasource fetches fixtures, odds, contextual statistics and
// final results from external football data providers.
package datasource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// HTTPClientConfig holds the transport tunables shared by all providers
type HTTPClientConfig struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // consecutive failures before the circuit opens
	CircuitCooldown   time.Duration
}

// DefaultHTTPClientConfig returns defaults sized for football data APIs,
// whose free and hobby plans are tightly rate limited.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         5.0,
		CircuitBreakerMax: 5,
		CircuitCooldown:   time.Minute,
	}
}

// RateLimitedHTTPClient pairs a retrying transport with a request-rate
// limiter and a cooldown circuit breaker. One instance is shared by the
// prediction and settlement jobs, so circuit state is mutex guarded.
type RateLimitedHTTPClient struct {
	client      *retryablehttp.Client
	limiter     *rate.Limiter
	breakerMax  int
	cooldown    time.Duration
	logger      *log.Logger
	mu          sync.Mutex
	failures    int
	openedAt    time.Time
	lastFailure error
}

// NewRateLimitedHTTPClient creates a shared provider transport
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *log.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.CircuitCooldown <= 0 {
		cfg.CircuitCooldown = time.Minute
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = transientRetryPolicy
	retryClient.Logger = logger

	return &RateLimitedHTTPClient{
		client:     retryClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breakerMax: cfg.CircuitBreakerMax,
		cooldown:   cfg.CircuitCooldown,
		logger:     logger,
	}
}

// Do executes the request through the limiter and circuit breaker. After
// the cooldown elapses an open circuit admits one trial request; a success
// closes it again.
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.admit(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	resp, err := c.client.Do(retryReq.WithContext(ctx))
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}
	if resp.StatusCode >= 500 {
		// retries are exhausted at this point; count it against the circuit
		c.recordFailure(fmt.Errorf("upstream returned status %d", resp.StatusCode))
		return resp, nil
	}

	c.recordSuccess()
	return resp, nil
}

func (c *RateLimitedHTTPClient) admit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures < c.breakerMax {
		return nil
	}
	if time.Since(c.openedAt) >= c.cooldown {
		// half-open: let this request probe the upstream
		return nil
	}
	return fmt.Errorf("circuit breaker open: %v", c.lastFailure)
}

func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures++
	c.lastFailure = err
	if c.failures == c.breakerMax {
		c.openedAt = time.Now()
		c.logger.Printf("Circuit breaker opened after %d consecutive errors: %v", c.failures, err)
	}
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failures >= c.breakerMax {
		c.logger.Printf("Circuit breaker closed after successful probe")
	}
	c.failures = 0
	c.lastFailure = nil
}

// Close releases idle connections
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// transientRetryPolicy retries network errors, rate-limit responses and
// transient upstream errors
func transientRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil {
		return true, err
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true, nil
	}

	return false, nil
}
