// Package httpretry wraps outbound HTTP calls to CRM and live-search
// backends with bounded retries. Transient failures (connection resets,
// 429 throttling, 5xx) back off exponentially with full jitter; client
// errors return immediately.
package httpretry

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// HTTPDoer abstracts request execution so callers can stack a RetryClient
// on top of *http.Client or any other transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryClient retries idempotent requests against flaky partner APIs.
type RetryClient struct {
	client     HTTPDoer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewRetryClient wraps client with up to maxRetries additional attempts.
// A nil client gets a 30s-timeout http.Client; maxRetries <= 0 means 3.
func NewRetryClient(client HTTPDoer, maxRetries int) *RetryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RetryClient{
		client:     client,
		maxRetries: maxRetries,
		baseDelay:  1 * time.Second,
		maxDelay:   30 * time.Second,
	}
}

// Do executes req, retrying on transport errors and retryable statuses.
// The final attempt's response comes back unconsumed so the caller can
// still read the body. Context cancellation stops the loop immediately.
func (rc *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if err := req.Context().Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		if attempt > 0 {
			// Rewindable bodies must be reset before resending.
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := rc.backoff(attempt)
			logger.Debug("httpretry: retrying request",
				"attempt", attempt, "max_retries", rc.maxRetries,
				"method", req.Method, "host", req.URL.Host, "path", req.URL.Path,
				"delay", delay.String())

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.Context().Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			}
		}

		resp, err := rc.client.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, err
			}
			lastErr = err
			continue
		}

		// Success, a client error, or an exhausted budget all hand the
		// response to the caller as-is.
		if !isRetryableStatus(resp.StatusCode) || attempt == rc.maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused for the retry.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: status %d from %s", resp.StatusCode, req.URL.Host)
	}

	return nil, lastErr
}

// backoff doubles the base delay per attempt, caps it at maxDelay, then
// applies full jitter with a 100ms floor.
func (rc *RetryClient) backoff(attempt int) time.Duration {
	d := float64(rc.baseDelay) * math.Pow(2, float64(attempt-1))
	if d > float64(rc.maxDelay) {
		d = float64(rc.maxDelay)
	}
	jittered := time.Duration(rand.Float64() * d)
	if jittered < 100*time.Millisecond {
		jittered = 100 * time.Millisecond
	}
	return jittered
}

// isRetryableStatus reports whether a status is worth another attempt:
// throttling and server-side failures, never client errors.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
