package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tickerdeck/backend-go/internal/config"
)

// ErrMaxRetries marks a fetch that exhausted every allowed attempt.
var ErrMaxRetries = errors.New("max retries exceeded")

// StatusError is a non-2xx, non-retriable provider response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider api: %d", e.Status)
}

// RetryTransport performs a GET with bounded retries: rate-limit responses
// back off linearly (baseDelay x attempt number), network errors retry after
// a flat baseDelay, and any other non-2xx status fails immediately.
type RetryTransport struct {
	hc          *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

func NewRetryTransport(cfg config.Config) *RetryTransport {
	return &RetryTransport{
		hc: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		maxAttempts: cfg.RetryMaxAttempts,
		baseDelay:   cfg.RetryBaseDelay,
	}
}

func (t *RetryTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	attempts := t.maxAttempts
	if attempts <= 0 {
		attempts = 3
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		res, err := t.hc.Do(req)
		if err != nil {
			lastErr = err
			if err := t.sleep(ctx, t.baseDelay); err != nil {
				return nil, err
			}
			continue
		}

		if res.StatusCode == http.StatusTooManyRequests {
			res.Body.Close()
			lastErr = &StatusError{Status: res.StatusCode}
			if err := t.sleep(ctx, t.baseDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
			continue
		}

		if res.StatusCode < 200 || res.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			res.Body.Close()
			return nil, &StatusError{Status: res.StatusCode, Body: string(body)}
		}

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			lastErr = err
			if err := t.sleep(ctx, t.baseDelay); err != nil {
				return nil, err
			}
			continue
		}
		return body, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, attempts, lastErr)
}

func (t *RetryTransport) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
