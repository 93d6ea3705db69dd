package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
)

const maxBackoff = 30 * time.Second

// retrier retries provider calls with exponential backoff and jitter
type retrier struct {
	maxRetries int
	retryable  func(error) bool
	logger     *recruiterErrors.Logger
	// baseDelay is one second outside tests
	baseDelay time.Duration
}

// backoff returns 2^(attempt-1) base delays plus up to 10% jitter, capped at 30s
func (r retrier) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * r.baseDelay
	var jitter time.Duration
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, maxBackoff)
}

// retryDo runs fn until it succeeds, a non-retryable error occurs, retries run
// out or ctx is done
func retryDo[T any](ctx context.Context, r retrier, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			if r.logger != nil {
				r.logger.Warn("Retrying AI operation",
					"operation", operation,
					"attempt", attempt,
					"max_retries", r.maxRetries,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(r.backoff(attempt)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 && r.logger != nil {
				r.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if ctx.Err() != nil || !r.retryable(err) {
			break
		}
	}

	if r.logger != nil {
		r.logger.LogError(lastErr, "AI operation failed after all retry attempts",
			"operation", operation,
			"max_retries", r.maxRetries)
	}

	return zero, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, r.maxRetries, lastErr)
}

// isRetryableNetworkError treats every transport-level error as transient
func isRetryableNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// isRetryableStatus reports HTTP statuses worth retrying
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
