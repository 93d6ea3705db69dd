package ai

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func testRetrier(maxRetries int, retryable func(error) bool) retrier {
	return retrier{maxRetries: maxRetries, retryable: retryable, baseDelay: time.Millisecond}
}

func alwaysRetry(error) bool { return true }

func TestRetryDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	got, err := retryDo(context.Background(), testRetrier(3, alwaysRetry), "op", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetryDoGivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("still failing")
	_, err := retryDo(context.Background(), testRetrier(2, alwaysRetry), "op", func() (int, error) {
		calls++
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls, "one attempt plus two retries")
}

func TestRetryDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	_, err := retryDo(context.Background(), testRetrier(5, func(error) bool { return false }), "op", func() (int, error) {
		calls++
		return 0, errors.New("bad request")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := testRetrier(5, alwaysRetry)
	r.baseDelay = time.Hour

	calls := 0
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := retryDo(ctx, r, "op", func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryDoStopsWhenContextDoneDuringCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retryDo(ctx, testRetrier(5, alwaysRetry), "op", func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoff(t *testing.T) {
	r := retrier{baseDelay: time.Second}

	assert.GreaterOrEqual(t, r.backoff(1), time.Second)
	assert.Less(t, r.backoff(1), 1100*time.Millisecond)
	assert.GreaterOrEqual(t, r.backoff(3), 4*time.Second)
	assert.Equal(t, maxBackoff, r.backoff(10))
}

func TestIsRetryableGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"genai 429", genai.APIError{Code: 429}, true},
		{"genai 503 wrapped", errors.Join(errors.New("call"), genai.APIError{Code: 503}), true},
		{"genai 400", genai.APIError{Code: 400}, false},
		{"googleapi 502", &googleapi.Error{Code: 502}, true},
		{"googleapi 403", &googleapi.Error{Code: 403}, false},
		{"plain", errors.New("schema mismatch"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableGeminiError(tt.err))
		})
	}
}

func TestIsRetryableOpenAIError(t *testing.T) {
	assert.True(t, isRetryableOpenAIError(&openai.APIError{HTTPStatusCode: 429}))
	assert.True(t, isRetryableOpenAIError(&openai.RequestError{HTTPStatusCode: 500, Err: errors.New("x")}))
	assert.False(t, isRetryableOpenAIError(&openai.APIError{HTTPStatusCode: 401}))
	assert.False(t, isRetryableOpenAIError(nil))
}
