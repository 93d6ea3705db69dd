package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBreakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestCircuitBreakerIndependentPerOperation(t *testing.T) {
	analyze := NewCircuitBreaker[string]("analyze", testBreakerConfig(), nil)
	email := NewCircuitBreaker[string]("email", testBreakerConfig(), nil)

	assert.Equal(t, "AI-analyze", analyze.GetStats()["name"])
	assert.Equal(t, "AI-email", email.GetStats()["name"])
	assert.Equal(t, "closed", analyze.GetStats()["state"])

	boom := errors.New("boom")
	for range 3 {
		_, err := analyze.Execute(func() (string, error) { return "", boom })
		require.ErrorIs(t, err, boom)
	}

	assert.False(t, analyze.IsHealthy())
	assert.True(t, email.IsHealthy(), "tripping one operation leaves the others closed")

	_, err := analyze.Execute(func() (string, error) { return "never", nil })
	assert.Error(t, err, "open breaker rejects calls")
}

func TestCircuitBreakerStaysClosedBelowMinRequests(t *testing.T) {
	cb := NewCircuitBreaker[int]("interview", testBreakerConfig(), nil)

	for range 2 {
		_, _ = cb.Execute(func() (int, error) { return 0, errors.New("fail") })
	}
	assert.True(t, cb.IsHealthy())

	v, err := cb.Execute(func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.Enabled = false

	cb := NewCircuitBreaker[string]("answer", cfg, nil)
	require.Nil(t, cb)

	v, err := cb.Execute(func() (string, error) { return "direct", nil })
	require.NoError(t, err)
	assert.Equal(t, "direct", v)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.GetStats())
}

func TestModelCircuitBreakerIsLenient(t *testing.T) {
	cb := NewModelCircuitBreaker[string]("analyze", testBreakerConfig(), nil)
	assert.Equal(t, "AI-Model-analyze", cb.GetStats()["name"])

	for range 4 {
		_, _ = cb.Execute(func() (string, error) { return "", errors.New("unavailable") })
	}
	assert.True(t, cb.IsHealthy(), "model breaker needs five requests")

	_, _ = cb.Execute(func() (string, error) { return "", errors.New("unavailable") })
	assert.False(t, cb.IsHealthy())
}
