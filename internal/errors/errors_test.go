package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := stderrors.New("disk full")

	assert.Equal(t, "PERSIST_FAILED: could not save (caused by: disk full)",
		NewIOError(ErrCodePersistFailed, "could not save", cause).Error())
	assert.Equal(t, "NAME_REQUIRED: name is required",
		NewValidationError(ErrCodeNameRequired, "name is required", nil).Error())
}

func TestTypeAndCodeOfWrappedErrors(t *testing.T) {
	appErr := NewNotFoundError(ErrCodeCandidateNotFound, "candidate not found", nil)
	wrapped := fmt.Errorf("loading view: %w", appErr)

	assert.Equal(t, ErrorTypeNotFound, TypeOf(wrapped))
	assert.Equal(t, ErrCodeCandidateNotFound, CodeOf(wrapped))

	plain := stderrors.New("boom")
	assert.Equal(t, ErrorTypeInternal, TypeOf(plain))
	assert.Empty(t, CodeOf(plain))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root")
	err := NewAIError(ErrCodeAIServiceFailed, "failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestWithContext(t *testing.T) {
	err := NewLicensingError(ErrCodeFeatureNotInPlan, "not in plan", nil).
		WithContext("feature", "presets").
		WithContext("plan", "free")

	assert.Equal(t, map[string]any{"feature": "presets", "plan": "free"}, err.Context)
}

func TestLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo)

	logger.LogError(NewAIError(ErrCodeAITimeout, "timed out", stderrors.New("deadline")).WithContext("operation", "analyze"),
		"Analysis failed", "candidate_id", "c-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "Analysis failed", entry["msg"])
	assert.Equal(t, "ai", entry["error_type"])
	assert.Equal(t, "AI_TIMEOUT", entry["error_code"])
	assert.Equal(t, "deadline", entry["error_cause"])
	assert.Equal(t, "analyze", entry["operation"])
	assert.Equal(t, "c-1", entry["candidate_id"])
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	require.NoError(t, logger.SetLevel("debug"))
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, logger.SetLevel("verbose"))
}

func TestNilLoggerIsNoop(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("x")
		logger.Debug("x")
		logger.Warn("x")
		logger.LogError(stderrors.New("x"), "x")
	})
}

func TestParseLevel(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(level)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := New("loud")
	assert.Error(t, err)
}
