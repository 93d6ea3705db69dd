package ai

import (
	"context"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// modelCheckTimeout bounds a single model availability lookup
const modelCheckTimeout = 10 * time.Second

// Request is a single structured-output generation call
type Request struct {
	Operation    string
	SystemPrompt string
	UserPrompt   string
	// Schema describes the expected JSON object
	Schema     *genai.Schema
	Attributes []attribute.KeyValue
}

// Response is the raw model text and its token usage, if reported
type Response struct {
	Text  string
	Usage *types.TokenUsage
}

// Provider is an LLM backend able to return JSON for a prompt
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// breakerStats combines generation and model breaker stats the same way for every provider
func breakerStats(ai, model map[string]any, aiHealthy, modelHealthy bool) map[string]any {
	return map[string]any{
		"ai_operations":    ai,
		"model_operations": model,
		"overall_healthy":  aiHealthy && modelHealthy,
	}
}
