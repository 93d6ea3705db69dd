package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	retry          retrier
	circuitBreaker *CircuitBreaker[*genai.GenerateContentResponse]
	modelBreaker   *CircuitBreaker[*genai.Model]
	logger         *recruiterErrors.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *recruiterErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: *cfg.Timeout},
	})
	if err != nil {
		return nil, recruiterErrors.NewAIError(recruiterErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client: client,
		config: cfg,
		retry: retrier{
			maxRetries: *cfg.MaxRetries,
			retryable:  isRetryableGeminiError,
			logger:     logger,
			baseDelay:  time.Second,
		},
		circuitBreaker: NewCircuitBreaker[*genai.GenerateContentResponse](operationType, cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker[*genai.Model](operationType, cfg.CircuitBreaker, logger),
		logger:         logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version
	return modelInfo
}

// isRetryableGeminiError retries transport errors and transient HTTP statuses
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	if isRetryableNetworkError(err) {
		return true
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return isRetryableStatus(apiErrPtr.Code)
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return isRetryableStatus(googleErr.Code)
	}
	return false
}

// Generate runs one JSON-schema constrained generation with tracing, retry and circuit breaking
func (g *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	tracer := otel.Tracer("recruiter.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+req.Operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(req.Attributes...)

	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	userPrompt := req.UserPrompt
	if req.SystemPrompt != "" {
		if *g.config.UseSystemPrompts {
			genaiConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
		} else {
			userPrompt = req.SystemPrompt + "\n\n" + userPrompt
		}
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return retryDo(ctx, g.retry, req.Operation, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, recruiterErrors.NewAIError(aiErrorCode(ctx, err), "Failed to generate content for "+req.Operation, err)
	}

	usage := extractTokenUsage(result)
	if usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))

	return &Response{Text: result.Text(), Usage: usage}, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return breakerStats(g.circuitBreaker.GetStats(), g.modelBreaker.GetStats(),
		g.circuitBreaker.IsHealthy(), g.modelBreaker.IsHealthy())
}

// Close implements Provider; the genai client holds no resources in unary mode
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *types.TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &types.TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// aiErrorCode distinguishes deadline expiry from other provider failures
func aiErrorCode(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return recruiterErrors.ErrCodeAITimeout
	}
	return recruiterErrors.ErrCodeAIServiceFailed
}
