package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIProvider implements Provider for OpenAI-compatible chat completion APIs
type OpenAIProvider struct {
	client         *openai.Client
	config         *config.OperationAIConfig
	retry          retrier
	circuitBreaker *CircuitBreaker[openai.ChatCompletionResponse]
	modelBreaker   *CircuitBreaker[openai.Model]
	logger         *recruiterErrors.Logger
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates an OpenAI provider for a specific operation
func NewOpenAIProvider(cfg *config.OperationAIConfig, operationType string, logger *recruiterErrors.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, recruiterErrors.NewConfigError(recruiterErrors.ErrCodeMissingAPIKey,
			"OpenAI API key is required", nil)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.HTTPClient = &http.Client{Timeout: *cfg.Timeout}

	return newOpenAIProviderWithConfig(cfg, operationType, clientConfig, logger), nil
}

func newOpenAIProviderWithConfig(cfg *config.OperationAIConfig, operationType string, clientConfig openai.ClientConfig, logger *recruiterErrors.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		retry: retrier{
			maxRetries: *cfg.MaxRetries,
			retryable:  isRetryableOpenAIError,
			logger:     logger,
			baseDelay:  time.Second,
		},
		circuitBreaker: NewCircuitBreaker[openai.ChatCompletionResponse](operationType, cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker[openai.Model](operationType, cfg.CircuitBreaker, logger),
		logger:         logger,
	}
}

func isRetryableOpenAIError(err error) bool {
	if err == nil {
		return false
	}
	if isRetryableNetworkError(err) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return isRetryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

// schemaInstruction spells out the response schema; JSON mode enforces syntax only
func schemaInstruction(req Request) string {
	if req.Schema == nil {
		return "Respond only with a JSON object."
	}
	schema, err := json.Marshal(req.Schema)
	if err != nil {
		return "Respond only with a JSON object."
	}
	return "Respond only with a JSON object matching this schema:\n" + string(schema)
}

func (o *OpenAIProvider) messages(req Request) []openai.ChatCompletionMessage {
	system := req.SystemPrompt
	if system != "" {
		system += "\n\n"
	}
	system += schemaInstruction(req)

	if !*o.config.UseSystemPrompts {
		return []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: system + "\n\n" + req.UserPrompt},
		}
	}
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
	}
}

// Generate runs one JSON-mode chat completion with tracing, retry and circuit breaking
func (o *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	tracer := otel.Tracer("recruiter.ai.openai")
	ctx, span := tracer.Start(ctx, "openai."+req.Operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", o.config.Model),
		attribute.Float64("ai.temperature", float64(*o.config.Temperature)),
	)
	span.SetAttributes(req.Attributes...)

	chatReq := openai.ChatCompletionRequest{
		Model:       o.config.Model,
		Messages:    o.messages(req),
		Temperature: *o.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := o.circuitBreaker.Execute(func() (openai.ChatCompletionResponse, error) {
		return retryDo(ctx, o.retry, req.Operation, func() (openai.ChatCompletionResponse, error) {
			return o.client.CreateChatCompletion(ctx, chatReq)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, recruiterErrors.NewAIError(aiErrorCode(ctx, err), "Failed to generate content for "+req.Operation, err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("response contained no choices")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, recruiterErrors.NewAIError(recruiterErrors.ErrCodeAIResponseParse, "Empty AI response for "+req.Operation, err)
	}

	usage := &types.TokenUsage{
		InputTokens:  int64(resp.Usage.PromptTokens),
		OutputTokens: int64(resp.Usage.CompletionTokens),
		TotalTokens:  int64(resp.Usage.TotalTokens),
	}
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
		attribute.Bool("success", true),
	)

	return &Response{Text: resp.Choices[0].Message.Content, Usage: usage}, nil
}

// GetModelInfo checks that the configured model is visible to the API key
func (o *OpenAIProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: o.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := o.modelBreaker.Execute(func() (openai.Model, error) {
		return o.client.GetModel(checkCtx, o.config.Model)
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		o.logger.Warn("Model availability check failed",
			"model", o.config.Model,
			"provider", o.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.ID
	modelInfo.Version = model.OwnedBy
	return modelInfo
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (o *OpenAIProvider) GetCircuitBreakerStats() map[string]any {
	return breakerStats(o.circuitBreaker.GetStats(), o.modelBreaker.GetStats(),
		o.circuitBreaker.IsHealthy(), o.modelBreaker.IsHealthy())
}

// Close implements Provider
func (o *OpenAIProvider) Close() error {
	return nil
}
