package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// Service runs the typed AI operations for one configured operation
type Service struct {
	Provider  Provider
	operation string
	prompts   promptSet
	config    *config.OperationAIConfig
	logger    *recruiterErrors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *recruiterErrors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider Provider
	var err error
	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	case "openai":
		provider, err = NewOpenAIProvider(cfg, operationType, logger)
	default:
		return nil, recruiterErrors.NewConfigError(recruiterErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, recruiterErrors.NewAIError(recruiterErrors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, operationType, logger), nil
}

// NewServiceWithProvider wires an existing provider
func NewServiceWithProvider(provider Provider, cfg *config.OperationAIConfig, operationType string, logger *recruiterErrors.Logger) *Service {
	return &Service{
		Provider:  provider,
		operation: operationType,
		prompts:   promptSet{operation: operationType, overrides: cfg.Prompts},
		config:    cfg,
		logger:    logger,
	}
}

// run sends one request and validates the response with parse
func run[Out any](s *Service, ctx context.Context, name, userPrompt string, schema *genai.Schema, parse func(string) (Out, error), attrs ...attribute.KeyValue) (Out, *types.TokenUsage, error) {
	var zero Out
	resp, err := s.Provider.Generate(ctx, Request{
		Operation:    name,
		SystemPrompt: s.prompts.system(),
		UserPrompt:   userPrompt,
		Schema:       schema,
		Attributes:   attrs,
	})
	if err != nil {
		return zero, nil, err
	}

	out, err := parse(resp.Text)
	if err != nil {
		var analysisErr *AnalysisError
		if errors.As(err, &analysisErr) {
			s.logger.Warn("Rejected AI response",
				"operation", name,
				"field", analysisErr.Field,
				"reason", analysisErr.Reason)
		}
		return zero, resp.Usage, recruiterErrors.NewAIError(recruiterErrors.ErrCodeAnalysisInvalid,
			"AI returned an invalid "+name+" response", err)
	}
	return out, resp.Usage, nil
}

// AnalyzeCandidate scores a candidate profile against a position
func (s *Service) AnalyzeCandidate(ctx context.Context, in types.AnalyzeCandidateInput) (types.CandidateAnalysis, *types.TokenUsage, error) {
	return run(s, ctx, "analyze_candidate", analyzePrompt(s.prompts, in), analysisSchema(), ParseCandidateAnalysis,
		attribute.Int("input.profile_length", len(in.ProfileText)),
		attribute.Int("input.requirements", len(in.Requirements)))
}

// GenerateInterviewQuestions drafts interview questions for a candidate
func (s *Service) GenerateInterviewQuestions(ctx context.Context, in types.InterviewQuestionsInput) (types.InterviewQuestions, *types.TokenUsage, error) {
	if in.Count <= 0 {
		in.Count = DefaultQuestionCount
	}
	return run(s, ctx, "interview_questions", interviewPrompt(s.prompts, in), interviewSchema(),
		func(raw string) (types.InterviewQuestions, error) { return ParseInterviewQuestions(raw, in.Count) },
		attribute.Int("input.count", in.Count))
}

// ScoreAnswer evaluates an interview answer
func (s *Service) ScoreAnswer(ctx context.Context, in types.ScoreAnswerInput) (types.AnswerScore, *types.TokenUsage, error) {
	return run(s, ctx, "score_answer", answerPrompt(s.prompts, in), answerSchema(), ParseAnswerScore,
		attribute.Int("input.answer_length", len(in.Answer)))
}

// DraftEmail writes a candidate email of the given kind
func (s *Service) DraftEmail(ctx context.Context, in types.DraftEmailInput) (types.EmailDraft, *types.TokenUsage, error) {
	return run(s, ctx, "draft_email", emailPrompt(s.prompts, in), emailSchema(), ParseEmailDraft,
		attribute.String("input.kind", string(in.Kind)))
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}

// DefaultQuestionCount is used when no question count is requested
const DefaultQuestionCount = 5

// Services holds one Service per AI operation
type Services struct {
	Analyze   *Service
	Interview *Service
	Answer    *Service
	Email     *Service
}

// NewServices builds a Service for every operation from the application config
func NewServices(cfg *config.Config, logger *recruiterErrors.Logger) (*Services, error) {
	build := func(op string) (*Service, error) {
		opCfg := cfg.GetOperationConfig(op)
		return NewService(&opCfg, op, logger)
	}

	var s Services
	var err error
	if s.Analyze, err = build(config.OperationAnalyze); err != nil {
		return nil, err
	}
	if s.Interview, err = build(config.OperationInterview); err != nil {
		return nil, err
	}
	if s.Answer, err = build(config.OperationAnswer); err != nil {
		return nil, err
	}
	if s.Email, err = build(config.OperationEmail); err != nil {
		return nil, err
	}
	return &s, nil
}

// ByOperation returns the services keyed by operation name
func (s *Services) ByOperation() map[string]*Service {
	return map[string]*Service{
		config.OperationAnalyze:   s.Analyze,
		config.OperationInterview: s.Interview,
		config.OperationAnswer:    s.Answer,
		config.OperationEmail:     s.Email,
	}
}

// Close closes every service
func (s *Services) Close() error {
	var errs []error
	for _, svc := range s.ByOperation() {
		if svc != nil {
			errs = append(errs, svc.Close())
		}
	}
	return errors.Join(errs...)
}

// GetCircuitBreakerStats returns the provider's breaker statistics
func (s *Service) GetCircuitBreakerStats() map[string]any {
	return s.Provider.GetCircuitBreakerStats()
}
