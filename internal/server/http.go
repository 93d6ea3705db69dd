package server

import (
	"context"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ai"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/archive"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/observability"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"
)

// OptimizeRequest represents the request body for the optimize endpoint
type OptimizeRequest struct {
	Text      string `json:"text"`
	MaxTokens int    `json:"maxTokens"`
}

// PositionRequest represents the request body for creating or updating a position
type PositionRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Openings     int      `json:"openings"`
}

// CandidateRequest represents the JSON body for submitting a candidate
type CandidateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProfileText string `json:"profileText"`
}

// MoveRequest represents a drag reorder inside the filtered view
type MoveRequest struct {
	From   int    `json:"from"`
	To     int    `json:"to"`
	Status string `json:"status"`
}

type PresetRequest struct {
	Name string `json:"name"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type InterviewQuestionsRequest struct {
	Count int `json:"count"`
}

type EmailRequest struct {
	Kind  string `json:"kind"`
	Notes string `json:"notes"`
}

type ScoreAnswerRequest struct {
	PositionID string `json:"positionId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// InterviewGenerator writes interview questions for a candidate
type InterviewGenerator interface {
	GenerateInterviewQuestions(ctx context.Context, in types.InterviewQuestionsInput) (types.InterviewQuestions, *types.TokenUsage, error)
}

// AnswerScorer grades an interview answer
type AnswerScorer interface {
	ScoreAnswer(ctx context.Context, in types.ScoreAnswerInput) (types.AnswerScore, *types.TokenUsage, error)
}

// EmailDrafter writes candidate emails
type EmailDrafter interface {
	DraftEmail(ctx context.Context, in types.DraftEmailInput) (types.EmailDraft, *types.TokenUsage, error)
}

// ModelStatus is reported by the health endpoint for each AI operation
type ModelStatus interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	GetCircuitBreakerStats() map[string]any
}

// Assistants are the AI operations served outside candidate analysis
type Assistants struct {
	Interview InterviewGenerator
	Answer    AnswerScorer
	Email     EmailDrafter
	Models    map[string]ModelStatus
}

// AssistantsFrom exposes the configured AI services to the handlers
func AssistantsFrom(services *ai.Services) Assistants {
	models := make(map[string]ModelStatus)
	for op, svc := range services.ByOperation() {
		models[op] = svc
	}
	return Assistants{
		Interview: services.Interview,
		Answer:    services.Answer,
		Email:     services.Email,
		Models:    models,
	}
}

// Dependencies are the application components the server exposes
type Dependencies struct {
	Workspace     *workspace.Workspace
	Assistants    Assistants
	Archive       *archive.Archive
	Observability *observability.Manager
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limits; uploads use MaxFileSize
	MaxRequestSize int64
	MaxFileSize    int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Workspace  *workspace.Workspace
	Assistants Assistants
	Archive    *archive.Archive

	om     *observability.Manager
	Logger *recruiterErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	MaxFileSize    int64
	RateLimit      *config.RateLimitConfig
}

// ServerConfigFrom reads the server section of the application config
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	rateLimit := cfg.Server.RateLimit
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: defaultMaxRequestSize,
		MaxFileSize:    cfg.App.MaxFileSize,
		RateLimit:      &rateLimit,
	}
}

const defaultMaxRequestSize = 1 << 20

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *recruiterErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	om := deps.Observability
	if om == nil {
		// a disabled manager turns every recording call into a no-op
		om, _ = observability.NewManager(observability.Settings{}, appCfg, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		MaxFileSize:    cfg.MaxFileSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Workspace:      deps.Workspace,
		Assistants:     deps.Assistants,
		Archive:        deps.Archive,
		om:             om,
		Logger:         logger,
	}
}
