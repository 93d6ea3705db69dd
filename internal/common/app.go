package common

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ai"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/archive"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/kv"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/observability"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"
)

// App wires the workspace and its collaborators from the configuration. AI
// services are created on first use so that commands that never call a model
// work without provider credentials.
type App struct {
	Config        *config.Config
	Store         kv.Store
	Gate          *licensing.Gate
	Workspace     *workspace.Workspace
	Archive       *archive.Archive
	Observability *observability.Manager

	aiOnce   sync.Once
	services *ai.Services
	aiErr    error

	logger *recruiterErrors.Logger
}

// NewApp opens the store, loads the workspace and connects the archive. A
// nil om disables metrics.
func NewApp(ctx context.Context, cfg *config.Config, om *observability.Manager, logger *recruiterErrors.Logger) (*App, error) {
	if om == nil {
		var err error
		if om, err = observability.NewManager(observability.Settings{}, cfg, logger); err != nil {
			return nil, err
		}
	}

	gate, err := licensing.NewGate(cfg.App.Plan)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, recruiterErrors.NewConfigError(recruiterErrors.ErrCodeInvalidConfig, "failed to open store", err)
	}

	a := &App{
		Config:        cfg,
		Store:         store,
		Gate:          gate,
		Observability: om,
		logger:        logger,
	}

	a.Workspace = workspace.New(store, gate, trackedAnalyzer{app: a},
		workspace.WithLogger(logger),
		workspace.WithMaxTokens(cfg.App.MaxTokens),
		workspace.WithRecorder(om))
	if err := a.Workspace.Load(ctx); err != nil {
		return nil, errors.Join(err, store.Close())
	}

	if cfg.Archive.Enabled {
		a.Archive, err = archive.New(ctx, archive.Options{
			Bucket:          cfg.Archive.Bucket,
			Region:          cfg.Archive.Region,
			Endpoint:        cfg.Archive.Endpoint,
			AccessKeyID:     cfg.Archive.AccessKeyID,
			SecretAccessKey: cfg.Archive.SecretAccessKey,
			Prefix:          cfg.Archive.Prefix,
			UsePathStyle:    cfg.Archive.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, errors.Join(err, store.Close())
		}
	}

	logger.Debug("Application initialized",
		"store", cfg.Store.Driver,
		"plan", gate.Plan().Name,
		"archive", a.Archive.Enabled())
	return a, nil
}

// Services returns the AI services, creating them on first call
func (a *App) Services() (*ai.Services, error) {
	a.aiOnce.Do(func() {
		a.services, a.aiErr = ai.NewServices(a.Config, a.logger)
	})
	return a.services, a.aiErr
}

// ApplySettings applies hot-reloaded settings to the running application
func (a *App) ApplySettings(s config.ReloadableSettings) {
	if err := a.Gate.SetPlan(s.Plan); err != nil {
		a.logger.LogError(err, "Failed to switch plan", "plan", s.Plan)
	} else {
		a.logger.Info("Plan switched", "plan", s.Plan)
	}
	if err := a.logger.SetLevel(s.LogLevel); err != nil {
		a.logger.LogError(err, "Failed to change log level", "level", s.LogLevel)
	}
}

// Close releases the AI clients and the store
func (a *App) Close() error {
	var errs []error
	if a.services != nil {
		errs = append(errs, a.services.Close())
	}
	errs = append(errs, a.Store.Close())
	return errors.Join(errs...)
}

// trackedAnalyzer runs candidate analysis on the analyze service and records
// its AI metrics
type trackedAnalyzer struct {
	app *App
}

func (t trackedAnalyzer) AnalyzeCandidate(ctx context.Context, in types.AnalyzeCandidateInput) (types.CandidateAnalysis, *types.TokenUsage, error) {
	services, err := t.app.Services()
	if err != nil {
		return types.CandidateAnalysis{}, nil, fmt.Errorf("analysis unavailable: %w", err)
	}

	var (
		out   types.CandidateAnalysis
		usage *types.TokenUsage
	)
	err = t.app.Observability.TrackAIOperation(ctx, config.OperationAnalyze, func(ctx context.Context) (*types.TokenUsage, error) {
		var err error
		out, usage, err = services.Analyze.AnalyzeCandidate(ctx, in)
		return usage, err
	})
	return out, usage, err
}
