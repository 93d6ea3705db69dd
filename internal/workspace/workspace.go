// Package workspace is the application state store: it owns the positions,
// candidates and ordering presets, serialises every mutation and writes each
// changed collection through to the key-value store.
//
// Writes are optimistic. When a write-through fails the in-memory change is
// kept and the caller receives the updated value together with an error
// wrapping kv.ErrPersist.
package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/kv"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/optimizer"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/presets"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

var (
	// ErrPositionNotFound is returned when a position id does not resolve
	ErrPositionNotFound = errors.New("position not found")

	// ErrCandidateNotFound is returned when a candidate id does not resolve
	ErrCandidateNotFound = errors.New("candidate not found")
)

// Domain events reported to the EventRecorder
const (
	EventCandidateAnalyzed = "candidates_analyzed"
	EventCandidateRemoved  = "candidates_removed"
	EventPresetSaved       = "presets_saved"
	EventPresetApplied     = "presets_applied"
	EventOrderChanged      = "orders_changed"
	EventTextOptimized     = "texts_optimized"
)

// Analyzer scores a candidate profile against a position
type Analyzer interface {
	AnalyzeCandidate(ctx context.Context, in types.AnalyzeCandidateInput) (types.CandidateAnalysis, *types.TokenUsage, error)
}

// EventRecorder counts domain events
type EventRecorder interface {
	RecordEvent(ctx context.Context, event string)
}

// Workspace is safe for concurrent use
type Workspace struct {
	mu         sync.Mutex
	kv         kv.Store
	presets    *presets.Store
	gate       *licensing.Gate
	analyzer   Analyzer
	recorder   EventRecorder
	positions  []types.Position
	candidates []types.Candidate
	views      map[string]*ranking.ViewState

	maxTokens int
	now       func() time.Time
	newID     func() string
	logger    *recruiterErrors.Logger
}

// Option configures a Workspace
type Option func(*Workspace)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// WithIDGenerator overrides id generation for positions, candidates and presets
func WithIDGenerator(newID func() string) Option {
	return func(w *Workspace) { w.newID = newID }
}

// WithLogger sets the logger
func WithLogger(logger *recruiterErrors.Logger) Option {
	return func(w *Workspace) { w.logger = logger }
}

// WithMaxTokens sets the token budget profiles are optimized to before analysis
func WithMaxTokens(maxTokens int) Option {
	return func(w *Workspace) { w.maxTokens = maxTokens }
}

// WithRecorder reports domain events to r
func WithRecorder(r EventRecorder) Option {
	return func(w *Workspace) { w.recorder = r }
}

// New creates an empty workspace. Call Load to read persisted state.
func New(store kv.Store, gate *licensing.Gate, analyzer Analyzer, opts ...Option) *Workspace {
	w := &Workspace{
		kv:        store,
		gate:      gate,
		analyzer:  analyzer,
		views:     make(map[string]*ranking.ViewState),
		maxTokens: optimizer.DefaultMaxTokens,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.presets = presets.NewStore(store,
		presets.WithClock(w.now),
		presets.WithIDGenerator(w.newID),
		presets.WithLogger(w.logger),
	)
	return w
}

// Load reads every collection from the store. Candidates persisted without a
// status are back-filled as scored and candidates left in analyzing by an
// interrupted submission are dropped; either repair is written back once.
// The view state of each position is derived from its candidates: custom
// ordering is active when any candidate carries a custom order.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var positions []types.Position
	if _, err := w.kv.Get(ctx, kv.KeyPositions, &positions); err != nil {
		return recruiterErrors.NewIOError(recruiterErrors.ErrCodeStoreReadFailed, "failed to load positions", err)
	}
	var stored []types.Candidate
	if _, err := w.kv.Get(ctx, kv.KeyCandidates, &stored); err != nil {
		return recruiterErrors.NewIOError(recruiterErrors.ErrCodeStoreReadFailed, "failed to load candidates", err)
	}
	if err := w.presets.Load(ctx); err != nil {
		return err
	}

	candidates := make([]types.Candidate, 0, len(stored))
	backfilled, dropped := 0, 0
	for _, c := range stored {
		switch c.Status {
		case "":
			c.Status = types.StatusScored
			backfilled++
		case types.StatusAnalyzing:
			dropped++
			continue
		}
		candidates = append(candidates, c)
	}

	w.positions = positions
	w.candidates = candidates
	w.views = make(map[string]*ranking.ViewState, len(positions))
	for _, p := range positions {
		w.views[p.ID] = &ranking.ViewState{
			UseCustomOrder: ranking.HasCustomOrder(w.positionCandidates(p.ID)),
		}
	}

	w.logger.Info("Workspace loaded",
		"positions", len(positions),
		"candidates", len(candidates),
		"presets", w.presets.Len(),
		"backfilled", backfilled,
		"dropped_analyzing", dropped)

	if backfilled > 0 || dropped > 0 {
		return w.persistCandidates(ctx)
	}
	return nil
}

// Stats summarises the workspace contents
type Stats struct {
	Positions  int                           `json:"positions" yaml:"positions"`
	Candidates int                           `json:"candidates" yaml:"candidates"`
	Presets    int                           `json:"presets" yaml:"presets"`
	ByStatus   map[types.CandidateStatus]int `json:"byStatus" yaml:"byStatus"`
	Plan       string                        `json:"plan" yaml:"plan"`
}

// Stats returns collection counts
func (w *Workspace) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	byStatus := make(map[types.CandidateStatus]int)
	for _, c := range w.candidates {
		byStatus[c.Status]++
	}
	return Stats{
		Positions:  len(w.positions),
		Candidates: len(w.candidates),
		Presets:    w.presets.Len(),
		ByStatus:   byStatus,
		Plan:       w.gate.Plan().Name,
	}
}

// Require fails when the active plan lacks the feature
func (w *Workspace) Require(f licensing.Feature) error {
	return w.gate.Require(f)
}

func (w *Workspace) record(ctx context.Context, event string) {
	if w.recorder != nil {
		w.recorder.RecordEvent(ctx, event)
	}
}

// RecordOptimization reports a standalone text optimization
func (w *Workspace) RecordOptimization(ctx context.Context) {
	w.record(ctx, EventTextOptimized)
}

func (w *Workspace) persistPositions(ctx context.Context) error {
	return w.persist(ctx, kv.KeyPositions, w.positions)
}

func (w *Workspace) persistCandidates(ctx context.Context) error {
	return w.persist(ctx, kv.KeyCandidates, w.candidates)
}

func (w *Workspace) persist(ctx context.Context, key string, value any) error {
	if err := w.kv.Set(ctx, key, value); err != nil {
		appErr := recruiterErrors.NewIOError(recruiterErrors.ErrCodePersistFailed, "failed to persist "+key, err)
		w.logger.LogError(appErr, "Workspace sync failed", "key", key)
		return appErr
	}
	return nil
}

// IsSyncWarning reports whether err only signals a failed write-through; the
// operation itself took effect in memory.
func IsSyncWarning(err error) bool {
	return err != nil && errors.Is(err, kv.ErrPersist)
}

func positionNotFound(id string) error {
	return recruiterErrors.NewNotFoundError(recruiterErrors.ErrCodePositionNotFound, "position not found", ErrPositionNotFound).
		WithContext("position_id", id)
}

func candidateNotFound(id string) error {
	return recruiterErrors.NewNotFoundError(recruiterErrors.ErrCodeCandidateNotFound, "candidate not found", ErrCandidateNotFound).
		WithContext("candidate_id", id)
}
