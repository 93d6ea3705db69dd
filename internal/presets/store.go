// Package presets stores named snapshots of a position's candidate order.
//
// A preset references candidates by id only. Deleting a candidate or a
// position never touches presets, and applying a preset skips ids that no
// longer resolve.
package presets

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/kv"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

var (
	// ErrNameRequired is returned when saving a preset with a blank name
	ErrNameRequired = errors.New("name required")

	// ErrNotFound is returned when a preset id does not resolve
	ErrNotFound = errors.New("preset not found")
)

// Store holds the preset collection and writes it through to a kv.Store.
// It is not safe for concurrent use; callers serialise access.
type Store struct {
	kv      kv.Store
	presets []types.OrderingPreset
	now     func() time.Time
	newID   func() string
	logger  *recruiterErrors.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides preset id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger
func WithLogger(logger *recruiterErrors.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates an empty preset store backed by store
func NewStore(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one
func (s *Store) Load(ctx context.Context) error {
	var loaded []types.OrderingPreset
	if _, err := s.kv.Get(ctx, kv.KeyOrderingPresets, &loaded); err != nil {
		return recruiterErrors.NewIOError(recruiterErrors.ErrCodeStoreReadFailed, "failed to load ordering presets", err)
	}
	s.presets = loaded
	return nil
}

// Snapshot returns the canonical order of cands: custom order where set,
// score order otherwise.
func Snapshot(cands []types.Candidate) []string {
	return ranking.IDs(ranking.Sort(cands, true))
}

// Save creates a preset from the current order of cands. On a persistence
// failure the preset is still returned and kept in memory.
func (s *Store) Save(ctx context.Context, positionID, name string, cands []types.Candidate) (types.OrderingPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.OrderingPreset{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeNameRequired, "preset name is required", ErrNameRequired)
	}

	now := s.now()
	preset := types.OrderingPreset{
		ID:             s.newID(),
		PositionID:     positionID,
		Name:           name,
		CandidateOrder: Snapshot(cands),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.presets = append(s.presets, preset)

	return preset, s.persist(ctx)
}

// Update refreshes a preset's snapshot in place, keeping its id, name,
// position and creation time.
func (s *Store) Update(ctx context.Context, presetID string, cands []types.Candidate) (types.OrderingPreset, error) {
	i := s.index(presetID)
	if i < 0 {
		return types.OrderingPreset{}, NotFound(presetID)
	}

	s.presets[i].CandidateOrder = Snapshot(cands)
	s.presets[i].UpdatedAt = s.now()

	return s.presets[i], s.persist(ctx)
}

// Delete removes a preset
func (s *Store) Delete(ctx context.Context, presetID string) error {
	i := s.index(presetID)
	if i < 0 {
		return NotFound(presetID)
	}
	s.presets = slices.Delete(s.presets, i, i+1)
	return s.persist(ctx)
}

// Get looks a preset up by id. A miss is not an error.
func (s *Store) Get(presetID string) (types.OrderingPreset, bool) {
	i := s.index(presetID)
	if i < 0 {
		return types.OrderingPreset{}, false
	}
	return s.presets[i], true
}

// List returns the presets of a position, oldest first
func (s *Store) List(positionID string) []types.OrderingPreset {
	out := []types.OrderingPreset{}
	for _, p := range s.presets {
		if p.PositionID == positionID {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b types.OrderingPreset) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// Len returns the number of stored presets, dangling ones included
func (s *Store) Len() int {
	return len(s.presets)
}

// Count returns how many presets a position has
func (s *Store) Count(positionID string) int {
	n := 0
	for _, p := range s.presets {
		if p.PositionID == positionID {
			n++
		}
	}
	return n
}

// Apply writes the preset's order into cands as custom order. Candidates
// missing from the preset keep their current custom order and ids without a
// candidate are skipped. It returns the number of candidates updated.
func Apply(preset types.OrderingPreset, cands []types.Candidate) int {
	return ranking.AssignCustomOrder(cands, preset.CandidateOrder)
}

func (s *Store) index(presetID string) int {
	return slices.IndexFunc(s.presets, func(p types.OrderingPreset) bool {
		return p.ID == presetID
	})
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.kv.Set(ctx, kv.KeyOrderingPresets, s.presets); err != nil {
		appErr := recruiterErrors.NewIOError(recruiterErrors.ErrCodePersistFailed, "failed to persist ordering presets", err)
		if s.logger != nil {
			s.logger.LogError(appErr, "Preset sync failed")
		}
		return appErr
	}
	return nil
}

// NotFound builds the not_found error for a preset id
func NotFound(presetID string) error {
	return recruiterErrors.NewNotFoundError(recruiterErrors.ErrCodePresetNotFound, "preset not found", ErrNotFound).
		WithContext("preset_id", presetID)
}
