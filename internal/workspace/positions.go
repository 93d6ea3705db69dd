package workspace

import (
	"context"
	"errors"
	"slices"
	"strings"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// PositionInput holds the editable fields of a position
type PositionInput struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Requirements []string `json:"requirements" yaml:"requirements"`
	Openings     int      `json:"openings" yaml:"openings"`
}

func (in PositionInput) normalize() (PositionInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "position title is required", nil)
	}
	switch {
	case in.Openings == 0:
		in.Openings = 1
	case in.Openings < 0:
		return in, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "openings must be at least 1", nil).
			WithContext("openings", in.Openings)
	}
	in.Description = strings.TrimSpace(in.Description)

	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	in.Requirements = reqs
	return in, nil
}

// CreatePosition adds a position; openings default to 1
func (w *Workspace) CreatePosition(ctx context.Context, in PositionInput) (types.Position, error) {
	in, err := in.normalize()
	if err != nil {
		return types.Position{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.gate.CheckLimit(licensing.LimitPositions, len(w.positions)); err != nil {
		return types.Position{}, err
	}

	p := types.Position{
		ID:           w.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Openings:     in.Openings,
		CreatedAt:    w.now(),
	}
	w.positions = append(w.positions, p)
	w.views[p.ID] = &ranking.ViewState{}

	w.logger.Info("Position created", "position_id", p.ID, "title", p.Title)
	return p, w.persistPositions(ctx)
}

// GetPosition looks a position up by id
func (w *Workspace) GetPosition(id string) (types.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.positionIndex(id)
	if i < 0 {
		return types.Position{}, positionNotFound(id)
	}
	return w.positions[i], nil
}

// ListPositions returns every position, oldest first
func (w *Workspace) ListPositions() []types.Position {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := slices.Clone(w.positions)
	slices.SortStableFunc(out, func(a, b types.Position) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if out == nil {
		out = []types.Position{}
	}
	return out
}

// UpdatePosition replaces the editable fields of a position
func (w *Workspace) UpdatePosition(ctx context.Context, id string, in PositionInput) (types.Position, error) {
	in, err := in.normalize()
	if err != nil {
		return types.Position{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.positionIndex(id)
	if i < 0 {
		return types.Position{}, positionNotFound(id)
	}
	p := &w.positions[i]
	p.Title = in.Title
	p.Description = in.Description
	p.Requirements = in.Requirements
	p.Openings = in.Openings

	return *p, w.persistPositions(ctx)
}

// DeletePosition removes a position and its candidates. Presets of the
// position are kept; they dangle until deleted explicitly.
func (w *Workspace) DeletePosition(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.positionIndex(id)
	if i < 0 {
		return positionNotFound(id)
	}
	w.positions = slices.Delete(w.positions, i, i+1)
	delete(w.views, id)

	before := len(w.candidates)
	w.candidates = slices.DeleteFunc(w.candidates, func(c types.Candidate) bool {
		return c.PositionID == id
	})
	removed := before - len(w.candidates)

	w.logger.Info("Position deleted", "position_id", id, "candidates_removed", removed)

	errPositions := w.persistPositions(ctx)
	var errCandidates error
	if removed > 0 {
		errCandidates = w.persistCandidates(ctx)
	}
	return errors.Join(errPositions, errCandidates)
}

func (w *Workspace) positionIndex(id string) int {
	return slices.IndexFunc(w.positions, func(p types.Position) bool {
		return p.ID == id
	})
}

// positionCandidates returns the candidates of a position in insertion order
func (w *Workspace) positionCandidates(positionID string) []types.Candidate {
	var out []types.Candidate
	for _, c := range w.candidates {
		if c.PositionID == positionID {
			out = append(out, c)
		}
	}
	return out
}

func (w *Workspace) view(positionID string) *ranking.ViewState {
	v, ok := w.views[positionID]
	if !ok {
		v = &ranking.ViewState{}
		w.views[positionID] = v
	}
	return v
}
