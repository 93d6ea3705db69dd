package workspace

import (
	"context"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/presets"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// RankedView returns the display order of a position's candidates under a
// status filter (all when empty)
func (w *Workspace) RankedView(positionID string, status types.CandidateStatus) (types.RankedView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.rankedView(positionID, status)
}

func (w *Workspace) rankedView(positionID string, status types.CandidateStatus) (types.RankedView, error) {
	pi := w.positionIndex(positionID)
	if pi < 0 {
		return types.RankedView{}, positionNotFound(positionID)
	}
	position := w.positions[pi]
	v := w.view(positionID)

	activePreset := v.ActivePresetID
	if _, ok := w.presets.Get(activePreset); !ok {
		activePreset = ""
	}

	ranked := ranking.Rank(ranking.Filter(w.positionCandidates(positionID), status), v.UseCustomOrder, position.Openings)
	if ranked == nil {
		ranked = []types.RankedCandidate{}
	}
	return types.RankedView{
		Position:       position,
		StatusFilter:   status,
		UseCustomOrder: v.UseCustomOrder,
		ActivePresetID: activePreset,
		Candidates:     ranked,
	}, nil
}

// Reorder moves the candidate at index from to index to within the view
// under the given status filter. Only the candidates visible under the filter
// are renumbered. A move with equal or out-of-range indices changes nothing.
func (w *Workspace) Reorder(ctx context.Context, positionID string, status types.CandidateStatus, from, to int) (types.RankedView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.positionIndex(positionID) < 0 {
		return types.RankedView{}, positionNotFound(positionID)
	}
	v := w.view(positionID)

	current := ranking.Sort(ranking.Filter(w.positionCandidates(positionID), status), v.UseCustomOrder)
	moved, ok := ranking.Reorder(current, from, to)
	if !ok {
		return w.rankedView(positionID, status)
	}

	ranking.AssignCustomOrder(w.candidates, ranking.IDs(moved))
	v.ManualReorder()
	w.record(ctx, EventOrderChanged)

	persistErr := w.persistCandidates(ctx)
	view, err := w.rankedView(positionID, status)
	if err != nil {
		return types.RankedView{}, err
	}
	return view, persistErr
}

// ResetOrder clears every custom order of the position and returns to score order
func (w *Workspace) ResetOrder(ctx context.Context, positionID string) (types.RankedView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.positionIndex(positionID) < 0 {
		return types.RankedView{}, positionNotFound(positionID)
	}
	ranking.ClearCustomOrder(w.candidates, positionID)
	w.view(positionID).Reset()
	w.record(ctx, EventOrderChanged)

	persistErr := w.persistCandidates(ctx)
	view, err := w.rankedView(positionID, "")
	if err != nil {
		return types.RankedView{}, err
	}
	return view, persistErr
}

// SavePreset snapshots the position's current canonical order under name
func (w *Workspace) SavePreset(ctx context.Context, positionID, name string) (types.OrderingPreset, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.positionIndex(positionID) < 0 {
		return types.OrderingPreset{}, positionNotFound(positionID)
	}
	if err := w.gate.CheckLimit(licensing.LimitPresetsPerPosition, w.presets.Count(positionID)); err != nil {
		return types.OrderingPreset{}, err
	}

	preset, err := w.presets.Save(ctx, positionID, name, w.positionCandidates(positionID))
	if preset.ID != "" {
		w.record(ctx, EventPresetSaved)
		w.logger.Info("Preset saved", "preset_id", preset.ID, "position_id", positionID, "candidates", len(preset.CandidateOrder))
	}
	return preset, err
}

// UpdatePreset refreshes a preset's snapshot to its position's current order
func (w *Workspace) UpdatePreset(ctx context.Context, presetID string) (types.OrderingPreset, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	preset, ok := w.presets.Get(presetID)
	if !ok {
		return types.OrderingPreset{}, presets.NotFound(presetID)
	}
	return w.presets.Update(ctx, presetID, w.positionCandidates(preset.PositionID))
}

// DeletePreset removes a preset; it stops being the active preset of its position
func (w *Workspace) DeletePreset(ctx context.Context, presetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	preset, ok := w.presets.Get(presetID)
	if ok {
		if v, exists := w.views[preset.PositionID]; exists {
			v.PresetDeleted(presetID)
		}
	}
	return w.presets.Delete(ctx, presetID)
}

// ApplyPreset writes the preset's order into its position's candidates as
// custom order. Ids of deleted candidates are skipped and candidates missing
// from the preset keep their custom order.
func (w *Workspace) ApplyPreset(ctx context.Context, presetID string) (types.RankedView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	preset, ok := w.presets.Get(presetID)
	if !ok {
		return types.RankedView{}, presets.NotFound(presetID)
	}
	if w.positionIndex(preset.PositionID) < 0 {
		return types.RankedView{}, positionNotFound(preset.PositionID)
	}

	updated := presets.Apply(preset, w.candidates)
	w.view(preset.PositionID).PresetApplied(preset.ID)
	w.record(ctx, EventPresetApplied)
	w.logger.Debug("Preset applied", "preset_id", preset.ID, "candidates_updated", updated)

	persistErr := w.persistCandidates(ctx)
	view, err := w.rankedView(preset.PositionID, "")
	if err != nil {
		return types.RankedView{}, err
	}
	return view, persistErr
}

// ListPresets returns the presets of a position, oldest first
func (w *Workspace) ListPresets(positionID string) ([]types.OrderingPreset, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.positionIndex(positionID) < 0 {
		return nil, positionNotFound(positionID)
	}
	return w.presets.List(positionID), nil
}
