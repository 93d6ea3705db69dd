// Package ranking orders a position's candidates for display, combining
// score ranking with manual (custom) ordering.
//
// Custom order values are local to the filtered view that produced them: a
// reorder under one status filter numbers only the candidates visible under
// that filter, so values written under different filters are not comparable.
//
// When custom ordering is active but only some candidates carry a custom
// order, the two groups are merged by score: custom-ordered candidates keep
// their relative custom order, the others keep their relative score order,
// and at each step the head with the higher score is emitted first (a
// custom-ordered head wins ties).
package ranking

import (
	"cmp"
	"slices"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// ViewState is the per-position ordering mode shown to the reviewer
type ViewState struct {
	UseCustomOrder bool   `json:"useCustomOrder"`
	ActivePresetID string `json:"activePresetId,omitempty"`
}

// ManualReorder records a drag reorder: custom order on, active preset invalidated
func (v *ViewState) ManualReorder() {
	v.UseCustomOrder = true
	v.ActivePresetID = ""
}

// PresetApplied records that a preset now drives the order
func (v *ViewState) PresetApplied(presetID string) {
	v.UseCustomOrder = true
	v.ActivePresetID = presetID
}

// Reset returns to pure score order
func (v *ViewState) Reset() {
	v.UseCustomOrder = false
	v.ActivePresetID = ""
}

// PresetDeleted clears the active preset if it was the deleted one
func (v *ViewState) PresetDeleted(presetID string) {
	if v.ActivePresetID == presetID {
		v.ActivePresetID = ""
	}
}

func byScoreDesc(a, b types.Candidate) int {
	return cmp.Compare(b.Score, a.Score)
}

func byCustomOrder(a, b types.Candidate) int {
	return cmp.Compare(*a.CustomOrder, *b.CustomOrder)
}

// Sort returns the candidates in display order. The input slice is not
// modified and equal keys keep their input order.
func Sort(cands []types.Candidate, useCustomOrder bool) []types.Candidate {
	if !useCustomOrder {
		out := slices.Clone(cands)
		slices.SortStableFunc(out, byScoreDesc)
		return out
	}

	custom := make([]types.Candidate, 0, len(cands))
	rest := make([]types.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.HasCustomOrder() {
			custom = append(custom, c)
		} else {
			rest = append(rest, c)
		}
	}
	slices.SortStableFunc(custom, byCustomOrder)
	slices.SortStableFunc(rest, byScoreDesc)

	out := make([]types.Candidate, 0, len(cands))
	i, j := 0, 0
	for i < len(custom) && j < len(rest) {
		if custom[i].Score >= rest[j].Score {
			out = append(out, custom[i])
			i++
		} else {
			out = append(out, rest[j])
			j++
		}
	}
	out = append(out, custom[i:]...)
	out = append(out, rest[j:]...)
	return out
}

// Rank sorts the candidates and flags the first min(openings, n) as top picks
func Rank(cands []types.Candidate, useCustomOrder bool, openings int) []types.RankedCandidate {
	sorted := Sort(cands, useCustomOrder)
	top := min(max(openings, 0), len(sorted))

	ranked := make([]types.RankedCandidate, len(sorted))
	for i, c := range sorted {
		ranked[i] = types.RankedCandidate{
			Candidate: c,
			Rank:      i + 1,
			TopPick:   i < top,
		}
	}
	return ranked
}

// Filter returns the candidates with the given status; an empty status keeps all
func Filter(cands []types.Candidate, status types.CandidateStatus) []types.Candidate {
	if status == "" {
		return slices.Clone(cands)
	}
	var out []types.Candidate
	for _, c := range cands {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// Move returns a copy of s with the element at from moved to index to
func Move[T any](s []T, from, to int) []T {
	out := slices.Clone(s)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// Reorder moves view[from] to index to and renumbers every candidate of the
// resulting view with its new index as custom order. It reports false and
// leaves the view untouched when the move is a no-op or an index is out of range.
func Reorder(view []types.Candidate, from, to int) ([]types.Candidate, bool) {
	if from == to || from < 0 || to < 0 || from >= len(view) || to >= len(view) {
		return view, false
	}

	moved := Move(view, from, to)
	for i := range moved {
		moved[i].CustomOrder = intPtr(i)
	}
	return moved, true
}

// AssignCustomOrder numbers the candidates of all in the order their ids
// appear in orderedIDs, starting at zero. Ids without a candidate are skipped
// without leaving a gap, and candidates absent from orderedIDs keep their
// current custom order. It returns the number of candidates updated.
func AssignCustomOrder(all []types.Candidate, orderedIDs []string) int {
	present := make(map[string]bool, len(all))
	for _, c := range all {
		present[c.ID] = true
	}

	index := make(map[string]int, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := index[id]; present[id] && !dup {
			index[id] = len(index)
		}
	}

	for i := range all {
		if pos, ok := index[all[i].ID]; ok {
			all[i].CustomOrder = intPtr(pos)
		}
	}
	return len(index)
}

func intPtr(v int) *int {
	return &v
}

// ClearCustomOrder unsets the custom order of every candidate of the position
func ClearCustomOrder(all []types.Candidate, positionID string) {
	for i := range all {
		if all[i].PositionID == positionID {
			all[i].CustomOrder = nil
		}
	}
}

// HasCustomOrder reports whether any candidate carries a custom order
func HasCustomOrder(cands []types.Candidate) bool {
	return slices.ContainsFunc(cands, types.Candidate.HasCustomOrder)
}

// IDs returns the candidate ids in slice order
func IDs(cands []types.Candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
	}
	return ids
}
