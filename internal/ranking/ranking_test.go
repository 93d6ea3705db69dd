package ranking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

func intPtr(v int) *int { return &v }

func cand(id string, score int) types.Candidate {
	return types.Candidate{
		ID:         id,
		PositionID: "p1",
		Score:      score,
		Status:     types.StatusScored,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func withOrder(c types.Candidate, order int) types.Candidate {
	c.CustomOrder = intPtr(order)
	return c
}

func TestSort_ScoreDescending(t *testing.T) {
	in := []types.Candidate{cand("a", 90), cand("b", 70), cand("c", 85)}

	out := ranking.Sort(in, false)

	assert.Equal(t, []string{"a", "c", "b"}, ranking.IDs(out))
	assert.Equal(t, []string{"a", "b", "c"}, ranking.IDs(in), "input must not be reordered")
}

func TestSort_StableOnEqualScores(t *testing.T) {
	in := []types.Candidate{cand("a", 50), cand("b", 80), cand("c", 50), cand("d", 80), cand("e", 50)}

	first := ranking.Sort(in, false)
	second := ranking.Sort(first, false)

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ranking.IDs(first))
	assert.Equal(t, ranking.IDs(first), ranking.IDs(second))
}

func TestSort_CustomOrderPrecedence(t *testing.T) {
	in := []types.Candidate{
		withOrder(cand("high", 99), 1),
		withOrder(cand("low", 10), 0),
		withOrder(cand("mid", 50), 2),
	}

	assert.Equal(t, []string{"low", "high", "mid"}, ranking.IDs(ranking.Sort(in, true)))
	assert.Equal(t, []string{"high", "mid", "low"}, ranking.IDs(ranking.Sort(in, false)))
}

func TestSort_CustomOrderIgnoredWhenDisabled(t *testing.T) {
	in := []types.Candidate{withOrder(cand("a", 10), 0), cand("b", 20)}
	assert.Equal(t, []string{"b", "a"}, ranking.IDs(ranking.Sort(in, false)))
}

func TestSort_MixedMergesByScore(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Candidate
		want []string
	}{
		{
			name: "unordered candidate slots in by score",
			in: []types.Candidate{
				withOrder(cand("a", 90), 1),
				withOrder(cand("b", 70), 2),
				withOrder(cand("c", 85), 0),
				cand("d", 80),
			},
			want: []string{"c", "a", "d", "b"},
		},
		{
			name: "custom head wins ties",
			in: []types.Candidate{
				cand("x", 60),
				withOrder(cand("y", 60), 0),
			},
			want: []string{"y", "x"},
		},
		{
			name: "no custom orders is score order",
			in:   []types.Candidate{cand("a", 1), cand("b", 3), cand("c", 2)},
			want: []string{"b", "c", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ranking.IDs(ranking.Sort(tt.in, true)))
		})
	}
}

func TestRank_TopPicks(t *testing.T) {
	in := []types.Candidate{cand("a", 90), cand("b", 70), cand("c", 85)}

	tests := []struct {
		name     string
		openings int
		want     []bool
	}{
		{"one opening", 1, []bool{true, false, false}},
		{"two openings", 2, []bool{true, true, false}},
		{"more openings than candidates", 10, []bool{true, true, true}},
		{"zero openings", 0, []bool{false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := ranking.Rank(in, false, tt.openings)
			require.Len(t, ranked, 3)
			for i, r := range ranked {
				assert.Equal(t, i+1, r.Rank)
				assert.Equal(t, tt.want[i], r.TopPick, "index %d", i)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	a, b, c := cand("a", 1), cand("b", 2), cand("c", 3)
	b.Status = types.StatusRejected

	in := []types.Candidate{a, b, c}
	assert.Equal(t, []string{"b"}, ranking.IDs(ranking.Filter(in, types.StatusRejected)))
	assert.Equal(t, []string{"a", "c"}, ranking.IDs(ranking.Filter(in, types.StatusScored)))
	assert.Equal(t, []string{"a", "b", "c"}, ranking.IDs(ranking.Filter(in, "")))
	assert.Empty(t, ranking.Filter(in, types.StatusHired))
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"to front", 2, 0, []string{"c", "a", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []string{"a", "b", "c", "d"}
			assert.Equal(t, tt.want, ranking.Move(in, tt.from, tt.to))
			assert.Equal(t, []string{"a", "b", "c", "d"}, in)
		})
	}
}

func TestReorder_NoOps(t *testing.T) {
	view := []types.Candidate{cand("a", 1), cand("b", 2)}

	for _, idx := range [][2]int{{0, 0}, {-1, 1}, {0, 2}, {5, 0}, {1, -3}} {
		out, ok := ranking.Reorder(view, idx[0], idx[1])
		assert.False(t, ok, "%v", idx)
		assert.Equal(t, view, out)
	}
	assert.Nil(t, view[0].CustomOrder)
}

func TestReorder_RenumbersView(t *testing.T) {
	view := []types.Candidate{cand("a", 90), cand("c", 85), cand("b", 70)}

	out, ok := ranking.Reorder(view, 1, 0)
	require.True(t, ok)

	assert.Equal(t, []string{"c", "a", "b"}, ranking.IDs(out))
	for i, c := range out {
		require.NotNil(t, c.CustomOrder)
		assert.Equal(t, i, *c.CustomOrder)
	}
	assert.Nil(t, view[0].CustomOrder, "input view must not be mutated")
}

func TestReorder_OnlyVisibleSubsetRenumbered(t *testing.T) {
	all := []types.Candidate{
		withOrder(cand("a", 90), 4),
		cand("b", 80),
		withOrder(cand("c", 70), 7),
		cand("d", 60),
		cand("e", 50),
	}
	all[0].Status = types.StatusRejected
	all[2].Status = types.StatusRejected

	hiddenBefore := []types.Candidate{all[0], all[2]}

	view := ranking.Sort(ranking.Filter(all, types.StatusScored), false)
	moved, ok := ranking.Reorder(view, 2, 0)
	require.True(t, ok)
	assert.Equal(t, 3, ranking.AssignCustomOrder(all, ranking.IDs(moved)))

	assert.Equal(t, hiddenBefore[0], all[0])
	assert.Equal(t, hiddenBefore[1], all[2])
	assert.Equal(t, 4, *all[0].CustomOrder)
	assert.Equal(t, 7, *all[2].CustomOrder)

	assert.Equal(t, 0, *all[4].CustomOrder)
	assert.Equal(t, 1, *all[1].CustomOrder)
	assert.Equal(t, 2, *all[3].CustomOrder)
}

func TestAssignCustomOrder_SkipsMissingIDs(t *testing.T) {
	all := []types.Candidate{cand("a", 10), cand("c", 30), withOrder(cand("z", 5), 9)}

	n := ranking.AssignCustomOrder(all, []string{"a", "deleted", "c"})

	assert.Equal(t, 2, n)
	assert.Equal(t, 0, *all[0].CustomOrder)
	assert.Equal(t, 1, *all[1].CustomOrder, "missing ids leave no gap")
	assert.Equal(t, 9, *all[2].CustomOrder, "absent candidates keep their order")
}

func TestClearCustomOrder_ScopedToPosition(t *testing.T) {
	other := withOrder(cand("o", 1), 3)
	other.PositionID = "p2"
	all := []types.Candidate{withOrder(cand("a", 1), 0), other}

	ranking.ClearCustomOrder(all, "p1")

	assert.Nil(t, all[0].CustomOrder)
	assert.Equal(t, 3, *all[1].CustomOrder)
	assert.False(t, ranking.HasCustomOrder(all[:1]))
	assert.True(t, ranking.HasCustomOrder(all))
}

func TestViewState(t *testing.T) {
	var v ranking.ViewState

	v.PresetApplied("p-1")
	assert.Equal(t, ranking.ViewState{UseCustomOrder: true, ActivePresetID: "p-1"}, v)

	v.PresetDeleted("other")
	assert.Equal(t, "p-1", v.ActivePresetID)

	v.ManualReorder()
	assert.Equal(t, ranking.ViewState{UseCustomOrder: true}, v)

	v.PresetApplied("p-2")
	v.PresetDeleted("p-2")
	assert.Equal(t, ranking.ViewState{UseCustomOrder: true}, v)

	v.Reset()
	assert.Equal(t, ranking.ViewState{}, v)
}

func TestScenario_DragResetReapply(t *testing.T) {
	all := []types.Candidate{cand("A", 90), cand("B", 70), cand("C", 85)}
	var view ranking.ViewState

	assert.Equal(t, []string{"A", "C", "B"}, ranking.IDs(ranking.Sort(all, view.UseCustomOrder)))

	// drag C above A
	current := ranking.Sort(all, view.UseCustomOrder)
	moved, ok := ranking.Reorder(current, 1, 0)
	require.True(t, ok)
	ranking.AssignCustomOrder(all, ranking.IDs(moved))
	view.ManualReorder()

	assert.True(t, view.UseCustomOrder)
	assert.Equal(t, 1, *all[0].CustomOrder)
	assert.Equal(t, 2, *all[1].CustomOrder)
	assert.Equal(t, 0, *all[2].CustomOrder)
	snapshot := ranking.IDs(ranking.Sort(all, true))
	assert.Equal(t, []string{"C", "A", "B"}, snapshot)

	all = append(all, cand("D", 80))
	ranking.ClearCustomOrder(all, "p1")
	view.Reset()
	assert.Equal(t, []string{"A", "C", "D", "B"}, ranking.IDs(ranking.Sort(all, view.UseCustomOrder)))

	ranking.AssignCustomOrder(all, snapshot)
	view.PresetApplied("final-round")
	assert.Equal(t, 1, *all[0].CustomOrder)
	assert.Equal(t, 2, *all[1].CustomOrder)
	assert.Equal(t, 0, *all[2].CustomOrder)
	assert.Nil(t, all[3].CustomOrder)
	assert.Equal(t, []string{"C", "A", "D", "B"}, ranking.IDs(ranking.Sort(all, view.UseCustomOrder)))
}

func BenchmarkSort(b *testing.B) {
	cands := make([]types.Candidate, 500)
	for i := range cands {
		cands[i] = cand(string(rune('a'+i%26)), (i*37)%101)
		if i%3 == 0 {
			cands[i].CustomOrder = intPtr(i)
		}
	}
	for b.Loop() {
		ranking.Sort(cands, true)
	}
}
