package formatters

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

func sampleView() types.RankedView {
	return types.RankedView{
		Position:       types.Position{ID: "p1", Title: "Backend Engineer", Openings: 1},
		UseCustomOrder: true,
		ActivePresetID: "preset-1",
		Candidates: []types.RankedCandidate{
			{Candidate: types.Candidate{ID: "c1", Name: "Ada", Score: 91, Status: types.StatusScored}, Rank: 1, TopPick: true},
			{Candidate: types.Candidate{ID: "c2", Name: "Lin | Wu", Score: 77, Status: types.StatusSelected}, Rank: 2},
		},
	}
}

func TestRegistry_SupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text", "yaml"}, NewFormatterRegistry().GetSupportedFormats())
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := NewFormatterRegistry().Format(sampleView(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "types.RankedView")
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleView(), "json")
	require.NoError(t, err)

	var decoded types.RankedView
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "c1", decoded.Candidates[0].ID)
	assert.True(t, decoded.Candidates[0].TopPick)
}

func TestYAMLFormatter_InlinesCandidate(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleView(), "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	cands := decoded["candidates"].([]any)
	first := cands[0].(map[string]any)
	assert.Equal(t, "Ada", first["name"])
	assert.Equal(t, 1, first["rank"])
}

func TestRankedViewText(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleView(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "=== Backend Engineer ===")
	assert.Contains(t, out, "Order: custom")
	assert.Contains(t, out, "Preset: preset-1")
	assert.Contains(t, out, "*  1. Ada")
	assert.Less(t, strings.Index(out, "Ada"), strings.Index(out, "Lin"))
}

func TestRankedViewMarkdown_EscapesCells(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleView(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Backend Engineer")
	assert.Contains(t, out, `| 2 | Lin \| Wu | 77 | selected |  |`)
	assert.Contains(t, out, "| 1 | Ada | 91 | scored | ✓ |")
}

func TestEmptyCollections(t *testing.T) {
	reg := NewFormatterRegistry()

	tests := []struct {
		name   string
		data   any
		format string
		want   string
	}{
		{"no positions text", []types.Position{}, "text", "No positions."},
		{"no presets markdown", []types.OrderingPreset{}, "markdown", "_No presets._"},
		{"empty view", types.RankedView{Position: types.Position{Title: "QA"}}, "text", "No candidates."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := reg.Format(tt.data, tt.format)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestAssistOutputs(t *testing.T) {
	reg := NewFormatterRegistry()

	out, err := reg.Format(types.InterviewQuestions{Questions: []types.InterviewQuestion{
		{Question: "How do you profile Go services?", Category: "technical", Rationale: "Claims pprof experience"},
	}}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1. [technical] How do you profile Go services?")
	assert.Contains(t, out, "Why: Claims pprof experience")

	out, err = reg.Format(types.EmailDraft{Subject: "Interview", Body: "Hello"}, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "**Subject:** Interview")

	out, err = reg.Format(types.AnswerScore{Score: 64, Feedback: "Partial"}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 64/100")
}

func TestTextFallsBackToYAML(t *testing.T) {
	out, err := NewFormatterRegistry().Format(types.CandidateAnalysis{Score: 70}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "score: 70")
}

func TestPresetsText(t *testing.T) {
	out, err := NewFormatterRegistry().Format([]types.OrderingPreset{{
		ID: "pr1", Name: "Final round", CandidateOrder: []string{"a", "b"},
		UpdatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "candidates=2")
	assert.Contains(t, out, "updated=2024-03-01 09:30")
}
