package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/kv"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"
)

type fixedScores map[string]int

func (f fixedScores) AnalyzeCandidate(_ context.Context, in types.AnalyzeCandidateInput) (types.CandidateAnalysis, *types.TokenUsage, error) {
	return types.CandidateAnalysis{Score: f[in.ProfileText], OverallAssessment: "ok"}, nil, nil
}

func testConfig(t *testing.T, plan string) *config.Config {
	t.Helper()
	return &config.Config{
		Store: config.StoreConfig{Driver: kv.DriverSQLite, DSN: filepath.Join(t.TempDir(), "recruiter.db")},
		App: config.AppConfig{
			Plan:             plan,
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "yaml", "text", "markdown"},
			MaxTokens:        100,
			MaxFileSize:      1 << 20,
		},
	}
}

// seed creates position p1 with candidates A (90), B (70) and C (85)
func seed(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()

	store, err := kv.Open(cfg.Store.Driver, cfg.Store.DSN)
	require.NoError(t, err)
	defer store.Close()

	gate, err := licensing.NewGate(cfg.App.Plan)
	require.NoError(t, err)

	ids := []string{"p1", "A", "B", "C"}
	ws := workspace.New(store, gate, fixedScores{"profile a": 90, "profile b": 70, "profile c": 85},
		workspace.WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}))
	require.NoError(t, ws.Load(ctx))

	_, err = ws.CreatePosition(ctx, workspace.PositionInput{Title: "Backend Engineer", Openings: 1})
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		_, err = ws.SubmitCandidate(ctx, "p1", workspace.CandidateInput{Name: strings.ToUpper(name), ProfileText: "profile " + name})
		require.NoError(t, err)
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	ctx := context.WithValue(context.Background(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, recruiterErrors.NewLogger(slog.LevelError))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func runJSON[T any](t *testing.T, cfg *config.Config, args ...string) T {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func viewIDs(v types.RankedView) []string {
	ids := make([]string, len(v.Candidates))
	for i, c := range v.Candidates {
		ids[i] = c.ID
	}
	return ids
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig(t, "free"), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "recruiter version dev")
}

func TestPositionCommands(t *testing.T) {
	cfg := testConfig(t, "free")

	created := runJSON[types.Position](t, cfg, "position", "create", "Data Engineer",
		"--openings", "2", "--requirement", "SQL", "--requirement", "Go")
	assert.Equal(t, "Data Engineer", created.Title)
	assert.Equal(t, 2, created.Openings)
	assert.Equal(t, []string{"SQL", "Go"}, created.Requirements)

	list := runJSON[[]types.Position](t, cfg, "position", "list")
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	out, err := run(t, cfg, "position", "delete", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted position "+created.ID)
	assert.Empty(t, runJSON[[]types.Position](t, cfg, "position", "list"))

	_, err = run(t, cfg, "position", "delete", created.ID)
	assert.Equal(t, recruiterErrors.ErrCodePositionNotFound, recruiterErrors.CodeOf(err))
}

func TestRankCommands(t *testing.T) {
	cfg := testConfig(t, "free")
	seed(t, cfg)

	view := runJSON[types.RankedView](t, cfg, "rank", "show", "p1")
	assert.Equal(t, []string{"A", "C", "B"}, viewIDs(view))
	assert.True(t, view.Candidates[0].TopPick)

	view = runJSON[types.RankedView](t, cfg, "rank", "move", "p1", "1", "0")
	assert.True(t, view.UseCustomOrder)
	assert.Equal(t, []string{"C", "A", "B"}, viewIDs(view))

	// the manual order survives a restart
	view = runJSON[types.RankedView](t, cfg, "rank", "show", "p1")
	assert.True(t, view.UseCustomOrder)
	assert.Equal(t, []string{"C", "A", "B"}, viewIDs(view))

	view = runJSON[types.RankedView](t, cfg, "rank", "reset", "p1")
	assert.False(t, view.UseCustomOrder)
	assert.Equal(t, []string{"A", "C", "B"}, viewIDs(view))

	_, err := run(t, cfg, "rank", "move", "p1", "one", "0")
	assert.Error(t, err)

	_, err = run(t, cfg, "rank", "show", "p1", "--status", "bogus")
	assert.ErrorContains(t, err, "unknown candidate status")
}

func TestPresetCommands(t *testing.T) {
	cfg := testConfig(t, "free")
	seed(t, cfg)

	runJSON[types.RankedView](t, cfg, "rank", "move", "p1", "2", "0")
	preset := runJSON[types.OrderingPreset](t, cfg, "preset", "save", "p1", "Final round")
	assert.Equal(t, []string{"B", "A", "C"}, preset.CandidateOrder)

	runJSON[types.RankedView](t, cfg, "rank", "reset", "p1")

	view := runJSON[types.RankedView](t, cfg, "preset", "apply", preset.ID)
	assert.Equal(t, preset.ID, view.ActivePresetID)
	assert.Equal(t, []string{"B", "A", "C"}, viewIDs(view))

	list := runJSON[[]types.OrderingPreset](t, cfg, "preset", "list", "p1")
	require.Len(t, list, 1)
	assert.Equal(t, "Final round", list[0].Name)

	_, err := run(t, cfg, "preset", "save", "p1", "  ")
	assert.Equal(t, recruiterErrors.ErrCodeNameRequired, recruiterErrors.CodeOf(err))

	out, err := run(t, cfg, "preset", "delete", preset.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+preset.ID)
	assert.Empty(t, runJSON[[]types.OrderingPreset](t, cfg, "preset", "list", "p1"))
}

func TestCandidateCommands(t *testing.T) {
	cfg := testConfig(t, "free")
	seed(t, cfg)

	c := runJSON[types.Candidate](t, cfg, "candidate", "status", "B", "selected")
	assert.Equal(t, types.StatusSelected, c.Status)

	selected := runJSON[[]types.Candidate](t, cfg, "candidate", "list", "p1", "--status", "selected")
	require.Len(t, selected, 1)
	assert.Equal(t, "B", selected[0].ID)

	shown := runJSON[types.Candidate](t, cfg, "candidate", "show", "C")
	assert.Equal(t, 85, shown.Score)

	_, err := run(t, cfg, "candidate", "status", "C", "analyzing")
	assert.Error(t, err)

	out, err := run(t, cfg, "candidate", "delete", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted candidate A")

	view := runJSON[types.RankedView](t, cfg, "rank", "show", "p1")
	assert.Equal(t, []string{"C", "B"}, viewIDs(view))
}

func TestOutputFormats(t *testing.T) {
	cfg := testConfig(t, "free")
	seed(t, cfg)

	out, err := run(t, cfg, "rank", "show", "p1", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")

	out, err = run(t, cfg, "rank", "show", "p1", "--format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "|")

	_, err = run(t, cfg, "rank", "show", "p1", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported output format 'xml'")

	file := filepath.Join(t.TempDir(), "ranking.yaml")
	out, err = run(t, cfg, "rank", "show", "p1", "--format", "yaml", "--output", file)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "useCustomOrder: false")
}

func TestOptimize(t *testing.T) {
	cfg := testConfig(t, "free")

	words := make([]string, 400)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	file := filepath.Join(t.TempDir(), "profile.txt")
	require.NoError(t, os.WriteFile(file, []byte(strings.Join(words, " ")), 0600))

	result := runJSON[types.OptimizeResult](t, cfg, "optimize", file, "--max-tokens", "50")
	assert.Equal(t, 50, result.MaxTokens)
	assert.LessOrEqual(t, result.OptimizedTokens, 50)
	assert.Greater(t, result.OriginalTokens, result.OptimizedTokens)

	_, err := run(t, cfg, "optimize", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestAssistCommandsRequirePlan(t *testing.T) {
	cfg := testConfig(t, "free")
	seed(t, cfg)

	_, err := run(t, cfg, "interview", "questions", "A")
	assert.Equal(t, recruiterErrors.ErrCodeFeatureNotInPlan, recruiterErrors.CodeOf(err))

	_, err = run(t, cfg, "email", "draft", "A", "--kind", "offer")
	assert.Equal(t, recruiterErrors.ErrCodeFeatureNotInPlan, recruiterErrors.CodeOf(err))

	_, err = run(t, cfg, "interview", "score", "p1", "Why Go?", "Simplicity")
	assert.Equal(t, recruiterErrors.ErrCodeFeatureNotInPlan, recruiterErrors.CodeOf(err))
}

func TestCandidateAddRequiresName(t *testing.T) {
	cfg := testConfig(t, "free")
	_, err := run(t, cfg, "candidate", "add", "p1", "profile.txt")
	assert.ErrorContains(t, err, `required flag(s) "name" not set`)
}
