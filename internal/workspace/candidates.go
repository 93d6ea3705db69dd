package workspace

import (
	"context"
	"slices"
	"strings"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/optimizer"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ranking"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// CandidateInput is a new candidate submission
type CandidateInput struct {
	Name        string `json:"name" yaml:"name"`
	Email       string `json:"email" yaml:"email"`
	ProfileText string `json:"profileText" yaml:"profileText"`
}

// SubmitCandidate creates a candidate in the analyzing state, sends its
// optimized profile to the analyzer and records the result. The analyzer runs
// without holding the workspace lock and is bound to ctx: when it fails or
// ctx is cancelled, the candidate record is removed again.
func (w *Workspace) SubmitCandidate(ctx context.Context, positionID string, in CandidateInput) (types.Candidate, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return types.Candidate{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "candidate name is required", nil)
	}
	if strings.TrimSpace(in.ProfileText) == "" {
		return types.Candidate{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "profile text is required", nil)
	}

	c, position, err := w.createAnalyzing(ctx, positionID, in)
	if err != nil {
		return types.Candidate{}, err
	}

	analysis, _, err := w.analyzer.AnalyzeCandidate(ctx, types.AnalyzeCandidateInput{
		PositionTitle:       position.Title,
		PositionDescription: position.Description,
		Requirements:        position.Requirements,
		ProfileText:         c.ProfileText,
	})
	if err == nil {
		err = ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.candidateIndex(c.ID)
	if err != nil {
		if i >= 0 {
			w.candidates = slices.Delete(w.candidates, i, i+1)
			w.record(ctx, EventCandidateRemoved)
			w.logger.LogError(err, "Candidate analysis failed, record removed",
				"candidate_id", c.ID,
				"position_id", positionID)
			// the analysis error is what the caller needs to see
			_ = w.persistCandidates(context.WithoutCancel(ctx))
		}
		return types.Candidate{}, err
	}
	if i < 0 {
		// deleted while the analysis was in flight
		return types.Candidate{}, candidateNotFound(c.ID)
	}

	stored := &w.candidates[i]
	stored.Status = types.StatusScored
	stored.Score = analysis.Score
	stored.ScoreBreakdown = analysis.ScoreBreakdown
	stored.Strengths = analysis.Strengths
	stored.Weaknesses = analysis.Weaknesses
	stored.OverallAssessment = analysis.OverallAssessment
	w.record(ctx, EventCandidateAnalyzed)

	w.logger.Info("Candidate analyzed",
		"candidate_id", stored.ID,
		"position_id", positionID,
		"score", stored.Score)
	return *stored, w.persistCandidates(ctx)
}

func (w *Workspace) createAnalyzing(ctx context.Context, positionID string, in CandidateInput) (types.Candidate, types.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pi := w.positionIndex(positionID)
	if pi < 0 {
		return types.Candidate{}, types.Position{}, positionNotFound(positionID)
	}
	if err := w.gate.CheckLimit(licensing.LimitCandidatesPerPosition, len(w.positionCandidates(positionID))); err != nil {
		return types.Candidate{}, types.Position{}, err
	}

	c := types.Candidate{
		ID:          w.newID(),
		PositionID:  positionID,
		Name:        in.Name,
		Email:       in.Email,
		ProfileText: optimizer.Optimize(in.ProfileText, w.maxTokens),
		Status:      types.StatusAnalyzing,
		CreatedAt:   w.now(),
	}
	w.candidates = append(w.candidates, c)
	w.record(ctx, EventTextOptimized)

	// a failed write here is retried by the write that records the outcome
	_ = w.persistCandidates(ctx)
	return c, w.positions[pi], nil
}

// GetCandidate looks a candidate up by id
func (w *Workspace) GetCandidate(id string) (types.Candidate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.candidateIndex(id)
	if i < 0 {
		return types.Candidate{}, candidateNotFound(id)
	}
	return w.candidates[i], nil
}

// ListCandidates returns the candidates of a position with the given status
// (all when empty), in insertion order
func (w *Workspace) ListCandidates(positionID string, status types.CandidateStatus) ([]types.Candidate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.positionIndex(positionID) < 0 {
		return nil, positionNotFound(positionID)
	}
	out := ranking.Filter(w.positionCandidates(positionID), status)
	if out == nil {
		out = []types.Candidate{}
	}
	return out, nil
}

// SetCandidateStatus records a reviewer decision. Candidates still being
// analyzed cannot be re-statused.
func (w *Workspace) SetCandidateStatus(ctx context.Context, id string, status types.CandidateStatus) (types.Candidate, error) {
	if !status.IsReviewerStatus() {
		return types.Candidate{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "invalid candidate status", nil).
			WithContext("status", string(status))
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.candidateIndex(id)
	if i < 0 {
		return types.Candidate{}, candidateNotFound(id)
	}
	c := &w.candidates[i]
	if c.Status == types.StatusAnalyzing {
		return types.Candidate{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "candidate is still being analyzed", nil).
			WithContext("candidate_id", id)
	}
	c.Status = status

	return *c, w.persistCandidates(ctx)
}

// SetResumeKey records where the candidate's original résumé was archived
func (w *Workspace) SetResumeKey(ctx context.Context, id, key string) (types.Candidate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.candidateIndex(id)
	if i < 0 {
		return types.Candidate{}, candidateNotFound(id)
	}
	w.candidates[i].ResumeKey = key
	return w.candidates[i], w.persistCandidates(ctx)
}

// DeleteCandidate removes a candidate. Presets referencing it are untouched.
func (w *Workspace) DeleteCandidate(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.candidateIndex(id)
	if i < 0 {
		return candidateNotFound(id)
	}
	w.candidates = slices.Delete(w.candidates, i, i+1)
	w.record(ctx, EventCandidateRemoved)
	return w.persistCandidates(ctx)
}

func (w *Workspace) candidateIndex(id string) int {
	return slices.IndexFunc(w.candidates, func(c types.Candidate) bool {
		return c.ID == id
	})
}
