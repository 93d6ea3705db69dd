package workspace

import (
	"strings"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/licensing"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// The builders below gather position and candidate data for the plan-gated
// AI operations. They check the feature first.

// InterviewInput prepares question generation for a scored candidate
func (w *Workspace) InterviewInput(candidateID string, count int) (types.InterviewQuestionsInput, error) {
	if err := w.gate.Require(licensing.FeatureInterviewQuestions); err != nil {
		return types.InterviewQuestionsInput{}, err
	}
	c, p, err := w.candidateWithPosition(candidateID)
	if err != nil {
		return types.InterviewQuestionsInput{}, err
	}

	summary := c.OverallAssessment
	if summary == "" {
		summary = c.ProfileText
	}
	return types.InterviewQuestionsInput{
		PositionTitle:       p.Title,
		PositionDescription: p.Description,
		Requirements:        p.Requirements,
		CandidateName:       c.Name,
		CandidateSummary:    summary,
		Weaknesses:          c.Weaknesses,
		Count:               count,
	}, nil
}

// EmailInput prepares an email draft for a candidate
func (w *Workspace) EmailInput(candidateID string, kind types.EmailKind, notes string) (types.DraftEmailInput, error) {
	if err := w.gate.Require(licensing.FeatureEmailDrafts); err != nil {
		return types.DraftEmailInput{}, err
	}
	if _, ok := types.ParseEmailKind(string(kind)); !ok {
		return types.DraftEmailInput{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "invalid email kind", nil).
			WithContext("kind", string(kind))
	}
	c, p, err := w.candidateWithPosition(candidateID)
	if err != nil {
		return types.DraftEmailInput{}, err
	}
	return types.DraftEmailInput{
		Kind:          kind,
		PositionTitle: p.Title,
		CandidateName: c.Name,
		Notes:         strings.TrimSpace(notes),
	}, nil
}

// AnswerInput prepares the scoring of an interview answer for a position
func (w *Workspace) AnswerInput(positionID, question, answer string) (types.ScoreAnswerInput, error) {
	if err := w.gate.Require(licensing.FeatureAnswerScoring); err != nil {
		return types.ScoreAnswerInput{}, err
	}
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return types.ScoreAnswerInput{}, recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest, "question and answer are required", nil)
	}
	p, err := w.GetPosition(positionID)
	if err != nil {
		return types.ScoreAnswerInput{}, err
	}
	return types.ScoreAnswerInput{
		PositionTitle: p.Title,
		Requirements:  p.Requirements,
		Question:      question,
		Answer:        answer,
	}, nil
}

func (w *Workspace) candidateWithPosition(candidateID string) (types.Candidate, types.Position, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ci := w.candidateIndex(candidateID)
	if ci < 0 {
		return types.Candidate{}, types.Position{}, candidateNotFound(candidateID)
	}
	c := w.candidates[ci]
	pi := w.positionIndex(c.PositionID)
	if pi < 0 {
		return types.Candidate{}, types.Position{}, positionNotFound(c.PositionID)
	}
	return c, w.positions[pi], nil
}
