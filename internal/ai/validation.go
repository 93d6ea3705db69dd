package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// AnalysisError reports a model response that does not have the expected shape
type AnalysisError struct {
	Field  string
	Reason string
}

func (e *AnalysisError) Error() string {
	if e.Field == "" {
		return "invalid AI response: " + e.Reason
	}
	return fmt.Sprintf("invalid AI response field %q: %s", e.Field, e.Reason)
}

// CleanJSON strips markdown code fences and surrounding prose from a model response
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:] // language tag
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}'); start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func decodeObject(raw string, dst any) error {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return &AnalysisError{Reason: "empty response"}
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return &AnalysisError{Reason: "malformed JSON: " + err.Error()}
	}
	return nil
}

// score validates a 0-100 score, rounding fractional values
func score(field string, v *float64) (int, error) {
	if v == nil {
		return 0, &AnalysisError{Field: field, Reason: "missing"}
	}
	if math.IsNaN(*v) || *v < 0 || *v > 100 {
		return 0, &AnalysisError{Field: field, Reason: fmt.Sprintf("%v is outside 0-100", *v)}
	}
	return int(math.Round(*v)), nil
}

func requiredList(field string, v *[]string) ([]string, error) {
	if v == nil {
		return nil, &AnalysisError{Field: field, Reason: "missing"}
	}
	out := make([]string, 0, len(*v))
	for _, s := range *v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func requiredText(field string, v *string) (string, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "", &AnalysisError{Field: field, Reason: "missing"}
	}
	return strings.TrimSpace(*v), nil
}

type rawAnalysis struct {
	Score          *float64 `json:"score"`
	ScoreBreakdown *[]struct {
		Category  *string  `json:"category"`
		Score     *float64 `json:"score"`
		Reasoning string   `json:"reasoning"`
	} `json:"scoreBreakdown"`
	Strengths         *[]string `json:"strengths"`
	Weaknesses        *[]string `json:"weaknesses"`
	OverallAssessment string    `json:"overallAssessment"`
}

// ParseCandidateAnalysis validates an analysis payload. Score and the three
// arrays are required; the overall assessment may be empty.
func ParseCandidateAnalysis(raw string) (types.CandidateAnalysis, error) {
	var in rawAnalysis
	if err := decodeObject(raw, &in); err != nil {
		return types.CandidateAnalysis{}, err
	}

	var out types.CandidateAnalysis
	var err error
	if out.Score, err = score("score", in.Score); err != nil {
		return types.CandidateAnalysis{}, err
	}

	if in.ScoreBreakdown == nil {
		return types.CandidateAnalysis{}, &AnalysisError{Field: "scoreBreakdown", Reason: "missing"}
	}
	out.ScoreBreakdown = make([]types.ScoreBreakdownItem, 0, len(*in.ScoreBreakdown))
	for i, item := range *in.ScoreBreakdown {
		field := fmt.Sprintf("scoreBreakdown[%d]", i)
		category, err := requiredText(field+".category", item.Category)
		if err != nil {
			return types.CandidateAnalysis{}, err
		}
		s, err := score(field+".score", item.Score)
		if err != nil {
			return types.CandidateAnalysis{}, err
		}
		out.ScoreBreakdown = append(out.ScoreBreakdown, types.ScoreBreakdownItem{
			Category:  category,
			Score:     s,
			Reasoning: strings.TrimSpace(item.Reasoning),
		})
	}

	if out.Strengths, err = requiredList("strengths", in.Strengths); err != nil {
		return types.CandidateAnalysis{}, err
	}
	if out.Weaknesses, err = requiredList("weaknesses", in.Weaknesses); err != nil {
		return types.CandidateAnalysis{}, err
	}
	out.OverallAssessment = strings.TrimSpace(in.OverallAssessment)
	return out, nil
}

// ParseInterviewQuestions validates a question set, keeping at most want questions
func ParseInterviewQuestions(raw string, want int) (types.InterviewQuestions, error) {
	var in struct {
		Questions *[]struct {
			Question  *string `json:"question"`
			Category  string  `json:"category"`
			Rationale string  `json:"rationale"`
		} `json:"questions"`
	}
	if err := decodeObject(raw, &in); err != nil {
		return types.InterviewQuestions{}, err
	}
	if in.Questions == nil || len(*in.Questions) == 0 {
		return types.InterviewQuestions{}, &AnalysisError{Field: "questions", Reason: "missing"}
	}

	out := types.InterviewQuestions{Questions: make([]types.InterviewQuestion, 0, len(*in.Questions))}
	for i, q := range *in.Questions {
		text, err := requiredText(fmt.Sprintf("questions[%d].question", i), q.Question)
		if err != nil {
			return types.InterviewQuestions{}, err
		}
		out.Questions = append(out.Questions, types.InterviewQuestion{
			Question:  text,
			Category:  strings.TrimSpace(q.Category),
			Rationale: strings.TrimSpace(q.Rationale),
		})
	}
	if want > 0 && len(out.Questions) > want {
		out.Questions = out.Questions[:want]
	}
	return out, nil
}

// ParseAnswerScore validates an answer evaluation
func ParseAnswerScore(raw string) (types.AnswerScore, error) {
	var in struct {
		Score    *float64 `json:"score"`
		Feedback *string  `json:"feedback"`
	}
	if err := decodeObject(raw, &in); err != nil {
		return types.AnswerScore{}, err
	}

	s, err := score("score", in.Score)
	if err != nil {
		return types.AnswerScore{}, err
	}
	feedback, err := requiredText("feedback", in.Feedback)
	if err != nil {
		return types.AnswerScore{}, err
	}
	return types.AnswerScore{Score: s, Feedback: feedback}, nil
}

// ParseEmailDraft validates a drafted email
func ParseEmailDraft(raw string) (types.EmailDraft, error) {
	var in struct {
		Subject *string `json:"subject"`
		Body    *string `json:"body"`
	}
	if err := decodeObject(raw, &in); err != nil {
		return types.EmailDraft{}, err
	}

	subject, err := requiredText("subject", in.Subject)
	if err != nil {
		return types.EmailDraft{}, err
	}
	body, err := requiredText("body", in.Body)
	if err != nil {
		return types.EmailDraft{}, err
	}
	return types.EmailDraft{Subject: subject, Body: body}, nil
}
