package types

import "time"

// Position represents a job opening candidates apply to
type Position struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Requirements []string  `json:"requirements" yaml:"requirements"`
	Openings     int       `json:"openings" yaml:"openings"`
	CreatedAt    time.Time `json:"createdAt" yaml:"createdAt"`
}

// CandidateStatus is the reviewer-facing lifecycle state of a candidate
type CandidateStatus string

const (
	StatusAnalyzing CandidateStatus = "analyzing"
	StatusScored    CandidateStatus = "scored"
	StatusSelected  CandidateStatus = "selected"
	StatusRejected  CandidateStatus = "rejected"
	StatusHired     CandidateStatus = "hired"
)

// ParseCandidateStatus accepts only the statuses a reviewer may assign or filter on
func ParseCandidateStatus(s string) (CandidateStatus, bool) {
	switch st := CandidateStatus(s); st {
	case StatusAnalyzing, StatusScored, StatusSelected, StatusRejected, StatusHired:
		return st, true
	}
	return "", false
}

// IsReviewerStatus reports whether a reviewer may set this status explicitly
func (s CandidateStatus) IsReviewerStatus() bool {
	switch s {
	case StatusScored, StatusSelected, StatusRejected, StatusHired:
		return true
	}
	return false
}

// ScoreBreakdownItem is one scored category of a candidate analysis
type ScoreBreakdownItem struct {
	Category  string `json:"category" yaml:"category"`
	Score     int    `json:"score" yaml:"score"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}

// Candidate represents a submitted profile for exactly one position
type Candidate struct {
	ID                string               `json:"id" yaml:"id"`
	PositionID        string               `json:"positionId" yaml:"positionId"`
	Name              string               `json:"name" yaml:"name"`
	Email             string               `json:"email,omitempty" yaml:"email,omitempty"`
	ProfileText       string               `json:"profileText" yaml:"profileText"`
	ResumeKey         string               `json:"resumeKey,omitempty" yaml:"resumeKey,omitempty"`
	Status            CandidateStatus      `json:"status" yaml:"status"`
	Score             int                  `json:"score" yaml:"score"`
	ScoreBreakdown    []ScoreBreakdownItem `json:"scoreBreakdown" yaml:"scoreBreakdown"`
	Strengths         []string             `json:"strengths" yaml:"strengths"`
	Weaknesses        []string             `json:"weaknesses" yaml:"weaknesses"`
	OverallAssessment string               `json:"overallAssessment" yaml:"overallAssessment"`
	CustomOrder       *int                 `json:"customOrder,omitempty" yaml:"customOrder,omitempty"`
	CreatedAt         time.Time            `json:"createdAt" yaml:"createdAt"`
}

// HasCustomOrder reports whether a manual order is set
func (c Candidate) HasCustomOrder() bool {
	return c.CustomOrder != nil
}

// OrderingPreset is a named snapshot of a candidate display order
type OrderingPreset struct {
	ID             string    `json:"id" yaml:"id"`
	PositionID     string    `json:"positionId" yaml:"positionId"`
	Name           string    `json:"name" yaml:"name"`
	CandidateOrder []string  `json:"candidateOrder" yaml:"candidateOrder"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// RankedCandidate is a candidate annotated with its derived display rank
type RankedCandidate struct {
	Candidate `yaml:",inline"`
	Rank      int  `json:"rank" yaml:"rank"`
	TopPick   bool `json:"topPick" yaml:"topPick"`
}

// RankedView is the ordered candidate list of one position as displayed
type RankedView struct {
	Position       Position          `json:"position" yaml:"position"`
	StatusFilter   CandidateStatus   `json:"statusFilter,omitempty" yaml:"statusFilter,omitempty"`
	UseCustomOrder bool              `json:"useCustomOrder" yaml:"useCustomOrder"`
	ActivePresetID string            `json:"activePresetId,omitempty" yaml:"activePresetId,omitempty"`
	Candidates     []RankedCandidate `json:"candidates" yaml:"candidates"`
}

// OptimizeResult represents the outcome of compressing profile text
type OptimizeResult struct {
	Text            string `json:"text" yaml:"text"`
	OriginalTokens  int    `json:"originalTokens" yaml:"originalTokens"`
	OptimizedTokens int    `json:"optimizedTokens" yaml:"optimizedTokens"`
	MaxTokens       int    `json:"maxTokens" yaml:"maxTokens"`
}

// TokenUsage represents token consumption information from AI operations
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// AnalyzeCandidateInput represents the input for scoring a candidate
type AnalyzeCandidateInput struct {
	PositionTitle       string   `json:"positionTitle"`
	PositionDescription string   `json:"positionDescription"`
	Requirements        []string `json:"requirements"`
	ProfileText         string   `json:"profileText"`
}

// CandidateAnalysis is the validated result of an analysis call
type CandidateAnalysis struct {
	Score             int                  `json:"score" yaml:"score"`
	ScoreBreakdown    []ScoreBreakdownItem `json:"scoreBreakdown" yaml:"scoreBreakdown"`
	Strengths         []string             `json:"strengths" yaml:"strengths"`
	Weaknesses        []string             `json:"weaknesses" yaml:"weaknesses"`
	OverallAssessment string               `json:"overallAssessment" yaml:"overallAssessment"`
}

// InterviewQuestionsInput represents the input for generating interview questions
type InterviewQuestionsInput struct {
	PositionTitle       string   `json:"positionTitle"`
	PositionDescription string   `json:"positionDescription"`
	Requirements        []string `json:"requirements"`
	CandidateName       string   `json:"candidateName"`
	CandidateSummary    string   `json:"candidateSummary"`
	Weaknesses          []string `json:"weaknesses"`
	Count               int      `json:"count"`
}

// InterviewQuestion is a single generated question
type InterviewQuestion struct {
	Question  string `json:"question" yaml:"question"`
	Category  string `json:"category" yaml:"category"`
	Rationale string `json:"rationale" yaml:"rationale"`
}

// InterviewQuestions represents the generated question set
type InterviewQuestions struct {
	Questions []InterviewQuestion `json:"questions" yaml:"questions"`
}

// ScoreAnswerInput represents the input for scoring an interview answer
type ScoreAnswerInput struct {
	PositionTitle string   `json:"positionTitle"`
	Requirements  []string `json:"requirements"`
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
}

// AnswerScore represents the evaluation of an interview answer
type AnswerScore struct {
	Score    int    `json:"score" yaml:"score"`
	Feedback string `json:"feedback" yaml:"feedback"`
}

// EmailKind selects which email template is drafted
type EmailKind string

const (
	EmailInvitation EmailKind = "invitation"
	EmailRejection  EmailKind = "rejection"
	EmailOffer      EmailKind = "offer"
)

// ParseEmailKind validates an email kind
func ParseEmailKind(s string) (EmailKind, bool) {
	switch k := EmailKind(s); k {
	case EmailInvitation, EmailRejection, EmailOffer:
		return k, true
	}
	return "", false
}

// DraftEmailInput represents the input for drafting a candidate email
type DraftEmailInput struct {
	Kind          EmailKind `json:"kind"`
	PositionTitle string    `json:"positionTitle"`
	CandidateName string    `json:"candidateName"`
	Notes         string    `json:"notes"`
}

// EmailDraft is a generated email
type EmailDraft struct {
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body" yaml:"body"`
}
