package formatters

import (
	"fmt"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

const timeLayout = "2006-01-02 15:04"

func rankedViewText(v types.RankedView) string {
	var out strings.Builder

	fmt.Fprintf(&out, "=== %s ===\n", v.Position.Title)
	mode := "score"
	if v.UseCustomOrder {
		mode = "custom"
	}
	fmt.Fprintf(&out, "Openings: %d  Order: %s", v.Position.Openings, mode)
	if v.ActivePresetID != "" {
		fmt.Fprintf(&out, "  Preset: %s", v.ActivePresetID)
	}
	if v.StatusFilter != "" {
		fmt.Fprintf(&out, "  Filter: %s", v.StatusFilter)
	}
	out.WriteString("\n\n")

	if len(v.Candidates) == 0 {
		out.WriteString("No candidates.\n")
		return out.String()
	}
	for _, c := range v.Candidates {
		marker := " "
		if c.TopPick {
			marker = "*"
		}
		fmt.Fprintf(&out, "%s %2d. %-24s %3d/100  %-9s %s\n", marker, c.Rank, c.Name, c.Score, c.Status, c.ID)
	}
	return out.String()
}

func candidateText(c types.Candidate) string {
	var out strings.Builder

	fmt.Fprintf(&out, "=== %s ===\n", c.Name)
	fmt.Fprintf(&out, "ID: %s\nPosition: %s\nStatus: %s\nScore: %d/100\n", c.ID, c.PositionID, c.Status, c.Score)
	if c.Email != "" {
		fmt.Fprintf(&out, "Email: %s\n", c.Email)
	}
	if c.CustomOrder != nil {
		fmt.Fprintf(&out, "Custom order: %d\n", *c.CustomOrder)
	}

	if len(c.ScoreBreakdown) > 0 {
		out.WriteString("\nScore breakdown:\n")
		for _, item := range c.ScoreBreakdown {
			fmt.Fprintf(&out, "  %-20s %3d  %s\n", item.Category, item.Score, item.Reasoning)
		}
	}
	writeTextList(&out, "Strengths", c.Strengths)
	writeTextList(&out, "Weaknesses", c.Weaknesses)
	if c.OverallAssessment != "" {
		out.WriteString("\nAssessment:\n")
		out.WriteString(c.OverallAssessment)
		out.WriteString("\n")
	}
	return out.String()
}

func positionsText(positions []types.Position) string {
	if len(positions) == 0 {
		return "No positions.\n"
	}
	var out strings.Builder
	for _, p := range positions {
		fmt.Fprintf(&out, "%s  %-30s openings=%d  created=%s\n", p.ID, p.Title, p.Openings, p.CreatedAt.Format(timeLayout))
	}
	return out.String()
}

func presetsText(presets []types.OrderingPreset) string {
	if len(presets) == 0 {
		return "No presets.\n"
	}
	var out strings.Builder
	for _, p := range presets {
		fmt.Fprintf(&out, "%s  %-24s candidates=%d  updated=%s\n", p.ID, p.Name, len(p.CandidateOrder), p.UpdatedAt.Format(timeLayout))
	}
	return out.String()
}

func optimizeText(r types.OptimizeResult) string {
	return fmt.Sprintf("Tokens: %d -> %d (budget %d)\n\n%s\n", r.OriginalTokens, r.OptimizedTokens, r.MaxTokens, r.Text)
}

func questionsText(q types.InterviewQuestions) string {
	var out strings.Builder
	out.WriteString("=== INTERVIEW QUESTIONS ===\n\n")
	for i, item := range q.Questions {
		fmt.Fprintf(&out, "%d. [%s] %s\n", i+1, item.Category, item.Question)
		if item.Rationale != "" {
			fmt.Fprintf(&out, "   Why: %s\n", item.Rationale)
		}
	}
	return out.String()
}

func answerText(a types.AnswerScore) string {
	return fmt.Sprintf("Score: %d/100\n\n%s\n", a.Score, a.Feedback)
}

func emailText(e types.EmailDraft) string {
	return fmt.Sprintf("Subject: %s\n\n%s\n", e.Subject, e.Body)
}

func writeTextList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
