package formatters

import (
	"fmt"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// escapeCell keeps table cells on one row
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

func rankedViewMarkdown(v types.RankedView) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s\n\n", v.Position.Title)
	if v.UseCustomOrder {
		out.WriteString("**Order:** custom")
	} else {
		out.WriteString("**Order:** score")
	}
	if v.ActivePresetID != "" {
		fmt.Fprintf(&out, " (preset `%s`)", v.ActivePresetID)
	}
	fmt.Fprintf(&out, "  \n**Openings:** %d\n\n", v.Position.Openings)

	if len(v.Candidates) == 0 {
		out.WriteString("_No candidates._\n")
		return out.String()
	}

	out.WriteString("| Rank | Candidate | Score | Status | Top pick |\n")
	out.WriteString("|---:|---|---:|---|:---:|\n")
	for _, c := range v.Candidates {
		top := ""
		if c.TopPick {
			top = "✓"
		}
		fmt.Fprintf(&out, "| %d | %s | %d | %s | %s |\n", c.Rank, escapeCell(c.Name), c.Score, c.Status, top)
	}
	return out.String()
}

func candidateMarkdown(c types.Candidate) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s\n\n", c.Name)
	fmt.Fprintf(&out, "**Score:** %d/100  \n**Status:** %s\n", c.Score, c.Status)

	if len(c.ScoreBreakdown) > 0 {
		out.WriteString("\n## Score Breakdown\n\n| Category | Score | Reasoning |\n|---|---:|---|\n")
		for _, item := range c.ScoreBreakdown {
			fmt.Fprintf(&out, "| %s | %d | %s |\n", escapeCell(item.Category), item.Score, escapeCell(item.Reasoning))
		}
	}
	writeMarkdownList(&out, "Strengths", c.Strengths)
	writeMarkdownList(&out, "Weaknesses", c.Weaknesses)
	if c.OverallAssessment != "" {
		fmt.Fprintf(&out, "\n## Assessment\n\n%s\n", c.OverallAssessment)
	}
	return out.String()
}

func positionsMarkdown(positions []types.Position) string {
	var out strings.Builder
	out.WriteString("# Positions\n\n")
	if len(positions) == 0 {
		out.WriteString("_No positions._\n")
		return out.String()
	}
	out.WriteString("| ID | Title | Openings |\n|---|---|---:|\n")
	for _, p := range positions {
		fmt.Fprintf(&out, "| `%s` | %s | %d |\n", p.ID, escapeCell(p.Title), p.Openings)
	}
	return out.String()
}

func presetsMarkdown(presets []types.OrderingPreset) string {
	var out strings.Builder
	out.WriteString("# Ordering Presets\n\n")
	if len(presets) == 0 {
		out.WriteString("_No presets._\n")
		return out.String()
	}
	out.WriteString("| ID | Name | Candidates | Updated |\n|---|---|---:|---|\n")
	for _, p := range presets {
		fmt.Fprintf(&out, "| `%s` | %s | %d | %s |\n", p.ID, escapeCell(p.Name), len(p.CandidateOrder), p.UpdatedAt.Format(timeLayout))
	}
	return out.String()
}

func optimizeMarkdown(r types.OptimizeResult) string {
	return fmt.Sprintf("# Optimized Profile\n\n**Tokens:** %d → %d (budget %d)\n\n```\n%s\n```\n",
		r.OriginalTokens, r.OptimizedTokens, r.MaxTokens, r.Text)
}

func questionsMarkdown(q types.InterviewQuestions) string {
	var out strings.Builder
	out.WriteString("# Interview Questions\n\n")
	for i, item := range q.Questions {
		fmt.Fprintf(&out, "%d. **%s** _(%s)_\n", i+1, item.Question, item.Category)
		if item.Rationale != "" {
			fmt.Fprintf(&out, "   - %s\n", item.Rationale)
		}
	}
	return out.String()
}

func answerMarkdown(a types.AnswerScore) string {
	return fmt.Sprintf("# Answer Evaluation\n\n**Score:** %d/100\n\n%s\n", a.Score, a.Feedback)
}

func emailMarkdown(e types.EmailDraft) string {
	return fmt.Sprintf("**Subject:** %s\n\n---\n\n%s\n", e.Subject, e.Body)
}

func writeMarkdownList(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
}
