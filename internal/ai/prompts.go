package ai

import (
	"fmt"
	"strings"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// DefaultSystemPrompts maps each operation to its built-in system instruction
var DefaultSystemPrompts = map[string]string{
	config.OperationAnalyze: `You are an experienced technical recruiter who scores candidates against a specific job opening. Your principles:

- Judge only what the profile actually states; never assume skills that are not written down
- Weigh hard requirements above nice-to-haves
- Be consistent: two equivalent profiles must receive the same score
- Explain every category score in one or two factual sentences

Scores are integers from 0 (no fit) to 100 (ideal fit).`,

	config.OperationInterview: `You are a hiring manager preparing a structured interview. You write precise, open-ended questions that verify the candidate's claimed experience and probe the gaps identified during screening. Avoid trivia and yes/no questions.`,

	config.OperationAnswer: `You are an interviewer scoring a candidate's answer. Score from 0 to 100 on relevance, depth and correctness for the role. Be strict but fair, and give feedback the candidate could act on.`,

	config.OperationEmail: `You are a recruiter writing candidate emails. The tone is warm, professional and concise. Never promise anything that is not in the notes, and never include internal evaluation details in a rejection.`,
}

// DefaultUserPrompts maps each operation to its built-in user prompt template.
// Placeholders, in order:
//   - analyze: title, description, requirements, profile
//   - interview: count, title, description, requirements, candidate name, summary, weaknesses
//   - answer: title, requirements, question, answer
//   - email: kind, title, candidate name, notes
var DefaultUserPrompts = map[string]string{
	config.OperationAnalyze: `Evaluate the candidate below for this position.

**Tasks:**
1. Give an overall score from 0 to 100.
2. Break the score down by category (for example: technical skills, experience, education, soft skills), each with its own 0-100 score and reasoning.
3. List the candidate's main strengths and weaknesses for this role.
4. Write a short overall assessment.

**Position:** %s

**Description:**
-----
%s
-----

**Requirements:**
%s

**Candidate profile:**
-----
%s
-----`,

	config.OperationInterview: `Write %d interview questions for the candidate below.

Cover the position's key requirements and dig into the weaknesses found during screening. For each question give its category (technical, behavioral or situational) and the rationale for asking it.

**Position:** %s

**Description:**
-----
%s
-----

**Requirements:**
%s

**Candidate:** %s

**Screening summary:**
-----
%s
-----

**Weaknesses to probe:**
%s`,

	config.OperationAnswer: `Score the interview answer below.

**Position:** %s

**Requirements:**
%s

**Question:**
%s

**Answer:**
-----
%s
-----`,

	config.OperationEmail: `Draft a %s email.

**Position:** %s
**Candidate:** %s

**Notes from the recruiter:**
-----
%s
-----

Return a subject line and a plain-text body.`,
}

// resolvePrompt selects the first non-empty prompt: configured override, then default
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// promptSet resolves the system prompt and user template for one operation
type promptSet struct {
	operation string
	overrides config.PromptConfig
}

func (p promptSet) system() string {
	return resolvePrompt(p.overrides.ResolvedSystem(), DefaultSystemPrompts[p.operation])
}

func (p promptSet) user(args ...any) string {
	return fmt.Sprintf(resolvePrompt(p.overrides.ResolvedUser(), DefaultUserPrompts[p.operation]), args...)
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- (none listed)"
	}
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

func analyzePrompt(p promptSet, in types.AnalyzeCandidateInput) string {
	return p.user(in.PositionTitle, in.PositionDescription, bulletList(in.Requirements), in.ProfileText)
}

func interviewPrompt(p promptSet, in types.InterviewQuestionsInput) string {
	return p.user(in.Count, in.PositionTitle, in.PositionDescription, bulletList(in.Requirements),
		in.CandidateName, in.CandidateSummary, bulletList(in.Weaknesses))
}

func answerPrompt(p promptSet, in types.ScoreAnswerInput) string {
	return p.user(in.PositionTitle, bulletList(in.Requirements), in.Question, in.Answer)
}

func emailPrompt(p promptSet, in types.DraftEmailInput) string {
	return p.user(string(in.Kind), in.PositionTitle, in.CandidateName, in.Notes)
}
