// Package optimizer compresses long candidate profile text so that it fits
// the token budget of the analysis model while keeping the résumé sections
// that matter for evaluation.
package optimizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"
)

// DefaultMaxTokens is the budget used when the caller passes a non-positive one
const DefaultMaxTokens = 4500

// fragments shorter than this (in runes) are treated as noise
const minFragmentRunes = 15

type section struct {
	label   string
	limit   int
	pattern *regexp.Regexp
}

// sections are emitted in this order
var sections = []section{
	{"PROFILE", 3, regexp.MustCompile(`(?i)(profil|summary|résumé|about me|à propos|objecti[fv]|overview|présentation)`)},
	{"SKILLS", 25, regexp.MustCompile(`(?i)(skill|compétence|competence|technolog|tools|outils|framework|programming|programmation|expertise|maîtrise|proficien|savoir-faire)`)},
	{"EXPERIENCE", 20, regexp.MustCompile(`(?i)(experience|expérience|worked|travaillé|employ|emploi|\bposte\b|responsib|responsabilit|manag|develop|développ|\bled\b|dirigé|company|entreprise|société|\byears?\b|\bans\b)`)},
	{"PROJECTS", 15, regexp.MustCompile(`(?i)(project|projet|portfolio|github|\bbuilt\b|conçu|réalisé|implemented|implémenté)`)},
	{"ACHIEVEMENTS", 10, regexp.MustCompile(`(?i)(achievement|réalisation|accomplish|award|\bprix\b|récompense|distinction|increased|augment|reduced|réduit|improved|amélior|\d+\s?%)`)},
	{"EDUCATION", 8, regexp.MustCompile(`(?i)(education|éducation|formation|degree|diplôme|diplome|universit|school|école|ecole|bachelor|master|licence|\bphd\b|doctorat|studied|études)`)},
	{"CERTIFICATIONS", 8, regexp.MustCompile(`(?i)(certif|accredit|accrédit|\bpmp\b|toeic|toefl)`)},
	{"LANGUAGES", 5, regexp.MustCompile(`(?i)(language|langue|english|anglais|french|français|francais|spanish|espagnol|german|allemand|bilingu|fluent|courant|native|maternelle)`)},
}

// EstimateTokens approximates the model token count as ceil(words * 1.3)
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return (words*13 + 9) / 10
}

// Normalize collapses whitespace runs to single spaces and drops C0/C1
// control characters. C1 is dropped even where Unicode classes it as space
// (NEL); C0 whitespace such as tab and newline still collapses to a space.
func Normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 0x80 && r <= 0x9F {
			return -1
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		if isControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

func isControl(r rune) bool {
	return r <= 0x1F || (r >= 0x7F && r <= 0x9F)
}

// Optimize returns text that fits maxTokens. It never fails; the worst case
// is a hard word-level truncation.
func Optimize(text string, maxTokens int) string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	normalized := Normalize(text)
	if EstimateTokens(normalized) <= maxTokens {
		return normalized
	}

	summary := buildSummary(classify(splitFragments(normalized)))
	if EstimateTokens(summary) <= maxTokens {
		return strings.TrimSpace(summary)
	}
	return truncateWords(summary, maxTokens)
}

// Report optimizes text and returns the before/after token estimates
func Report(text string, maxTokens int) types.OptimizeResult {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	out := Optimize(text, maxTokens)
	return types.OptimizeResult{
		Text:            out,
		OriginalTokens:  EstimateTokens(text),
		OptimizedTokens: EstimateTokens(out),
		MaxTokens:       maxTokens,
	}
}

// splitFragments breaks text on line breaks and on sentence boundaries
// (a period, whitespace, then an uppercase letter).
func splitFragments(text string) []string {
	var fragments []string
	emit := func(s string) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) >= minFragmentRunes {
			fragments = append(fragments, s)
		}
	}

	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n', '\r':
			emit(text[start:i])
			start = i + 1
		case '.':
			j := i + 1
			for j < len(text) && isASCIISpace(text[j]) {
				j++
			}
			if j == i+1 || j >= len(text) {
				continue
			}
			if r, _ := utf8.DecodeRuneInString(text[j:]); unicode.IsUpper(r) {
				emit(text[start:i])
				start = j
				i = j - 1
			}
		}
	}
	emit(text[start:])
	return fragments
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// classify files each fragment into every section whose keywords it matches
func classify(fragments []string) [][]string {
	buckets := make([][]string, len(sections))
	for _, frag := range fragments {
		for i, sec := range sections {
			if sec.pattern.MatchString(frag) {
				buckets[i] = append(buckets[i], frag)
			}
		}
	}
	return buckets
}

func buildSummary(buckets [][]string) string {
	var parts []string
	for i, sec := range sections {
		frags := buckets[i]
		if len(frags) == 0 {
			continue
		}
		if len(frags) > sec.limit {
			frags = frags[:sec.limit]
		}
		parts = append(parts, sec.label+": "+strings.Join(frags, ". "))
	}
	return strings.Join(parts, "\n\n")
}

// truncateWords keeps the first floor(maxTokens/1.3) words
func truncateWords(text string, maxTokens int) string {
	maxWords := maxTokens * 10 / 13
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
