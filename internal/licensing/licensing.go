// Package licensing gates features and quotas by subscription plan.
package licensing

import (
	"fmt"
	"slices"
	"sync/atomic"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
)

// Feature is a plan-gated capability
type Feature string

const (
	FeatureInterviewQuestions Feature = "interview_questions"
	FeatureAnswerScoring      Feature = "answer_scoring"
	FeatureEmailDrafts        Feature = "email_drafts"
	FeatureFileUpload         Feature = "file_upload"
)

// Limit is a plan quota
type Limit string

const (
	LimitPositions             Limit = "positions"
	LimitCandidatesPerPosition Limit = "candidates_per_position"
	LimitPresetsPerPosition    Limit = "presets_per_position"
)

// Unlimited disables a quota
const Unlimited = -1

// Plan describes one subscription tier
type Plan struct {
	Name     string        `json:"name" yaml:"name"`
	Limits   map[Limit]int `json:"limits" yaml:"limits"`
	Features []Feature     `json:"features" yaml:"features"`
}

var plans = map[string]Plan{
	"free": {
		Name: "free",
		Limits: map[Limit]int{
			LimitPositions:             3,
			LimitCandidatesPerPosition: 25,
			LimitPresetsPerPosition:    2,
		},
	},
	"pro": {
		Name: "pro",
		Limits: map[Limit]int{
			LimitPositions:             25,
			LimitCandidatesPerPosition: 250,
			LimitPresetsPerPosition:    10,
		},
		Features: []Feature{FeatureInterviewQuestions, FeatureEmailDrafts, FeatureFileUpload},
	},
	"enterprise": {
		Name: "enterprise",
		Limits: map[Limit]int{
			LimitPositions:             Unlimited,
			LimitCandidatesPerPosition: Unlimited,
			LimitPresetsPerPosition:    Unlimited,
		},
		Features: []Feature{FeatureInterviewQuestions, FeatureAnswerScoring, FeatureEmailDrafts, FeatureFileUpload},
	},
}

// PlanNames lists the known plans
func PlanNames() []string {
	return []string{"free", "pro", "enterprise"}
}

// Lookup returns the plan with the given name
func Lookup(name string) (Plan, bool) {
	p, ok := plans[name]
	return p, ok
}

// Allows reports whether the plan includes a feature
func (p Plan) Allows(f Feature) bool {
	return slices.Contains(p.Features, f)
}

// Gate enforces the active plan. The plan can be swapped while requests
// are being served.
type Gate struct {
	plan atomic.Pointer[Plan]
}

// NewGate creates a gate on the named plan
func NewGate(planName string) (*Gate, error) {
	g := &Gate{}
	if err := g.SetPlan(planName); err != nil {
		return nil, err
	}
	return g, nil
}

// SetPlan switches the active plan
func (g *Gate) SetPlan(planName string) error {
	p, ok := Lookup(planName)
	if !ok {
		return recruiterErrors.NewConfigError(recruiterErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown plan: %s", planName), nil)
	}
	g.plan.Store(&p)
	return nil
}

// Plan returns the active plan
func (g *Gate) Plan() Plan {
	return *g.plan.Load()
}

// Require fails when the active plan lacks the feature
func (g *Gate) Require(f Feature) error {
	p := g.Plan()
	if p.Allows(f) {
		return nil
	}
	return recruiterErrors.NewLicensingError(recruiterErrors.ErrCodeFeatureNotInPlan,
		fmt.Sprintf("feature %s is not available on the %s plan", f, p.Name), nil).
		WithContext("feature", string(f)).
		WithContext("plan", p.Name)
}

// CheckLimit fails when adding one more item would exceed the quota
func (g *Gate) CheckLimit(l Limit, current int) error {
	p := g.Plan()
	limit, ok := p.Limits[l]
	if !ok || limit == Unlimited || current < limit {
		return nil
	}
	return recruiterErrors.NewLicensingError(recruiterErrors.ErrCodePlanLimitReached,
		fmt.Sprintf("%s plan allows at most %d %s", p.Name, limit, l), nil).
		WithContext("limit", string(l)).
		WithContext("plan", p.Name)
}
