package ai

import "google.golang.org/genai"

func stringArray() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// analysisSchema describes types.CandidateAnalysis
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {Type: genai.TypeInteger},
			"scoreBreakdown": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category":  {Type: genai.TypeString},
						"score":     {Type: genai.TypeInteger},
						"reasoning": {Type: genai.TypeString},
					},
					Required: []string{"category", "score", "reasoning"},
				},
			},
			"strengths":         stringArray(),
			"weaknesses":        stringArray(),
			"overallAssessment": {Type: genai.TypeString},
		},
		Required: []string{"score", "scoreBreakdown", "strengths", "weaknesses", "overallAssessment"},
	}
}

func interviewSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":  {Type: genai.TypeString},
						"category":  {Type: genai.TypeString},
						"rationale": {Type: genai.TypeString},
					},
					Required: []string{"question", "category", "rationale"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

func answerSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":    {Type: genai.TypeInteger},
			"feedback": {Type: genai.TypeString},
		},
		Required: []string{"score", "feedback"},
	}
}

func emailSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subject": {Type: genai.TypeString},
			"body":    {Type: genai.TypeString},
		},
		Required: []string{"subject", "body"},
	}
}
