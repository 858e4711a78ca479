package coach

import "github.com/abhisek/finwise/internal/llm"

// ExplanationSchema is the structured reply the coach asks for.
var ExplanationSchema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Short explanation of a personal finance quiz answer with a tip and an example",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentence explanation of the correct answer",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One practical, actionable tip",
			},
			"example": map[string]any{
				"type":        "string",
				"description": "A tiny worked example with round numbers",
			},
		},
		"required":             []any{"summary", "tip", "example"},
		"additionalProperties": false,
	},
}
