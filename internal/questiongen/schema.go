package questiongen

import "github.com/abhisek/satprep/internal/llm"

var questionSchema = &llm.Schema{
	Name:        "sat-question",
	Description: "One SAT multiple-choice practice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "Question prompt shown to the student",
			},
			"passage": map[string]any{
				"type":        "string",
				"description": "Passage the question refers to, or empty",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    4,
				"maxItems":    4,
				"description": "Exactly four answer options",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "Text of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the answer is correct",
			},
			"difficulty": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": 3,
			},
		},
		"required":             []any{"question", "passage", "options", "answer", "explanation", "difficulty"},
		"additionalProperties": false,
	},
}
