package draft

import "github.com/abhisek/exambank/internal/llm"

// BatchSchema is the reply shape requested from the model: a list of
// candidate questions for one topic and type.
var BatchSchema = &llm.Schema{
	Name:        "exam-question-batch",
	Description: "New exam questions for one topic and question type",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short unique label for the question, a few words",
						},
						"wording": map[string]any{
							"type":        "string",
							"description": "The question as printed on the exam",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options for multiple_choice; empty for other types",
						},
						"solution": map[string]any{
							"type":        "string",
							"description": "true or false, the text of the correct choice, or a number",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the solution is correct",
						},
					},
					"required":             []any{"title", "wording", "choices", "solution", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// candidate is one question as returned by the model.
type candidate struct {
	Title       string   `json:"title"`
	Wording     string   `json:"wording"`
	Choices     []string `json:"choices"`
	Solution    string   `json:"solution"`
	Explanation string   `json:"explanation"`
}

type batch struct {
	Questions []candidate `json:"questions"`
}
