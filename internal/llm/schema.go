package llm

const (
	hintTempoMin = 40
	hintTempoMax = 220

	HintSchemaName = "melody_hint"
)

// GetHintOutputSchema returns the JSON schema for prompt interpretation output.
// OpenAI strict mode requires additionalProperties: false and every property
// listed in required, so optional values are expressed as empty strings or 0.
func GetHintOutputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mood": map[string]any{
				"type":        "string",
				"description": "One of bright, calm, dark, epic, or empty when unclear",
			},
			"key": map[string]any{
				"type":        "string",
				"description": "Tonic letter with optional m for minor, e.g. C, G, Am",
			},
			"tempo": map[string]any{
				"type":        "integer",
				"description": "Quarter-note beats per minute",
				"minimum":     hintTempoMin,
				"maximum":     hintTempoMax,
			},
			"meter": map[string]any{
				"type":        "string",
				"description": "Time signature such as 4/4 or 3/4",
			},
			"instruments": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"mood", "key", "tempo", "meter", "instruments"},
		"additionalProperties": false,
	}
}

// HintOutputSchema wraps the hint schema for a GenerationRequest
func HintOutputSchema() *OutputSchema {
	return &OutputSchema{
		Name:        HintSchemaName,
		Description: "Musical parameters suggested for a melody prompt",
		Schema:      GetHintOutputSchema(),
	}
}
