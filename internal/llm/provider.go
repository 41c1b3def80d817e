package llm

import (
	"context"
)

// Provider defines the interface for LLM providers that interpret prompts.
// Providers MUST honor OutputSchema so the hint JSON can be parsed reliably.
type Provider interface {
	// Generate sends the request and returns the raw structured output
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini", "ollama")
	Name() string
}

// GenerationRequest contains all parameters needed for one call
type GenerationRequest struct {
	Model        string
	InputArray   []map[string]any
	SystemPrompt string
	Temperature  float64
	// Structured output schema - REQUIRED for reliable JSON parsing
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// Usage is the provider-neutral token accounting for one call
type Usage struct {
	InputTokens     int64 `json:"input_tokens"`
	OutputTokens    int64 `json:"output_tokens"`
	ReasoningTokens int64 `json:"reasoning_tokens,omitempty"`
	TotalTokens     int64 `json:"total_tokens"`
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	RawOutput string `json:"-"` // JSON text output, parsed by the caller
	Model     string `json:"model"`
	Usage     Usage  `json:"usage"`
}

const (
	userRole      = "user"
	developerRole = "developer"
	systemRole    = "system"
)

// UserMessage builds a single input item in the shape providers accept
func UserMessage(content string) map[string]any {
	return map[string]any{"role": userRole, "content": content}
}
