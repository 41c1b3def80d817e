package prompt

import (
	"fmt"
	"strings"
)

// Builder assembles the system prompt and input messages for hint requests
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// BuildPrompt builds the complete system prompt. moods and instruments are
// the vocabularies the generator understands; empty lists are left out.
func (b *Builder) BuildPrompt(moods, instruments []string) (string, error) {
	system, err := b.loader.GetHintSystemPrompt()
	if err != nil {
		return "", fmt.Errorf("failed to load system prompt: %w", err)
	}
	output, err := b.loader.GetHintOutputInstructions()
	if err != nil {
		return "", fmt.Errorf("failed to load output instructions: %w", err)
	}

	sections := []string{system}
	if len(moods) > 0 {
		sections = append(sections, "Known moods: "+strings.Join(moods, ", "))
	}
	if len(instruments) > 0 {
		sections = append(sections, "Available instruments: "+strings.Join(instruments, ", "))
	}
	sections = append(sections, output)

	return strings.Join(sections, "\n\n"), nil
}

// BuildUserInput wraps the user's prompt with the closing request
func (b *Builder) BuildUserInput(userPrompt string) (string, error) {
	closing, err := b.loader.GetClosingRequest()
	if err != nil {
		return "", fmt.Errorf("failed to load closing request: %w", err)
	}
	return strings.TrimSpace(userPrompt) + "\n\n" + closing, nil
}
