package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/melodycraft-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetHintSystemPrompt loads the main system prompt for prompt interpretation
func (l *Loader) GetHintSystemPrompt() (string, error) {
	return strings.TrimSpace(string(embedded.HintSystemPromptTxt)), nil
}

// GetHintOutputInstructions loads the JSON answer format instructions
func (l *Loader) GetHintOutputInstructions() (string, error) {
	return strings.TrimSpace(string(embedded.HintOutputInstructionsTxt)), nil
}

// GetClosingRequest loads the sentence appended to every user prompt
func (l *Loader) GetClosingRequest() (string, error) {
	return strings.TrimSpace(string(embedded.ClosingRequestTxt)), nil
}
