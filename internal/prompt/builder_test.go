package prompt

import (
	"strings"
	"testing"
)

func TestNewPromptBuilder(t *testing.T) {
	builder := NewPromptBuilder()
	if builder == nil {
		t.Fatal("NewPromptBuilder() returned nil")
		return
	}
	if builder.loader == nil {
		t.Fatal("NewPromptBuilder() created builder with nil loader")
	}
}

func TestBuildPrompt(t *testing.T) {
	builder := NewPromptBuilder()
	prompt, err := builder.BuildPrompt([]string{"bright", "calm"}, []string{"piano", "cello"})

	if err != nil {
		t.Fatalf("BuildPrompt() returned error: %v", err)
	}

	if !strings.Contains(prompt, "music composition assistant") {
		t.Error("BuildPrompt() does not contain system prompt content")
	}
	if !strings.Contains(prompt, "Known moods: bright, calm") {
		t.Error("BuildPrompt() does not list moods")
	}
	if !strings.Contains(prompt, "Available instruments: piano, cello") {
		t.Error("BuildPrompt() does not list instruments")
	}
	if !strings.HasSuffix(prompt, "empty list for anything the prompt does not suggest.") {
		t.Error("BuildPrompt() should end with the output instructions")
	}
}

func TestBuildPromptWithoutVocabulary(t *testing.T) {
	builder := NewPromptBuilder()
	prompt, err := builder.BuildPrompt(nil, nil)

	if err != nil {
		t.Fatalf("BuildPrompt() returned error: %v", err)
	}
	if strings.Contains(prompt, "Known moods") || strings.Contains(prompt, "Available instruments") {
		t.Error("BuildPrompt() listed empty vocabularies")
	}
}

func TestBuildUserInput(t *testing.T) {
	builder := NewPromptBuilder()
	input, err := builder.BuildUserInput("  비 오는 날의 잔잔한 피아노 ")

	if err != nil {
		t.Fatalf("BuildUserInput() returned error: %v", err)
	}
	if !strings.HasPrefix(input, "비 오는 날의 잔잔한 피아노\n\n(") {
		t.Errorf("BuildUserInput() = %q", input)
	}
}
