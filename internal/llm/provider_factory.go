package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory creates providers based on model name or explicit provider choice
type ProviderFactory struct {
	openaiAPIKey string
	geminiAPIKey string
	ollamaURL    string
	ollamaModel  string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, geminiAPIKey, ollamaURL, ollamaModel string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		geminiAPIKey: geminiAPIKey,
		ollamaURL:    ollamaURL,
		ollamaModel:  ollamaModel,
	}
}

// GetProvider returns the appropriate provider for the given model/provider name
func (f *ProviderFactory) GetProvider(ctx context.Context, model, providerName string) (Provider, error) {
	if providerName != "" {
		return f.getProviderByName(ctx, providerName)
	}
	return f.getProviderByModel(ctx, model)
}

// getProviderByName creates a provider by explicit name
func (f *ProviderFactory) getProviderByName(ctx context.Context, providerName string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case providerNameOpenAI:
		if f.openaiAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		return NewOpenAIProvider(f.openaiAPIKey), nil

	case providerNameGemini:
		if f.geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		return NewGeminiProvider(ctx, f.geminiAPIKey)

	case providerNameOllama:
		if f.ollamaURL == "" {
			return nil, fmt.Errorf("ollama URL not configured")
		}
		return NewOllamaProvider(f.ollamaURL, f.ollamaModel), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: openai, gemini, ollama)", providerName)
	}
}

// getProviderByModel infers provider from model name
func (f *ProviderFactory) getProviderByModel(ctx context.Context, model string) (Provider, error) {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "gpt-"), strings.HasPrefix(modelLower, "o1"),
		strings.HasPrefix(modelLower, "o3"), strings.HasPrefix(modelLower, "o4"):
		return f.getProviderByName(ctx, providerNameOpenAI)
	case strings.HasPrefix(modelLower, "gemini-"):
		return f.getProviderByName(ctx, providerNameGemini)
	}

	// Unknown models go to whichever backend is configured, OpenAI first
	switch {
	case f.openaiAPIKey != "":
		return NewOpenAIProvider(f.openaiAPIKey), nil
	case f.ollamaURL != "":
		return NewOllamaProvider(f.ollamaURL, f.ollamaModel), nil
	default:
		return nil, fmt.Errorf("no provider configured for model %q", model)
	}
}
