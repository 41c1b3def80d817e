package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name         string
	generateFunc func(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, request)
	}
	return &GenerationResponse{}, nil
}

func TestProviderInterface(t *testing.T) {
	var provider Provider = &MockProvider{name: "mock"}
	assert.Equal(t, "mock", provider.Name())
}

func TestMockProviderGenerate(t *testing.T) {
	callCount := 0
	mock := &MockProvider{
		name: "test",
		generateFunc: func(_ context.Context, request *GenerationRequest) (*GenerationResponse, error) {
			callCount++
			require.Equal(t, "test-model", request.Model)
			return &GenerationResponse{RawOutput: `{"mood":"dark"}`}, nil
		},
	}

	resp, err := mock.Generate(context.Background(), &GenerationRequest{Model: "test-model"})
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, `{"mood":"dark"}`, resp.RawOutput)
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage("hello")
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "hello", msg["content"])
}

func TestHintOutputSchema(t *testing.T) {
	schema := HintOutputSchema()
	require.NotNil(t, schema)
	assert.Equal(t, HintSchemaName, schema.Name)

	props, ok := schema.Schema["properties"].(map[string]any)
	require.True(t, ok)
	required, ok := schema.Schema["required"].([]string)
	require.True(t, ok)

	// strict mode: every property is required
	assert.Len(t, required, len(props))
	for _, name := range required {
		assert.Contains(t, props, name)
	}
	assert.Equal(t, false, schema.Schema["additionalProperties"])
}

func TestProviderFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit openai", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "", "", "")
		p, err := f.GetProvider(ctx, "", "OpenAI")
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("explicit provider without credentials", func(t *testing.T) {
		f := NewProviderFactory("", "", "", "")
		for _, name := range []string{"openai", "gemini", "ollama"} {
			_, err := f.GetProvider(ctx, "", name)
			assert.Error(t, err, name)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "", "", "")
		_, err := f.GetProvider(ctx, "", "anthropic")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown provider")
	})

	t.Run("inferred from model", func(t *testing.T) {
		f := NewProviderFactory("sk-test", "", "http://localhost:11434", "llama3.2")
		p, err := f.GetProvider(ctx, "gpt-4o-mini", "")
		require.NoError(t, err)
		assert.Equal(t, "openai", p.Name())
	})

	t.Run("unknown model falls back to ollama", func(t *testing.T) {
		f := NewProviderFactory("", "", "http://localhost:11434", "llama3.2")
		p, err := f.GetProvider(ctx, "qwen3", "")
		require.NoError(t, err)
		assert.Equal(t, "ollama", p.Name())
	})

	t.Run("nothing configured", func(t *testing.T) {
		f := NewProviderFactory("", "", "", "")
		_, err := f.GetProvider(ctx, "qwen3", "")
		assert.Error(t, err)
	})
}
