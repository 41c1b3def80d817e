package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Generate(t *testing.T) {
	var got ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             got.Model,
			"response":          "```json\n{\"mood\":\"epic\",\"tempo\":140}\n```",
			"done":              true,
			"prompt_eval_count": 30,
			"eval_count":        12,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL+"/", "llama3.2")
	resp, err := provider.Generate(context.Background(), &GenerationRequest{
		SystemPrompt: "system",
		Temperature:  0.4,
		InputArray:   []map[string]any{UserMessage("heroic march"), UserMessage("finish strongly")},
		OutputSchema: HintOutputSchema(),
	})
	require.NoError(t, err)

	assert.Equal(t, `{"mood":"epic","tempo":140}`, resp.RawOutput)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.Equal(t, Usage{InputTokens: 30, OutputTokens: 12, TotalTokens: 42}, resp.Usage)

	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "system", got.System)
	assert.Equal(t, "heroic march\n\nfinish strongly", got.Prompt)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.4, got.Options["temperature"], 1e-9)
	assert.IsType(t, map[string]any{}, got.Format)
}

func TestOllamaProvider_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			wantErr: "ollama status 404",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			wantErr: "decode",
		},
		{
			name: "empty response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"response": "  ", "done": true}`))
			},
			wantErr: "did not include any output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewOllamaProvider(server.URL, "llama3.2")
			_, err := provider.Generate(context.Background(), &GenerationRequest{
				InputArray: []map[string]any{UserMessage("x")},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOllamaProvider_RequestModelWins(t *testing.T) {
	provider := NewOllamaProvider("http://localhost:11434", "llama3.2")
	body := provider.buildRequestBody("qwen3", &GenerationRequest{})
	assert.Equal(t, "qwen3", body.Model)
	assert.Equal(t, "json", body.Format)
	assert.Nil(t, body.Options)
}

func TestOllamaProvider_Available(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.True(t, NewOllamaProvider(server.URL, "").Available(context.Background()))
	server.Close()
	assert.False(t, NewOllamaProvider(server.URL, "").Available(context.Background()))
}
