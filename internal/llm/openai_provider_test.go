package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIProvider(t *testing.T) {
	provider := NewOpenAIProvider("test-api-key")
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
	assert.NotNil(t, provider.client)
}

func TestOpenAIProvider_BuildRequestParams(t *testing.T) {
	provider := NewOpenAIProvider("test-key")

	tests := []struct {
		name    string
		request *GenerationRequest
		checks  func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest)
	}{
		{
			name: "basic request with user message",
			request: &GenerationRequest{
				Model:        "gpt-4o-mini",
				SystemPrompt: "test system prompt",
				InputArray:   []map[string]any{UserMessage("test content")},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Equal(t, "gpt-4o-mini", params.Model)
				assert.Equal(t, "test system prompt", params.Instructions.Value)
				assert.Len(t, params.Input.OfInputItemList, 1)
				assert.False(t, params.Temperature.Valid())
			},
		},
		{
			name: "invalid input items are skipped",
			request: &GenerationRequest{
				Model: "gpt-4o-mini",
				InputArray: []map[string]any{
					{"role": "developer", "content": "dev message"},
					{"role": "user"},
				},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.Len(t, params.Input.OfInputItemList, 1)
			},
		},
		{
			name: "temperature is forwarded",
			request: &GenerationRequest{
				Model:       "gpt-4o-mini",
				Temperature: 0.4,
				InputArray:  []map[string]any{UserMessage("x")},
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				assert.InDelta(t, 0.4, params.Temperature.Value, 1e-9)
			},
		},
		{
			name: "request with hint schema",
			request: &GenerationRequest{
				Model:        "gpt-4o-mini",
				InputArray:   []map[string]any{UserMessage("test")},
				OutputSchema: HintOutputSchema(),
			},
			checks: func(t *testing.T, provider *OpenAIProvider, request *GenerationRequest) {
				t.Helper()
				params := provider.buildRequestParams(request)
				require.NotNil(t, params.Text.Format.OfJSONSchema)
				assert.Equal(t, HintSchemaName, params.Text.Format.OfJSONSchema.Name)
				assert.True(t, params.Text.Format.OfJSONSchema.Strict.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checks(t, provider, tt.request)
		})
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"model": "gpt-4o-mini",
			"status": "completed",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"role": "assistant",
				"status": "completed",
				"content": [{"type": "output_text", "text": "{\"mood\":\"calm\",\"tempo\":90}", "annotations": []}]
			}],
			"usage": {
				"input_tokens": 12,
				"input_tokens_details": {"cached_tokens": 0},
				"output_tokens": 8,
				"output_tokens_details": {"reasoning_tokens": 0},
				"total_tokens": 20
			}
		}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", option.WithBaseURL(server.URL+"/v1/"), option.WithMaxRetries(0))

	resp, err := provider.Generate(context.Background(), &GenerationRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "system",
		Temperature:  0.4,
		InputArray:   []map[string]any{UserMessage("a calm night")},
		OutputSchema: HintOutputSchema(),
	})
	require.NoError(t, err)

	assert.Equal(t, `{"mood":"calm","tempo":90}`, resp.RawOutput)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, int64(12), resp.Usage.InputTokens)
	assert.Equal(t, int64(20), resp.Usage.TotalTokens)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, "system", gotBody["instructions"])
	assert.InDelta(t, 0.4, gotBody["temperature"], 1e-9)
}

func TestOpenAIProvider_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "bad request", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", option.WithBaseURL(server.URL+"/v1/"), option.WithMaxRetries(0))
	_, err := provider.Generate(context.Background(), &GenerationRequest{
		Model:      "gpt-4o-mini",
		InputArray: []map[string]any{UserMessage("x")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai request failed")
}

func TestCleanJSONOutput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"  \n ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSONOutput(tt.in))
	}
}
