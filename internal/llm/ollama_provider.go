package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	providerNameOllama = "ollama"

	// first call loads the model into memory
	ollamaHTTPTimeout = 120 * time.Second
)

// OllamaProvider talks to a local Ollama server over its HTTP API
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaProvider creates an Ollama provider. model is used when a request
// does not name one.
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: ollamaHTTPTimeout},
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Format  any            `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int64  `json:"prompt_eval_count"`
	EvalCount       int64  `json:"eval_count"`
}

func (p *OllamaProvider) Name() string {
	return providerNameOllama
}

// Available reports whether the server answers /api/tags
func (p *OllamaProvider) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (p *OllamaProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	model := request.Model
	if model == "" {
		model = p.model
	}
	return observeCall(ctx, providerNameOllama, model, func(ctx context.Context) (*GenerationResponse, error) {
		result, err := p.post(ctx, p.buildRequestBody(model, request))
		if err != nil {
			return nil, err
		}

		text := cleanJSONOutput(result.Response)
		if text == "" {
			return nil, fmt.Errorf("ollama response did not include any output text")
		}
		return &GenerationResponse{
			RawOutput: text,
			Model:     model,
			Usage: Usage{
				InputTokens:  result.PromptEvalCount,
				OutputTokens: result.EvalCount,
				TotalTokens:  result.PromptEvalCount + result.EvalCount,
			},
		}, nil
	})
}

func (p *OllamaProvider) post(ctx context.Context, body ollamaGenerateRequest) (*ollamaGenerateResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", mimeTypeJSON)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(raw), maxPreviewChars))
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &result, nil
}

// buildRequestBody joins every message into one prompt; Format falls back to
// plain JSON mode when no schema is given
func (p *OllamaProvider) buildRequestBody(model string, request *GenerationRequest) ollamaGenerateRequest {
	var parts []string
	for _, item := range request.InputArray {
		if content, ok := item["content"].(string); ok && content != "" {
			parts = append(parts, content)
		}
	}

	body := ollamaGenerateRequest{
		Model:  model,
		Prompt: strings.Join(parts, "\n\n"),
		System: request.SystemPrompt,
		Format: "json",
	}
	if request.Temperature > 0 {
		body.Options = map[string]any{"temperature": request.Temperature}
	}
	if request.OutputSchema != nil {
		body.Format = request.OutputSchema.Schema
	}
	return body
}
