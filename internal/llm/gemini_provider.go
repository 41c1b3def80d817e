package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider asks Google's Gemini API for a structured hint
type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

func (p *GeminiProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	return observeCall(ctx, providerNameGemini, request.Model, func(ctx context.Context) (*GenerationResponse, error) {
		contents := p.buildGeminiContents(request.InputArray)
		if len(contents) == 0 {
			return nil, fmt.Errorf("gemini request has no usable input messages")
		}

		result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, p.buildConfig(request))
		if err != nil {
			return nil, fmt.Errorf("gemini request failed: %w", err)
		}
		return geminiResponse(result, request.Model)
	})
}

func (p *GeminiProvider) buildConfig(request *GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(request.SystemPrompt, genai.RoleUser),
	}
	if request.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(request.Temperature))
	}
	if request.OutputSchema != nil {
		config.ResponseMIMEType = mimeTypeJSON
		config.ResponseSchema = convertSchemaToGemini(request.OutputSchema.Schema)
	}
	return config
}

// buildGeminiContents sends every message as a user turn; Gemini only
// knows "user" and "model"
func (p *GeminiProvider) buildGeminiContents(inputArray []map[string]any) []*genai.Content {
	var contents []*genai.Content
	for _, item := range inputArray {
		if _, content, ok := messageText(item); ok {
			contents = append(contents, genai.NewContentFromText(content, geminiUserRole))
		}
	}
	return contents
}

func geminiResponse(result *genai.GenerateContentResponse, model string) (*GenerationResponse, error) {
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no parts in Gemini response")
	}

	text := cleanJSONOutput(candidate.Content.Parts[0].Text)
	if text == "" {
		return nil, fmt.Errorf("gemini response did not include any output text")
	}

	resp := &GenerationResponse{RawOutput: text, Model: model}
	if meta := result.UsageMetadata; meta != nil {
		resp.Usage = Usage{
			InputTokens:     int64(meta.PromptTokenCount),
			OutputTokens:    int64(meta.CandidatesTokenCount),
			ReasoningTokens: int64(meta.ThoughtsTokenCount),
			TotalTokens:     int64(meta.TotalTokenCount),
		}
	}
	return resp, nil
}

var geminiTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
}

// convertSchemaToGemini maps the subset of JSON Schema we emit onto genai.Schema
func convertSchemaToGemini(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	kind, _ := schema["type"].(string)
	out := &genai.Schema{Type: genai.TypeString}
	if t, ok := geminiTypes[kind]; ok {
		out.Type = t
	}
	out.Description, _ = schema["description"].(string)

	if props, ok := schema["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]any); ok {
				out.Properties[name] = convertSchemaToGemini(child)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		out.Items = convertSchemaToGemini(items)
	}
	if required, ok := schema["required"].([]string); ok {
		out.Required = append([]string(nil), required...)
	}
	if enum, ok := schema["enum"].([]string); ok {
		out.Enum = append([]string(nil), enum...)
	}
	return out
}
