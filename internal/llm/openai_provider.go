package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const providerNameOpenAI = "openai"

// OpenAIProvider asks OpenAI's Responses API for a structured hint
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
// Extra request options (base URL, HTTP client) are passed through to the SDK.
func NewOpenAIProvider(apiKey string, opts ...option.RequestOption) *OpenAIProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIProvider{client: &client}
}

func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

func (p *OpenAIProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	return observeCall(ctx, providerNameOpenAI, request.Model, func(ctx context.Context) (*GenerationResponse, error) {
		resp, err := p.client.Responses.New(ctx, p.buildRequestParams(request))
		if err != nil {
			return nil, fmt.Errorf("openai request failed: %w", err)
		}

		text := cleanJSONOutput(resp.OutputText())
		if text == "" {
			return nil, fmt.Errorf("openai response did not include any output text")
		}
		return &GenerationResponse{
			RawOutput: text,
			Model:     request.Model,
			Usage: Usage{
				InputTokens:     resp.Usage.InputTokens,
				OutputTokens:    resp.Usage.OutputTokens,
				ReasoningTokens: resp.Usage.OutputTokensDetails.ReasoningTokens,
				TotalTokens:     resp.Usage.TotalTokens,
			},
		}, nil
	})
}

// buildRequestParams maps system and developer messages to the developer
// role; the system prompt itself travels as Instructions.
func (p *OpenAIProvider) buildRequestParams(request *GenerationRequest) responses.ResponseNewParams {
	items := responses.ResponseInputParam{}
	for _, item := range request.InputArray {
		role, content, ok := messageText(item)
		if !ok {
			continue
		}
		roleEnum := responses.EasyInputMessageRoleUser
		if role == developerRole || role == systemRole {
			roleEnum = responses.EasyInputMessageRoleDeveloper
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(content, roleEnum))
	}

	params := responses.ResponseNewParams{
		Model:        request.Model,
		Input:        responses.ResponseNewParamsInputUnion{OfInputItemList: items},
		Instructions: openai.String(request.SystemPrompt),
	}
	if request.Temperature > 0 {
		params.Temperature = openai.Float(request.Temperature)
	}
	if schema := request.OutputSchema; schema != nil {
		format := responses.ResponseFormatTextConfigParamOfJSONSchema(schema.Name, schema.Schema)
		format.OfJSONSchema.Strict = openai.Bool(true)
		if schema.Description != "" {
			format.OfJSONSchema.Description = openai.String(schema.Description)
		}
		params.Text = responses.ResponseTextConfigParam{Format: format}
	}
	return params
}
