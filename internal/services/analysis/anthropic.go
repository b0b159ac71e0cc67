package analysis

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/phambaophuc/el-inspector/internal/models"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	anthropicMaxTokens    = 1024
)

// AnthropicProvider forces a single tool call whose input schema is the
// result schema, and returns the tool input as the JSON answer.
type AnthropicProvider struct {
	apiKey  string
	baseURL string
}

func NewAnthropicProvider(apiKey, baseURL string) *AnthropicProvider {
	return &AnthropicProvider{apiKey: apiKey, baseURL: baseURL}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

func (a *AnthropicProvider) Generate(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	if a.apiKey == "" {
		return "", missingCredential("anthropic")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(a.apiKey),
		option.WithMaxRetries(0),
	}
	if a.baseURL != "" {
		opts = append(opts, option.WithBaseURL(a.baseURL))
	}
	client := anthropic.NewClient(opts...)

	model := req.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	tool := anthropic.ToolParam{
		Name:        resultToolName,
		Description: anthropic.String("Record the defect classification of the EL image."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: resultProperties(),
			Required:   requiredFields,
		},
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(req.MIMEType, base64.StdEncoding.EncodeToString(req.Data)),
				anthropic.NewTextBlock(req.Prompt),
			),
		},
		Tools: []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: resultToolName},
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", classifyCallError("anthropic message", err, status)
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" {
			return string(block.AsToolUse().Input), nil
		}
	}
	return "", nil
}
