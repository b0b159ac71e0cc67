package analysis

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/pkg/utils"
)

const DefaultOpenAIModel = "gpt-4o-mini"

type OpenAIProvider struct {
	apiKey  string
	baseURL string
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{apiKey: apiKey, baseURL: baseURL}
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

func (o *OpenAIProvider) Generate(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	if o.apiKey == "" {
		return "", missingCredential("openai")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(o.apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		opts = append(opts, option.WithBaseURL(o.baseURL))
	}
	client := openai.NewClient(opts...)

	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: utils.EncodeDataURL(req.MIMEType, req.Data),
				}),
				openai.TextContentPart(req.Prompt),
			}),
		},
		Temperature: openai.Float(float64(req.Temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   resultSchemaName,
					Schema: resultJSONSchema(),
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", classifyCallError("openai chat completion", err, status)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
