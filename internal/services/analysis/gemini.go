package analysis

import (
	"context"
	"errors"

	"github.com/phambaophuc/el-inspector/internal/models"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-3-flash-preview"

type GeminiProvider struct {
	apiKey  string
	baseURL string
}

func NewGeminiProvider(apiKey, baseURL string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, baseURL: baseURL}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	if g.apiKey == "" {
		return "", missingCredential("gemini")
	}

	cfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", &Error{Kind: KindConfiguration, Op: "gemini client", Err: err}
	}

	model := req.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Data, req.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiResultSchema(),
		Temperature:      genai.Ptr(req.Temperature),
	})
	if err != nil {
		return "", classifyCallError("gemini generate", err, geminiStatus(err))
	}

	return resp.Text(), nil
}

// geminiStatus extracts the HTTP status from an SDK error, 0 when absent.
func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func geminiResultSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {
				Type:        genai.TypeString,
				Enum:        models.CategoryNames(),
				Description: categoryDescription,
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: confidenceDescription,
			},
			"description": {
				Type:        genai.TypeString,
				Description: descriptionDescription,
			},
			"recommendation": {
				Type:        genai.TypeString,
				Description: recommendationDescription,
			},
		},
		Required: requiredFields,
	}
}
