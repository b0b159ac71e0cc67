package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/phambaophuc/el-inspector/pkg/utils"
	"go.uber.org/zap"
)

// Provider is a multimodal inference endpoint that answers with JSON text
// matching the AnalysisResult schema.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *models.AnalysisRequest) (string, error)
}

type Client struct {
	provider    Provider
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

type ClientOptions struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
}

func NewClient(provider Provider, opts ClientOptions, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultTemperature
	}
	return &Client{
		provider:    provider,
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger,
	}
}

func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// ParseDataURL extracts the MIME type and image bytes from data:<mime>;base64,<data>.
func ParseDataURL(dataURL string) (string, []byte, error) {
	mimeType, data, err := utils.DecodeDataURL(dataURL)
	if err != nil {
		return "", nil, inputError("parse image", fmt.Errorf("%w: %v", ErrInvalidImageFormat, err))
	}
	return mimeType, data, nil
}

// Analyze classifies the image in dataURL. A single attempt is made.
func (c *Client) Analyze(ctx context.Context, dataURL string) (*models.AnalysisResult, error) {
	mimeType, data, err := ParseDataURL(dataURL)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := &models.AnalysisRequest{
		MIMEType:    mimeType,
		Data:        data,
		Prompt:      Instruction,
		Model:       c.model,
		Temperature: c.temperature,
	}

	start := time.Now()
	text, err := c.provider.Generate(ctx, req)
	if err != nil {
		if KindOf(err) == KindUnknown {
			err = classifyCallError("generate", err, 0)
		}
		c.logger.Error("Analysis call failed",
			zap.String("provider", c.provider.Name()),
			zap.String("kind", KindOf(err).String()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	result, err := DecodeResult(text)
	if err != nil {
		c.logger.Warn("Analysis response rejected",
			zap.String("provider", c.provider.Name()),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("Analysis completed",
		zap.String("provider", c.provider.Name()),
		zap.String("category", string(result.Category)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("latency", time.Since(start)))

	return result, nil
}

// DecodeResult parses the provider's JSON text into an AnalysisResult.
func DecodeResult(text string) (*models.AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, contractError("decode response", ErrEmptyResponse)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, contractError("decode response", fmt.Errorf("failed to parse analysis response: %w", err))
	}

	if !result.Category.Valid() {
		return nil, contractError("decode response", fmt.Errorf("%w: %q", ErrUnknownCategory, result.Category))
	}

	return &result, nil
}
