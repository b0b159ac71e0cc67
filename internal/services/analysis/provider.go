package analysis

import (
	"fmt"

	"github.com/phambaophuc/el-inspector/internal/config"
)

// NewProvider builds the provider selected in cfg. A missing credential is not
// an error here; it fails each analysis call instead.
func NewProvider(cfg config.AnalysisConfig) (Provider, error) {
	key := cfg.Credential()

	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiProvider(key, cfg.BaseURL), nil
	case "openai":
		return NewOpenAIProvider(key, cfg.BaseURL), nil
	case "anthropic":
		return NewAnthropicProvider(key, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported analysis provider %q", cfg.Provider)
	}
}
