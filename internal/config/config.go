package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	Image    ImageConfig
	Session  SessionConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"90s"`
	GinMode      string        `env:"GIN_MODE" envDefault:"release"`
}

type AnalysisConfig struct {
	Provider     string        `env:"ANALYSIS_PROVIDER" envDefault:"gemini"`
	APIKey       string        `env:"API_KEY"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	Model        string        `env:"ANALYSIS_MODEL"`
	BaseURL      string        `env:"ANALYSIS_BASE_URL"`
	Temperature  float32       `env:"ANALYSIS_TEMPERATURE" envDefault:"0.2"`
	Timeout      time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"60s"`
}

// Credential returns the API key for the inference endpoint, empty when none is set.
func (a AnalysisConfig) Credential() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	return a.GeminiAPIKey
}

type ImageConfig struct {
	MaxFileSize  int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10MB
	MaxDimension int   `env:"MAX_DIMENSION" envDefault:"1024"`
	JPEGQuality  int   `env:"JPEG_QUALITY" envDefault:"80"`
	MaxPixels    int64 `env:"MAX_PIXELS" envDefault:"50000000"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE" envDefault:"el_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RabbitMQConfig struct {
	URL       string `env:"RABBITMQ_URL"`
	QueueName string `env:"QUEUE_NAME" envDefault:"el_analysis"`
	Workers   int    `env:"QUEUE_WORKERS" envDefault:"2"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.Analysis.Provider = strings.ToLower(strings.TrimSpace(c.Analysis.Provider))
	switch c.Analysis.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported analysis provider %q", c.Analysis.Provider)
	}

	if c.Image.MaxDimension <= 0 {
		return fmt.Errorf("MAX_DIMENSION must be positive, got %d", c.Image.MaxDimension)
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be within 1..100, got %d", c.Image.JPEGQuality)
	}
	if c.Image.MaxPixels <= 0 {
		return fmt.Errorf("MAX_PIXELS must be positive, got %d", c.Image.MaxPixels)
	}
	if c.RabbitMQ.Workers < 1 {
		c.RabbitMQ.Workers = 1
	}

	return nil
}
