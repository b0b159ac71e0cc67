package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "gemini", cfg.Analysis.Provider)
	require.InDelta(t, 0.2, float64(cfg.Analysis.Temperature), 1e-6)
	require.Equal(t, 60*time.Second, cfg.Analysis.Timeout)
	require.Equal(t, 1024, cfg.Image.MaxDimension)
	require.Equal(t, 80, cfg.Image.JPEGQuality)
	require.Equal(t, int64(10<<20), cfg.Image.MaxFileSize)
	require.Equal(t, int64(50_000_000), cfg.Image.MaxPixels)
	require.Equal(t, "el_session", cfg.Session.CookieName)
	require.Empty(t, cfg.Redis.Addr)
	require.Empty(t, cfg.RabbitMQ.URL)
	require.Empty(t, cfg.Analysis.Credential())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ANALYSIS_PROVIDER", " OpenAI ")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("SESSION_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "openai", cfg.Analysis.Provider)
	require.Equal(t, 15*time.Minute, cfg.Session.TTL)
	require.Equal(t, "gem-key", cfg.Analysis.Credential())

	t.Setenv("API_KEY", "primary")
	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, "primary", cfg.Analysis.Credential())
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("ANALYSIS_PROVIDER", "llama")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadQuality(t *testing.T) {
	t.Setenv("JPEG_QUALITY", "0")

	_, err := Load()
	require.Error(t, err)
}
