package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.InferenceBackend)
	assert.Equal(t, 2, cfg.MaxAnalyzeImages)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("INFERENCE_BACKEND", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test123")
	t.Setenv("MAX_ANALYZE_IMAGES", "3")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "anthropic", cfg.InferenceBackend)
	assert.Equal(t, "sk-test123", cfg.AnthropicAPIKey)
	assert.Equal(t, 3, cfg.MaxAnalyzeImages)
}

func TestLoadAllowedOrigins(t *testing.T) {
	cfg := Load()
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", "https://app.masar.example, https://staging.masar.example,")
	cfg = Load()
	assert.Equal(t, []string{"https://app.masar.example", "https://staging.masar.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsBadImageCap(t *testing.T) {
	t.Setenv("MAX_ANALYZE_IMAGES", "zero")
	assert.Equal(t, 2, Load().MaxAnalyzeImages)

	t.Setenv("MAX_ANALYZE_IMAGES", "0")
	assert.Equal(t, 2, Load().MaxAnalyzeImages)
}
