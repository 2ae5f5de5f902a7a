package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
hosted_llm:
  base_url: "https://example.com/generate"
  token_url: "https://example.com/token"
  model: "test-model"
  temperature: 0.5
parser:
  use_llm: true
  min_confidence: 0.7
rate_limits:
  local_nlp: 5
  hosted_llm: 2
server:
  address: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/generate", cfg.HostedLLM.BaseURL)
	assert.Equal(t, "test-model", cfg.HostedLLM.Model)
	assert.Equal(t, 0.7, cfg.Parser.MinConfidence)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5, cfg.RateLimitFor("local_nlp"))
	assert.Equal(t, 2, cfg.RateLimitFor("hosted_llm"))
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \":8081\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.60, cfg.Parser.MinConfidence)
	assert.Equal(t, 0.65, cfg.Parser.ReviewThreshold)
	assert.Equal(t, 60, cfg.Parser.MaxSkills)
	assert.Equal(t, 60, cfg.NLPWorker.NERTimeoutSeconds)
	assert.Equal(t, 90, cfg.NLPWorker.EmbedTimeoutSeconds)
	assert.Equal(t, 30, cfg.NLPWorker.ClassifyTimeoutSeconds)
	assert.Equal(t, 6000, cfg.NLPWorker.SpoolThresholdBytes)
	assert.Equal(t, 384, cfg.Qdrant.Dimension)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("LLM_PROJECT_ID", "env-project")

	cfg := DefaultConfig()

	assert.Equal(t, "env-key", cfg.HostedLLM.APIKey)
	assert.Equal(t, "env-project", cfg.HostedLLM.ProjectID)
	assert.True(t, cfg.HasLLMCredentials())
}

func TestHasLLMCredentials(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.HasLLMCredentials())

	cfg.HostedLLM.APIKey = "key"
	assert.False(t, cfg.HasLLMCredentials())

	cfg.HostedLLM.ProjectID = "proj"
	assert.True(t, cfg.HasLLMCredentials())
}

func TestRateLimitForFallsBackToDefaults(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 30, cfg.RateLimitFor("local_nlp"))
	assert.Equal(t, 10, cfg.RateLimitFor("hosted_llm"))
	assert.Equal(t, 30, cfg.RateLimitFor("unknown_provider"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, int64(5000), GetDuration("5s", 0).Milliseconds())
	assert.Equal(t, int64(1000), GetDuration("", 1000000000).Milliseconds())
	assert.Equal(t, int64(1000), GetDuration("bogus", 1000000000).Milliseconds())
}
