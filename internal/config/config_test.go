package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TARGET_URL", "https://forum.example.com")
	t.Setenv("LLM_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLMModel)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLMBaseURL)
	assert.Equal(t, 240*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.BackoffBase)
	assert.Equal(t, 20, cfg.MaxSteps)
	assert.Equal(t, "worker-report", cfg.ReportDir)
	assert.Equal(t, "advice.md", cfg.AdviceFile)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.True(t, cfg.BrowserHeadless)
	assert.False(t, cfg.AdviceUseLLM)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_TIMEOUT_SEC", "60")
	t.Setenv("MAX_ATTEMPTS", "5")
	t.Setenv("BROWSER_WS_URL", "wss://connect.example.dev?apiKey=abc")
	t.Setenv("ADVICE_USE_LLM", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, "wss://connect.example.dev?apiKey=abc", cfg.BrowserWSURL)
	assert.True(t, cfg.AdviceUseLLM)
}

func TestLoadRequiredFields(t *testing.T) {
	t.Setenv("TARGET_URL", "")
	t.Setenv("LLM_API_KEY", "key")
	_, err := Load()
	assert.ErrorContains(t, err, "TARGET_URL")

	t.Setenv("TARGET_URL", "https://forum.example.com")
	t.Setenv("LLM_API_KEY", "")
	_, err = Load()
	assert.ErrorContains(t, err, "LLM_API_KEY")
}

func TestLoadGarbageNumbersFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_ATTEMPTS", "many")
	t.Setenv("WORKER_TIMEOUT_SEC", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 240*time.Second, cfg.AttemptTimeout)
}

func TestLoadClampsNonPositive(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_ATTEMPTS", "0")
	t.Setenv("MAX_STEPS", "-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 1, cfg.MaxSteps)
}
