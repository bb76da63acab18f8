package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.LLM.AnthropicModel)
	assert.Equal(t, "https://api.fireflies.ai/graphql", cfg.Fireflies.BaseURL)
	assert.Equal(t, 50, cfg.Fireflies.FetchLimit)
	assert.Equal(t, 30, cfg.Fireflies.LookbackDays)
	assert.Equal(t, "sandler", cfg.Webhook.DefaultMethodology)
	assert.Equal(t, time.Duration(0), cfg.Sync.Interval)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
	assert.Equal(t, "salescoach", cfg.NATS.SubjectPrefix)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("SYNC_INTERVAL", "15m")
	t.Setenv("SYNC_CONCURRENCY", "2")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/coach")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, 15*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 2, cfg.Sync.Concurrency)
	assert.Equal(t, "postgres://u:p@db:5432/coach", cfg.GetDatabaseDSN())
	assert.Equal(t, "cache:6379", cfg.GetRedisAddr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "every hour")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		LLM:  LLMConfig{Provider: ProviderAnthropic},
		Sync: SyncConfig{Concurrency: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.LLM.AnthropicAPIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	cfg.Webhook.DefaultAccountID = "acme"
	assert.Error(t, cfg.Validate())

	cfg.Webhook.DefaultAccountID = "6f1c1f43-8d8e-4a53-9a39-7d0f1b1f2a10"
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.WebhookDefaultAccount())
	assert.Equal(t, "6f1c1f43-8d8e-4a53-9a39-7d0f1b1f2a10", cfg.WebhookDefaultAccount().String())

	cfg.LLM.Provider = "openai"
	assert.Error(t, cfg.Validate())
}

func TestGetRedisAddr_EmptyWhenUnset(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.GetRedisAddr())
	assert.Nil(t, cfg.WebhookDefaultAccount())
}
