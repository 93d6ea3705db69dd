package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("RECRUITER_AI_APIKEY", "env-key")

	path := writeConfigFile(t, `
ai:
  model: gemini-2.5-flash
  interview:
    model: gemini-2.5-pro
    temperature: 0.9
store:
  driver: memory
app:
  plan: pro
  maxTokens: 3000
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "pro", cfg.App.Plan)
	assert.Equal(t, 3000, cfg.App.MaxTokens)
	assert.Equal(t, "recruiter", cfg.Observability.ServiceName)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	interview := cfg.GetOperationConfig(OperationInterview)
	assert.Equal(t, "gemini", interview.Provider)
	assert.Equal(t, "gemini-2.5-pro", interview.Model)
	assert.InDelta(t, 0.9, *interview.Temperature, 0.001)
	assert.Equal(t, "env-key", interview.APIKey)

	analyze := cfg.GetOperationConfig(OperationAnalyze)
	assert.Equal(t, "gemini-2.5-flash", analyze.Model)
	assert.Equal(t, 90*time.Second, *analyze.Timeout)
	assert.True(t, analyze.CircuitBreaker.Enabled)
}

func TestLoadConfigFileMissingKey(t *testing.T) {
	t.Setenv("RECRUITER_AI_APIKEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := LoadConfigFile(writeConfigFile(t, "store:\n  driver: memory\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestLoadConfigFileProviderKeyFallback(t *testing.T) {
	t.Setenv("RECRUITER_AI_APIKEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := LoadConfigFile(writeConfigFile(t, "ai:\n  provider: openai\n  model: gpt-4o-mini\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.GetOperationConfig(OperationEmail).APIKey)
}

func validConfig() *Config {
	timeout := 30 * time.Second
	return &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "m",
			APIKey:   "k",
			Timeout:  timeout,
		},
		Store:  StoreConfig{Driver: "sqlite"},
		Server: ServerConfig{Port: "8080"},
		App: AppConfig{
			Plan:             "free",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "yaml"},
		},
	}
}

func TestValidate(t *testing.T) {
	negative := -time.Second

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Email.Provider = "llama" }, wantErr: "unsupported AI provider"},
		{name: "missing key", mutate: func(c *Config) { c.AI.APIKey = "" }, wantErr: "API key is required"},
		{name: "operation key only", mutate: func(c *Config) {
			c.AI.APIKey = ""
			for _, op := range Operations {
				c.operation(op).APIKey = "op-key"
			}
		}},
		{name: "non-positive timeout", mutate: func(c *Config) { c.AI.Answer.Timeout = &negative }, wantErr: "timeout"},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, wantErr: "store driver"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = "postgres" }, wantErr: "dsn"},
		{name: "archive without bucket", mutate: func(c *Config) { c.Archive.Enabled = true }, wantErr: "bucket"},
		{name: "unknown plan", mutate: func(c *Config) { c.App.Plan = "platinum" }, wantErr: "unknown plan"},
		{name: "unknown format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: "default format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetOperationConfigUnknownOperation(t *testing.T) {
	cfg := validConfig()
	op := cfg.GetOperationConfig("summarize")
	assert.Equal(t, "gemini", op.Provider)
	assert.Equal(t, "k", op.APIKey)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
	assert.Nil(t, splitAndTrim(""))
}

func TestNextSettings(t *testing.T) {
	prev := ReloadableSettings{Plan: "free", LogLevel: "info"}

	assert.Equal(t, ReloadableSettings{Plan: "pro", LogLevel: "debug"}, nextSettings(prev, "pro", "debug"))
	assert.Equal(t, ReloadableSettings{Plan: "free", LogLevel: "warn"}, nextSettings(prev, "gold", "warn"))
	assert.Equal(t, ReloadableSettings{Plan: "enterprise", LogLevel: "info"}, nextSettings(prev, "enterprise", ""))
}

func TestWatchWithoutConfigFile(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.Watch(func(ReloadableSettings) {}))
}
