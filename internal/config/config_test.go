package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumeats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config discovery at an empty directory and clears the
// variables a developer machine might carry.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"GEMINI_API_KEY", "RESUMEATS_CONFIG", "RESUMEATS_AI_APIKEY", "RESUMEATS_REMOTE_ENABLED", "RESUMEATS_SERVER_PORT", "RESUMEATS_SERVER_APIKEYS"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.False(t, cfg.Remote.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.APIKeys)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, KnownFormats, cfg.App.SupportedFormats)
	assert.Equal(t, 4, cfg.App.Concurrency)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, int32(800), *analyze.MaxOutputTokens)
	assert.Equal(t, float32(0), *analyze.Temperature)
	assert.Equal(t, 60*time.Second, *analyze.Timeout)
	assert.True(t, analyze.CircuitBreaker.Enabled)
	assert.InDelta(t, 0.6, analyze.CircuitBreaker.FailureThreshold, 1e-9)

	assert.Equal(t, int32(1200), *cfg.GetEnhanceConfig().MaxOutputTokens)
	assert.NoError(t, cfg.ValidateSecrets())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)

	yaml := `
ai:
  model: gemini-2.5-flash
  analyze:
    model: gemini-2.5-pro
    timeout: 20s
remote:
  enabled: true
server:
  apiKeys: ["alpha", " beta "]
app:
  defaultFormat: markdown
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))
	t.Setenv("RESUMEATS_SERVER_PORT", "9191")
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "markdown", cfg.App.DefaultFormat)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "legacy-key", cfg.AI.APIKey)

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "gemini-2.5-pro", analyze.Model)
	assert.Equal(t, 20*time.Second, *analyze.Timeout)
	assert.Equal(t, "legacy-key", analyze.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GetEnhanceConfig().Model)
	assert.NoError(t, cfg.ValidateSecrets())
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RESUMEATS_APP_LOGLEVEL=debug\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("RESUMEATS_APP_LOGLEVEL") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.True(t, cfg.Observability.ConsoleOutput)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  logLevel: loud\n"), 0600))
	t.Setenv("RESUMEATS_CONFIG", path)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func validConfig() *Config {
	timeout := 30 * time.Second
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     time.Minute,
			MaxRetries:  3,
			Temperature: 0,
			Analyze: OperationAIConfig{
				Timeout:        &timeout,
				CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 0.6},
			},
		},
		Remote: RemoteConfig{Timeout: 45 * time.Second},
		Server: ServerConfig{
			Port:           "8080",
			MaxTextBytes:   1024,
			MaxUploadBytes: 2048,
			TLS:            TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: KnownFormats,
			Concurrency:      2,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: "unsupported AI provider"},
		{name: "operation provider", mutate: func(c *Config) { c.AI.Enhance.Provider = "claude" }, wantErr: "for enhance"},
		{name: "zero timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, wantErr: "AI timeout"},
		{name: "zero operation timeout", mutate: func(c *Config) { zero := time.Duration(0); c.AI.Analyze.Timeout = &zero }, wantErr: "timeout for analyze"},
		{name: "negative retries", mutate: func(c *Config) { c.AI.MaxRetries = -1 }, wantErr: "maxRetries"},
		{name: "breaker threshold", mutate: func(c *Config) { c.AI.Analyze.CircuitBreaker.FailureThreshold = 1.5 }, wantErr: "failureThreshold"},
		{name: "remote timeout", mutate: func(c *Config) { c.Remote.Timeout = 0 }, wantErr: "remote timeout"},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "port"},
		{name: "body limit", mutate: func(c *Config) { c.Server.MaxTextBytes = 0 }, wantErr: "body limits"},
		{
			name:    "rate limit",
			mutate:  func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, RequestsPerMin: 0, BurstCapacity: 5} },
			wantErr: "rate limit",
		},
		{name: "log level", mutate: func(c *Config) { c.App.LogLevel = "verbose" }, wantErr: "logLevel"},
		{name: "unknown format", mutate: func(c *Config) { c.App.SupportedFormats = []string{"json", "pdf"} }, wantErr: "pdf"},
		{name: "default format", mutate: func(c *Config) { c.App.DefaultFormat = "yaml"; c.App.SupportedFormats = []string{"json"} }, wantErr: "default format"},
		{name: "concurrency", mutate: func(c *Config) { c.App.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "tls", mutate: func(c *Config) { c.Server.TLS.Mode = "server" }, wantErr: "certFile"},
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
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestValidateSecrets(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.ValidateSecrets(), "remote disabled needs no key")

	cfg.Remote.Enabled = true
	err := cfg.ValidateSecrets()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, appErr.Code)

	cfg.AI.Analyze.APIKey = "only-analyze"
	assert.ErrorContains(t, cfg.ValidateSecrets(), "enhance")

	cfg.AI.APIKey = "global"
	assert.NoError(t, cfg.ValidateSecrets())
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr bool
	}{
		{name: "disabled", tls: TLSConfig{Mode: "disabled"}},
		{name: "empty mode", tls: TLSConfig{}},
		{name: "server", tls: TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem"}},
		{name: "server missing key", tls: TLSConfig{Mode: "server", CertFile: "c.pem"}, wantErr: true},
		{name: "mutual", tls: TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem", MinVersion: "1.3"}},
		{name: "mutual missing ca", tls: TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem"}, wantErr: true},
		{name: "bad version", tls: TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.0"}, wantErr: true},
		{name: "bad mode", tls: TLSConfig{Mode: "strict"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: ServerConfig{TLS: tt.tls}}
			if tt.wantErr {
				assert.Error(t, cfg.ValidateTLSConfig())
			} else {
				assert.NoError(t, cfg.ValidateTLSConfig())
			}
		})
	}
}

func TestGetOperationConfig(t *testing.T) {
	temp := float32(0.4)
	cfg := &Config{AI: AIConfig{
		Provider:        "gemini",
		Model:           "global-model",
		Timeout:         time.Minute,
		APIKey:          "global-key",
		MaxRetries:      3,
		MaxOutputTokens: 1000,
		Enhance:         OperationAIConfig{Model: "enhance-model", Temperature: &temp},
	}}

	enhance, err := cfg.GetOperationConfig(OperationEnhance)
	require.NoError(t, err)
	assert.Equal(t, "enhance-model", enhance.Model)
	assert.Equal(t, float32(0.4), *enhance.Temperature)
	assert.Equal(t, "global-key", enhance.APIKey)
	assert.Equal(t, time.Minute, *enhance.Timeout)
	assert.Equal(t, 3, *enhance.MaxRetries)
	assert.Equal(t, int32(1000), *enhance.MaxOutputTokens)
	assert.False(t, *enhance.UseSystemPrompts)

	analyze := cfg.GetAnalyzeConfig()
	assert.Equal(t, "global-model", analyze.Model)
	assert.Equal(t, "gemini", analyze.Provider)

	_, err = cfg.GetOperationConfig("tailor")
	assert.Error(t, err)
}

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitKeys([]string{"a, b", " c ", ""}))
	assert.Empty(t, splitKeys(nil))
}
