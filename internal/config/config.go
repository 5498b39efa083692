package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"resumeats/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	OperationAnalyze = "analyze"
	OperationEnhance = "enhance"

	envPrefix = "RESUMEATS"
)

// KnownFormats lists every output format the formatters package can render.
var KnownFormats = []string{"json", "text", "markdown", "yaml"}

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (RESUMEATS_AI_APIKEY, then GEMINI_API_KEY)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Remote        RemoteConfig        `mapstructure:"remote"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the remote collaborator settings shared by every operation
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	MaxOutputTokens  int32         `mapstructure:"maxOutputTokens"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`

	Analyze OperationAIConfig `mapstructure:"analyze"`
	Enhance OperationAIConfig `mapstructure:"enhance"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // count reset period while closed
	Timeout          time.Duration `mapstructure:"timeout"`          // open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before the ratio is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// OperationAIConfig holds AI configuration for one operation. Nil or empty
// fields fall back to the AIConfig value.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	MaxOutputTokens  *int32               `mapstructure:"maxOutputTokens"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	Prompts          PromptConfig         `mapstructure:"prompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig overrides the built-in prompts of an operation. File contents
// replace the inline value once loaded.
type PromptConfig struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// RemoteConfig controls whether sessions consult the remote collaborator
type RemoteConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// MaxTextBytes bounds the resume text accepted by /analyze and /enhance
	MaxTextBytes int64 `mapstructure:"maxTextBytes"`
	// MaxUploadBytes bounds multipart uploads to /ingest
	MaxUploadBytes int64 `mapstructure:"maxUploadBytes"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys for authentication. Empty disables auth.
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds TLS/mTLS configuration
type TLSConfig struct {
	Mode       string `mapstructure:"mode"`     // "disabled", "server", "mutual"
	CertFile   string `mapstructure:"certFile"` // PEM
	KeyFile    string `mapstructure:"keyFile"`  // PEM
	CAFile     string `mapstructure:"caFile"`   // PEM, required for mutual mode
	MinVersion string `mapstructure:"minVersion"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
	ByAPIKey       bool `mapstructure:"byAPIKey"`
	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Enable
	// only behind a proxy that overwrites them.
	TrustProxyHeaders bool `mapstructure:"trustProxyHeaders"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	// Concurrency bounds how many files the analyze command processes at once
	Concurrency int `mapstructure:"concurrency"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// BusinessMetricsConfig holds resume analysis metrics configuration
type BusinessMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackScores     bool `mapstructure:"trackScores"`
	TrackFallbacks  bool `mapstructure:"trackFallbacks"`
	TrackTextLength bool `mapstructure:"trackTextLength"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from .env, environment variables and a config file.
// RESUMEATS_CONFIG names an explicit config file; otherwise config.yaml is
// searched in ., ./config and $HOME/.resumeats.
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Printf("[CONFIG] Configured environment variable handling with prefix '%s'", envPrefix)

	if explicit := os.Getenv(envPrefix + "_CONFIG"); explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.resumeats")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read config file", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to unmarshal config", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// loadDotEnv exports variables from a .env file without overriding the
// process environment. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		log.Printf("[CONFIG] Loaded environment from %s", path)
		return nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to load "+path, err)
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.0)
	v.SetDefault("ai.maxOutputTokens", 1200)
	v.SetDefault("ai.useSystemPrompts", true)

	// Analyze: structured JSON, short reply
	v.SetDefault("ai.analyze.provider", "")
	v.SetDefault("ai.analyze.model", "")
	v.SetDefault("ai.analyze.apiKey", "")
	v.SetDefault("ai.analyze.maxRetries", 2)
	v.SetDefault("ai.analyze.temperature", 0.0)
	v.SetDefault("ai.analyze.maxOutputTokens", 800)
	v.SetDefault("ai.analyze.prompts.system", "")
	v.SetDefault("ai.analyze.prompts.systemFile", "")
	v.SetDefault("ai.analyze.prompts.user", "")
	v.SetDefault("ai.analyze.prompts.userFile", "")

	// Enhance: plain text, longer reply
	v.SetDefault("ai.enhance.provider", "")
	v.SetDefault("ai.enhance.model", "")
	v.SetDefault("ai.enhance.apiKey", "")
	v.SetDefault("ai.enhance.maxRetries", 2)
	v.SetDefault("ai.enhance.temperature", 0.0)
	v.SetDefault("ai.enhance.maxOutputTokens", 1200)
	v.SetDefault("ai.enhance.prompts.system", "")
	v.SetDefault("ai.enhance.prompts.systemFile", "")
	v.SetDefault("ai.enhance.prompts.user", "")
	v.SetDefault("ai.enhance.prompts.userFile", "")

	for _, op := range []string{OperationAnalyze, OperationEnhance} {
		prefix := "ai." + op + ".circuitBreaker."
		v.SetDefault(prefix+"enabled", true)
		v.SetDefault(prefix+"maxRequests", 3)
		v.SetDefault(prefix+"interval", 60*time.Second)
		v.SetDefault(prefix+"timeout", 60*time.Second)
		v.SetDefault(prefix+"minRequests", 3)
		v.SetDefault(prefix+"failureThreshold", 0.6)
	}

	// Remote collaborator
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.timeout", 45*time.Second)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 90*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)
	v.SetDefault("server.maxTextBytes", 256*1024)
	v.SetDefault("server.maxUploadBytes", 10*1024*1024)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.trustProxyHeaders", false)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", KnownFormats)
	v.SetDefault("app.maxFileSize", 10*1024*1024)
	v.SetDefault("app.concurrency", 4)

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumeats")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackScores", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackTextLength", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
}

func invalid(format string, args ...any) error {
	return errors.NewConfigError(errors.ErrCodeInvalidConfig, fmt.Sprintf(format, args...), nil)
}

// Validate checks if the configuration is valid. API keys are checked
// separately by ValidateSecrets once Vault has had a chance to supply them.
func (c *Config) Validate() error {
	if c.AI.Provider != "gemini" {
		return invalid("unsupported AI provider: %s", c.AI.Provider)
	}
	if c.AI.Timeout <= 0 {
		return invalid("AI timeout must be positive")
	}
	if c.AI.MaxRetries < 0 {
		return invalid("AI maxRetries cannot be negative")
	}
	for _, op := range []string{OperationAnalyze, OperationEnhance} {
		opCfg, _ := c.GetOperationConfig(op)
		if opCfg.Provider != "gemini" {
			return invalid("unsupported AI provider for %s: %s", op, opCfg.Provider)
		}
		if *opCfg.Timeout <= 0 {
			return invalid("AI timeout for %s must be positive", op)
		}
		if cb := opCfg.CircuitBreaker; cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
			return invalid("circuit breaker failureThreshold for %s must be in (0, 1], got %v", op, cb.FailureThreshold)
		}
	}

	if c.Remote.Timeout <= 0 {
		return invalid("remote timeout must be positive")
	}

	if c.Server.Port == "" {
		return invalid("server port is required")
	}
	if c.Server.MaxTextBytes <= 0 || c.Server.MaxUploadBytes <= 0 {
		return invalid("server body limits must be positive")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMin <= 0 || rl.BurstCapacity <= 0) {
		return invalid("rate limit requestsPerMin and burstCapacity must be positive when enabled")
	}

	if _, err := errors.ParseLevel(c.App.LogLevel); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid app.logLevel", err)
	}
	for _, f := range c.App.SupportedFormats {
		if !slices.Contains(KnownFormats, f) {
			return invalid("unknown output format: %s", f)
		}
	}
	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return invalid("invalid default format: %s", c.App.DefaultFormat)
	}
	if c.App.Concurrency < 1 {
		return invalid("app concurrency must be at least 1")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return err
	}
	return nil
}

// ValidateSecrets reports a missing Gemini key when the remote collaborator is enabled.
func (c *Config) ValidateSecrets() error {
	if !c.Remote.Enabled {
		return nil
	}
	for _, op := range []string{OperationAnalyze, OperationEnhance} {
		opCfg, _ := c.GetOperationConfig(op)
		if opCfg.APIKey == "" {
			return errors.NewConfigError(errors.ErrCodeMissingAPIKey,
				fmt.Sprintf("AI API key is required for %s when remote is enabled (set %s_AI_APIKEY or GEMINI_API_KEY)", op, envPrefix), nil)
		}
	}
	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "", "disabled":
		return nil
	case "server":
		if tls.CertFile == "" || tls.KeyFile == "" {
			return invalid("TLS certFile and keyFile are required for server mode")
		}
	case "mutual":
		if tls.CertFile == "" || tls.KeyFile == "" || tls.CAFile == "" {
			return invalid("TLS certFile, keyFile and caFile are required for mutual mode")
		}
	default:
		return invalid("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	switch tls.MinVersion {
	case "", "1.2", "1.3":
	default:
		return invalid("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
	return nil
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.MaxOutputTokens == nil {
		opCfg.MaxOutputTokens = &c.AI.MaxOutputTokens
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetOperationConfig returns the AI configuration for an operation with
// fallback to the global AI settings.
func (c *Config) GetOperationConfig(operation string) (OperationAIConfig, error) {
	var opCfg OperationAIConfig
	switch operation {
	case OperationAnalyze:
		opCfg = c.AI.Analyze
	case OperationEnhance:
		opCfg = c.AI.Enhance
	default:
		return OperationAIConfig{}, invalid("unknown AI operation: %s", operation)
	}
	c.applyOperationDefaults(&opCfg)
	return opCfg, nil
}

// GetAnalyzeConfig returns the AI configuration for remote analysis
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	opCfg, _ := c.GetOperationConfig(OperationAnalyze)
	return opCfg
}

// GetEnhanceConfig returns the AI configuration for remote enhancement
func (c *Config) GetEnhanceConfig() OperationAIConfig {
	opCfg, _ := c.GetOperationConfig(OperationEnhance)
	return opCfg
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	if c.AI.APIKey == "" {
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			c.AI.APIKey = key
		}
	}

	c.Server.APIKeys = splitKeys(c.Server.APIKeys)

	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// splitKeys flattens comma-separated entries, trims them and drops blanks.
// Env values arrive as a single "a, b" element.
func splitKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, entry := range keys {
		for key := range strings.SplitSeq(entry, ",") {
			if key = strings.TrimSpace(key); key != "" {
				out = append(out, key)
			}
		}
	}
	return out
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		envPrefix + "_AI_APIKEY",
		envPrefix + "_AI_MODEL",
		envPrefix + "_REMOTE_ENABLED",
		envPrefix + "_SERVER_PORT",
		envPrefix + "_SERVER_HOST",
		envPrefix + "_SERVER_APIKEYS",
		envPrefix + "_APP_LOGLEVEL",
		envPrefix + "_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG]   %s=%s", envVar, value)
		hasEnvVars = true
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Printf("[CONFIG] AI Provider: %s, Model: %s", c.AI.Provider, c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Remote Enabled: %t", c.Remote.Enabled)
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
