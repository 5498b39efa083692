package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumeats/internal/config"
	resumeErrors "resumeats/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	defaultModelCheckTimeout = 10 * time.Second
	defaultBaseBackoff       = time.Second
	maxBackoff               = 30 * time.Second
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client            *genai.Client
	config            *config.OperationAIConfig
	operation         string
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	logger            *resumeErrors.Logger
	baseBackoff       time.Duration
	modelCheckTimeout time.Duration
}

var _ AIProvider = (*GeminiProvider)(nil)

// ProviderOption adjusts a GeminiProvider at construction
type ProviderOption func(*providerOptions)

type providerOptions struct {
	baseURL           string
	baseBackoff       time.Duration
	modelCheckTimeout time.Duration
}

// WithBaseURL points the client at a different Gemini API endpoint
func WithBaseURL(url string) ProviderOption {
	return func(o *providerOptions) { o.baseURL = url }
}

// WithBaseBackoff sets the first retry delay; later retries double it
func WithBaseBackoff(d time.Duration) ProviderOption {
	return func(o *providerOptions) { o.baseBackoff = d }
}

// WithModelCheckTimeout bounds GetModelInfo
func WithModelCheckTimeout(d time.Duration) ProviderOption {
	return func(o *providerOptions) { o.modelCheckTimeout = d }
}

// NewGeminiProvider creates a Gemini provider for one operation. cfg must come
// from config.GetOperationConfig so every pointer field is set.
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *resumeErrors.Logger, opts ...ProviderOption) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, resumeErrors.NewConfigError(resumeErrors.ErrCodeMissingAPIKey,
			fmt.Sprintf("no Gemini API key configured for %s", operation), nil)
	}
	if logger == nil {
		logger = resumeErrors.Discard()
	}

	o := providerOptions{baseBackoff: defaultBaseBackoff, modelCheckTimeout: defaultModelCheckTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: *cfg.Timeout},
	}
	if o.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, resumeErrors.NewAIError(resumeErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:            client,
		config:            cfg,
		operation:         operation,
		circuitBreaker:    NewAICircuitBreaker(operation, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operation, cfg, logger),
		logger:            logger.With("operation", operation, "model", cfg.Model),
		baseBackoff:       o.baseBackoff,
		modelCheckTimeout: o.modelCheckTimeout,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed", "error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version
	g.logger.Debug("Model availability check successful",
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)
	return modelInfo
}

// AnalyzeResume asks the model for a JSON analysis record. A reply that is
// not JSON still yields a record built from the reply text.
func (g *GeminiProvider) AnalyzeResume(ctx context.Context, resumeText string) (map[string]any, *TokenUsage, error) {
	systemPrompt := resolvePrompt(g.config.Prompts.System, DefaultSystemPrompts.AnalyzeResume)
	userPrompt := fmt.Sprintf(resolvePrompt(g.config.Prompts.User, DefaultUserPrompts.AnalyzeResume), resumeText)

	genaiConfig := g.generationConfig()
	genaiConfig.ResponseMIMEType = "application/json"

	reply, usage, err := g.generate(ctx, "analyze_resume", userPrompt, systemPrompt, genaiConfig,
		attribute.Int("input.resume_length", len(resumeText)))
	if err != nil {
		return nil, nil, err
	}

	record, degraded := AnalysisRecord(reply)
	if degraded {
		g.logger.Warn("Model reply was not JSON, using degraded analysis", "reply_length", len(reply))
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Bool("output.degraded", degraded))
	}
	return record, usage, nil
}

// EnhanceResume asks the model for a plain-text rewrite targeted at roles
func (g *GeminiProvider) EnhanceResume(ctx context.Context, resumeText string, roles []string) (string, *TokenUsage, error) {
	systemPrompt := resolvePrompt(g.config.Prompts.System, DefaultSystemPrompts.EnhanceResume)
	userPrompt := fmt.Sprintf(resolvePrompt(g.config.Prompts.User, DefaultUserPrompts.EnhanceResume),
		strings.Join(roles, ", "), resumeText)

	reply, usage, err := g.generate(ctx, "enhance_resume", userPrompt, systemPrompt, g.generationConfig(),
		attribute.Int("input.resume_length", len(resumeText)),
		attribute.StringSlice("input.roles", roles))
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(reply), usage, nil
}

func (g *GeminiProvider) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     g.config.Temperature,
		MaxOutputTokens: *g.config.MaxOutputTokens,
	}
}

// generate runs one content request under tracing, the circuit breaker and
// the retry loop, and returns the reply text.
func (g *GeminiProvider) generate(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (string, *TokenUsage, error) {
	ctx, span := otel.Tracer("resumeats.ai.gemini").Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		code := resumeErrors.ErrCodeAIServiceFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = resumeErrors.ErrCodeAITimeout
		}
		return "", nil, resumeErrors.NewAIError(code, "Failed to generate content for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}
	span.SetAttributes(attribute.Bool("success", true))
	return result.Text(), tokenUsage, nil
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := *g.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"ai_operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"ai_operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"ai_operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"ai_operation", operation,
		"total_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// backoff doubles the base delay per attempt and adds up to 10% jitter, capped at 30s
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * g.baseBackoff
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if jitter, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			baseDelay += time.Duration(jitter.Int64())
		}
	}
	return min(baseDelay, maxBackoff)
}

// isRetryableError reports whether err is a network failure or a throttling
// or server-side status from the API.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if code, ok := statusCode(err); ok {
		switch code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// statusCode extracts the HTTP status from either API error family
func statusCode(err error) (int, bool) {
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code, true
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) && genaiErrPtr != nil {
		return genaiErrPtr.Code, true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return 0, false
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider. The genai client holds no resources in unary mode.
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
