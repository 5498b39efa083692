package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricResumeAnalyzed = "resume_analyzed"
	MetricResumeEnhanced = "resume_enhanced"
	MetricRemoteFallback = "remote_fallback"
	MetricRateLimitHit   = "rate_limit_hit"
)

// Metrics holds all custom metrics. The zero value records nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Resume metrics
	ResumesAnalyzed metric.Int64Counter
	ResumesEnhanced metric.Int64Counter
	RemoteFallbacks metric.Int64Counter
	ATSScore        metric.Int64Histogram
	ResumeWords     metric.Int64Histogram

	RateLimitHits metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumeats_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting on the remote model"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter(
		"resumeats_ai_requests_total",
		metric.WithDescription("Total number of remote model requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter(
		"resumeats_ai_errors_total",
		metric.WithDescription("Total number of failed remote model requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumeats_ai_token_usage",
		metric.WithDescription("Token usage per remote request by token type"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.ResumesAnalyzed, err = meter.Int64Counter(
		"resumeats_resumes_analyzed_total",
		metric.WithDescription("Total number of resumes analyzed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resumes analyzed metric: %w", err)
	}
	if m.ResumesEnhanced, err = meter.Int64Counter(
		"resumeats_resumes_enhanced_total",
		metric.WithDescription("Total number of enhanced resumes produced"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resumes enhanced metric: %w", err)
	}
	if m.RemoteFallbacks, err = meter.Int64Counter(
		"resumeats_remote_fallbacks_total",
		metric.WithDescription("Remote requests that fell back to the local result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create remote fallback metric: %w", err)
	}
	if m.ATSScore, err = meter.Int64Histogram(
		"resumeats_ats_score",
		metric.WithDescription("Distribution of computed ATS scores"),
		metric.WithExplicitBucketBoundaries(-50, -25, 0, 25, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create ATS score metric: %w", err)
	}
	if m.ResumeWords, err = meter.Int64Histogram(
		"resumeats_resume_words",
		metric.WithDescription("Word count of analyzed resumes"),
		metric.WithUnit("{word}"),
		metric.WithExplicitBucketBoundaries(0, 100, 200, 400, 600, 800, 1200, 2000),
	); err != nil {
		return nil, fmt.Errorf("failed to create resume word count metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumeats_rate_limit_hits_total",
		metric.WithDescription("Total number of rejected rate-limited requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// TrackAIOperationWithTokens runs fn inside an "ai.<operation>" span and
// records duration, request, error and token metrics for it.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	ctx, span := otel.Tracer("resumeats.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.AIProcessingTime != nil && om.customMetrics().AIOperations.Enabled {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	opts := metric.WithAttributes(attrs...)
	cfg := om.customMetrics().AIOperations

	if cfg.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, opts)
	}
	m.AIRequestCount.Add(ctx, 1, opts)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, opts)
	}

	if result != nil && result.TokenUsage != nil {
		if cfg.TrackTokenUsage {
			m.recordTokenMetrics(ctx, operation, result.TokenUsage)
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
		)
	}
	span.SetAttributes(attrs...)
}

func (m *Metrics) recordTokenMetrics(ctx context.Context, operation string, usage *TokenUsage) {
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordBusinessMetric increments the counter named by metricType
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	cfg := om.customMetrics()
	opts := metric.WithAttributes(append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)...)

	switch metricType {
	case MetricResumeAnalyzed:
		if cfg.BusinessMetrics.Enabled && m.ResumesAnalyzed != nil {
			m.ResumesAnalyzed.Add(ctx, 1, opts)
		}
	case MetricResumeEnhanced:
		if cfg.BusinessMetrics.Enabled && m.ResumesEnhanced != nil {
			m.ResumesEnhanced.Add(ctx, 1, opts)
		}
	case MetricRemoteFallback:
		if cfg.BusinessMetrics.Enabled && cfg.BusinessMetrics.TrackFallbacks && m.RemoteFallbacks != nil {
			m.RemoteFallbacks.Add(ctx, 1, opts)
		}
	case MetricRateLimitHit:
		if cfg.Infrastructure.Enabled && cfg.Infrastructure.TrackRateLimits && m.RateLimitHits != nil {
			m.RateLimitHits.Add(ctx, 1, opts)
		}
	}
}

// RecordAnalysis records the score and word count of a finished analysis
func (m *Metrics) RecordAnalysis(ctx context.Context, score, words int, source string, om *ObservabilityManager) {
	cfg := om.customMetrics().BusinessMetrics
	if !cfg.Enabled {
		return
	}
	opts := metric.WithAttributes(attribute.String("source", source))
	if cfg.TrackScores && m.ATSScore != nil {
		m.ATSScore.Record(ctx, int64(score), opts)
	}
	if cfg.TrackTextLength && m.ResumeWords != nil {
		m.ResumeWords.Record(ctx, int64(words), opts)
	}
}
