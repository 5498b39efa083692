package ai

import (
	"context"
	"errors"
	"fmt"

	"resumeats/internal/config"
	resumeErrors "resumeats/internal/errors"
	"resumeats/internal/observability"
	"resumeats/internal/types"
)

// Service routes each resume operation to its own provider and instruments the calls
type Service struct {
	analyze AIProvider
	enhance AIProvider
	om      *observability.ObservabilityManager
	logger  *resumeErrors.Logger
}

// NewService builds one provider per operation from cfg. om may be nil.
func NewService(cfg *config.Config, om *observability.ObservabilityManager, logger *resumeErrors.Logger, opts ...ProviderOption) (*Service, error) {
	if logger == nil {
		logger = resumeErrors.Discard()
	}
	if cfg.Observability.HealthCheck.Timeout > 0 {
		opts = append([]ProviderOption{WithModelCheckTimeout(cfg.Observability.HealthCheck.Timeout)}, opts...)
	}

	analyze, err := newProvider(cfg, config.OperationAnalyze, logger, opts)
	if err != nil {
		return nil, err
	}
	enhance, err := newProvider(cfg, config.OperationEnhance, logger, opts)
	if err != nil {
		_ = analyze.Close()
		return nil, err
	}
	return NewServiceWithProviders(analyze, enhance, om, logger), nil
}

// NewServiceWithProviders wraps already-built providers
func NewServiceWithProviders(analyze, enhance AIProvider, om *observability.ObservabilityManager, logger *resumeErrors.Logger) *Service {
	if logger == nil {
		logger = resumeErrors.Discard()
	}
	return &Service{analyze: analyze, enhance: enhance, om: om, logger: logger}
}

func newProvider(cfg *config.Config, operation string, logger *resumeErrors.Logger, opts []ProviderOption) (AIProvider, error) {
	opCfg, err := cfg.GetOperationConfig(operation)
	if err != nil {
		return nil, err
	}

	logger.Debug("Initializing AI provider",
		"provider", opCfg.Provider,
		"operation_type", operation,
		"model", opCfg.Model,
		"temperature", *opCfg.Temperature,
		"max_output_tokens", *opCfg.MaxOutputTokens,
		"timeout", *opCfg.Timeout,
		"max_retries", *opCfg.MaxRetries,
		"use_system_prompts", *opCfg.UseSystemPrompts)

	switch opCfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(&opCfg, operation, logger, opts...)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, resumeErrors.NewConfigError(resumeErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", opCfg.Provider), nil)
	}
}

// AnalyzeResume returns the remote analysis record for resumeText
func (s *Service) AnalyzeResume(ctx context.Context, resumeText string) (map[string]any, error) {
	var record map[string]any
	err := s.om.GetMetrics().TrackAIOperationWithTokens(ctx, config.OperationAnalyze, func(ctx context.Context) *observability.AIOperationResult {
		var usage *TokenUsage
		var err error
		record, usage, err = s.analyze.AnalyzeResume(ctx, resumeText)
		return &observability.AIOperationResult{Error: err, TokenUsage: (*observability.TokenUsage)(usage)}
	}, s.om)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// EnhanceResume returns the remote rewrite of resumeText aimed at the roles in a
func (s *Service) EnhanceResume(ctx context.Context, resumeText string, a types.Analysis) (string, error) {
	var enhanced string
	err := s.om.GetMetrics().TrackAIOperationWithTokens(ctx, config.OperationEnhance, func(ctx context.Context) *observability.AIOperationResult {
		var usage *TokenUsage
		var err error
		enhanced, usage, err = s.enhance.EnhanceResume(ctx, resumeText, a.Roles)
		return &observability.AIOperationResult{Error: err, TokenUsage: (*observability.TokenUsage)(usage)}
	}, s.om)
	if err != nil {
		return "", err
	}
	return enhanced, nil
}

// ModelInfo reports model availability per operation
func (s *Service) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	return map[string]*ModelInfo{
		config.OperationAnalyze: s.analyze.GetModelInfo(ctx),
		config.OperationEnhance: s.enhance.GetModelInfo(ctx),
	}
}

// Stats returns circuit breaker statistics per operation
func (s *Service) Stats() map[string]any {
	return map[string]any{
		config.OperationAnalyze: s.analyze.GetCircuitBreakerStats(),
		config.OperationEnhance: s.enhance.GetCircuitBreakerStats(),
	}
}

// IsHealthy reports whether no operation breaker is open
func (s *Service) IsHealthy() bool {
	for _, p := range []AIProvider{s.analyze, s.enhance} {
		if healthy, ok := p.GetCircuitBreakerStats()["overall_healthy"].(bool); ok && !healthy {
			return false
		}
	}
	return true
}

// Close releases both providers
func (s *Service) Close() error {
	return errors.Join(s.analyze.Close(), s.enhance.Close())
}
