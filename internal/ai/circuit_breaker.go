package ai

import (
	"context"
	"errors"

	"resumeats/internal/config"
	resumeErrors "resumeats/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"
)

// Breaker guards one kind of remote call for one operation. A nil Breaker
// passes calls straight through, which is how a disabled breaker behaves.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// AICircuitBreaker guards content generation
type AICircuitBreaker = Breaker[*genai.GenerateContentResponse]

// ModelCircuitBreaker guards model lookups used by health checks
type ModelCircuitBreaker = Breaker[*genai.Model]

// NewAICircuitBreaker trips once the failure ratio reaches the configured
// threshold after MinRequests calls. Canceled calls count as successes since
// the caller gave up, not the model.
func NewAICircuitBreaker(operation string, cfg *config.OperationAIConfig, logger *resumeErrors.Logger) *AICircuitBreaker {
	cbCfg := cfg.CircuitBreaker
	return newBreaker[*genai.GenerateContentResponse](operation, "ai-"+operation, cbCfg, logger,
		func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < cbCfg.MinRequests {
				return false
			}
			return failureRatio(counts) >= cbCfg.FailureThreshold
		})
}

// NewModelCircuitBreaker trips late: five calls and an 80% failure ratio
func NewModelCircuitBreaker(operation string, cfg *config.OperationAIConfig, logger *resumeErrors.Logger) *ModelCircuitBreaker {
	return newBreaker[*genai.Model](operation, "ai-model-"+operation, cfg.CircuitBreaker, logger,
		func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && failureRatio(counts) >= 0.8
		})
}

func newBreaker[T any](operation, name string, cbCfg config.CircuitBreakerConfig, logger *resumeErrors.Logger, readyToTrip func(gobreaker.Counts) bool) *Breaker[T] {
	if !cbCfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = resumeErrors.Discard()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: readyToTrip,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Remote circuit breaker state changed",
				"breaker", name,
				"operation", operation,
				"from", from.String(),
				"to", to.String())
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

func failureRatio(counts gobreaker.Counts) float64 {
	return float64(counts.TotalFailures) / float64(counts.Requests)
}

// Execute runs fn through the breaker
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// GetStats reports the breaker name, state and counts
func (b *Breaker[T]) GetStats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed
func (b *Breaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
