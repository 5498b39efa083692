package ai

import (
	"context"
)

// AIProvider is a remote model backend for the two resume operations.
// Token usage may be nil when the backend does not report it.
type AIProvider interface {
	AnalyzeResume(ctx context.Context, resumeText string) (map[string]any, *TokenUsage, error)
	EnhanceResume(ctx context.Context, resumeText string, roles []string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}
