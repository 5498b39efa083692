package server

import (
	"sync/atomic"

	"resumeats/internal/ai"
	"resumeats/internal/config"
	resumeErrors "resumeats/internal/errors"
	"resumeats/internal/observability"
	"resumeats/internal/session"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Server serves the analysis engine over HTTP
type Server struct {
	Version string

	// Full application configuration
	AppConfig *config.Config

	Engine *session.Engine
	// Remote is nil when the remote collaborator is disabled
	Remote *ai.Service

	// API Authentication
	APIKeys map[string]bool

	RateLimiter *RateLimiter

	Observability *observability.ObservabilityManager
	Logger        *resumeErrors.Logger

	validate *validator.Validate

	analyses     atomic.Int64
	enhancements atomic.Int64
	fallbacks    atomic.Int64
}

// Deps holds the collaborators a Server is built from
type Deps struct {
	Engine        *session.Engine
	Remote        *ai.Service
	Observability *observability.ObservabilityManager
	Logger        *resumeErrors.Logger
	Version       string
}

// NewServer creates a new Server from the application config. A nil engine
// analyzes locally only.
func NewServer(appCfg *config.Config, deps Deps) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range appCfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = resumeErrors.Discard()
	}

	var rateLimiter *RateLimiter
	if appCfg.Server.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			appCfg.Server.RateLimit.RequestsPerMin,
			appCfg.Server.RateLimit.BurstCapacity,
			logger,
		)
	}

	engine := deps.Engine
	if engine == nil {
		engine = &session.Engine{Logger: logger, Observability: deps.Observability}
	}

	return &Server{
		Version:       deps.Version,
		AppConfig:     appCfg,
		Engine:        engine,
		Remote:        deps.Remote,
		APIKeys:       apiKeyMap,
		RateLimiter:   rateLimiter,
		Observability: deps.Observability,
		Logger:        logger,
		validate:      validator.New(),
	}
}

// Close releases the rate limiter
func (s *Server) Close() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
}
