// Package session runs the analysis and enhancement flows for one resume,
// optionally consulting a remote model and falling back to the local result.
package session

import (
	"context"
	"strings"
	"time"

	"resumeats/internal/analysis"
	"resumeats/internal/errors"
	"resumeats/internal/observability"
	"resumeats/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Result sources
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
	SourceMerged = "merged"
)

// Analyzer produces a raw analysis record for cleaned resume text
type Analyzer interface {
	AnalyzeResume(ctx context.Context, text string) (map[string]any, error)
}

// Enhancer rewrites cleaned resume text for the roles in a
type Enhancer interface {
	EnhanceResume(ctx context.Context, text string, a types.Analysis) (string, error)
}

// Session is the state of one resume as it moves through analysis and
// enhancement. It is not shared between requests.
type Session struct {
	ID      uuid.UUID
	Raw     string
	Cleaned string

	// UseRemote asks the engine to consult its remote collaborators
	UseRemote bool

	Analysis types.Analysis
	Source   string

	Enhanced       string
	EnhancedSource string

	// Fallback holds the remote failure that left a local result in place
	Fallback error

	analyzed bool
}

// New starts a session for raw resume text
func New(raw string) *Session {
	return &Session{
		ID:      uuid.New(),
		Raw:     raw,
		Cleaned: analysis.Normalize(raw),
	}
}

// Analyzed reports whether Analyze has run
func (s *Session) Analyzed() bool {
	return s.analyzed
}

// Score recomputes the score report for the current analysis
func (s *Session) Score() types.ScoreReport {
	return analysis.Score(s.Analysis, s.Cleaned)
}

// FallbackMessage returns the fallback error text, or "" when none occurred
func (s *Session) FallbackMessage() string {
	if s.Fallback == nil {
		return ""
	}
	return s.Fallback.Error()
}

// Engine runs sessions. The zero value analyzes locally only; it is safe for
// concurrent use as long as its collaborators are.
type Engine struct {
	Analyzer      Analyzer
	Enhancer      Enhancer
	Timeout       time.Duration
	Logger        *errors.Logger
	Observability *observability.ObservabilityManager
}

// Analyze computes the local analysis and, when requested and available,
// overlays the remote record on it. A remote failure keeps the local result
// and is recorded in s.Fallback.
func (e *Engine) Analyze(ctx context.Context, s *Session) {
	s.Analysis = analysis.AnalyzeCleaned(s.Cleaned)
	s.Source = SourceLocal
	s.Fallback = nil
	s.analyzed = true

	if s.UseRemote && e.Analyzer != nil {
		remote, err := e.callAnalyzer(ctx, s.Cleaned)
		if err != nil {
			e.fallback(ctx, s, "analyze", err)
		} else {
			s.Analysis = analysis.Merge(s.Analysis, remote, s.Cleaned)
			s.Source = SourceMerged
		}
	}

	m := e.Observability.GetMetrics()
	m.RecordBusinessMetric(ctx, observability.MetricResumeAnalyzed, s.Fallback == nil, e.Observability,
		attribute.String("source", s.Source))
	m.RecordAnalysis(ctx, s.Analysis.ATSScore, s.Analysis.WordCount, s.Source, e.Observability)

	e.logger().Debug("Resume analyzed",
		"session_id", s.ID.String(),
		"source", s.Source,
		"ats_score", s.Analysis.ATSScore,
		"word_count", s.Analysis.WordCount)
}

// Enhance produces the enhanced resume, analyzing first if needed. A non-blank
// remote rewrite replaces the local one.
func (e *Engine) Enhance(ctx context.Context, s *Session) {
	if !s.analyzed {
		e.Analyze(ctx, s)
	}

	s.Enhanced = analysis.Enhance(s.Cleaned, s.Analysis)
	s.EnhancedSource = SourceLocal

	if s.UseRemote && e.Enhancer != nil {
		remote, err := e.callEnhancer(ctx, s.Cleaned, s.Analysis)
		switch {
		case err != nil:
			e.fallback(ctx, s, "enhance", err)
		case strings.TrimSpace(remote) == "":
			e.logger().Warn("Remote enhancement was empty, keeping local result", "session_id", s.ID.String())
		default:
			s.Enhanced = remote
			s.EnhancedSource = SourceRemote
		}
	}

	e.Observability.GetMetrics().RecordBusinessMetric(ctx, observability.MetricResumeEnhanced, true, e.Observability,
		attribute.String("source", s.EnhancedSource))
}

func (e *Engine) callAnalyzer(ctx context.Context, text string) (map[string]any, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.Analyzer.AnalyzeResume(ctx, text)
}

func (e *Engine) callEnhancer(ctx context.Context, text string, a types.Analysis) (string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	return e.Enhancer.EnhanceResume(ctx, text, a)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout > 0 {
		return context.WithTimeout(ctx, e.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *Engine) fallback(ctx context.Context, s *Session, operation string, cause error) {
	s.Fallback = errors.NewAIError(errors.ErrCodeRemoteFallback,
		"remote "+operation+" failed, using local result", cause).
		WithContext("operation", operation)

	e.logger().Warn("Remote collaborator failed, keeping local result",
		"session_id", s.ID.String(),
		"operation", operation,
		"error_code", errors.ErrCodeRemoteFallback,
		"cause", cause.Error())
	e.Observability.GetMetrics().RecordBusinessMetric(ctx, observability.MetricRemoteFallback, false, e.Observability,
		attribute.String("operation", operation))
}

func (e *Engine) logger() *errors.Logger {
	if e.Logger == nil {
		return errors.Discard()
	}
	return e.Logger
}
