package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"resumeats/internal/analysis"
	resumeErrors "resumeats/internal/errors"
	"resumeats/internal/ingest"
	"resumeats/internal/session"
	"resumeats/internal/types"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "resumeats.api"

// analyzeHandler runs one analysis session for the posted text
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api.analyze")
	defer span.End()

	sess, ok := s.newSession(w, r, span)
	if !ok {
		return
	}

	s.Engine.Analyze(ctx, sess)
	s.analyses.Add(1)
	if sess.Fallback != nil {
		s.fallbacks.Add(1)
	}

	report := sess.Score()
	span.SetAttributes(
		attribute.String("session.source", sess.Source),
		attribute.Int("ats.score", sess.Analysis.ATSScore),
	)

	writeJSON(w, http.StatusOK, types.AnalyzeResponse{
		SessionID: sess.ID.String(),
		Source:    sess.Source,
		Analysis:  sess.Analysis,
		Score:     &report,
		Fallback:  sess.FallbackMessage(),
	})
}

// enhanceHandler analyzes the posted text and returns the enhanced resume
func (s *Server) enhanceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api.enhance")
	defer span.End()

	sess, ok := s.newSession(w, r, span)
	if !ok {
		return
	}

	s.Engine.Enhance(ctx, sess)
	s.analyses.Add(1)
	s.enhancements.Add(1)
	if sess.Fallback != nil {
		s.fallbacks.Add(1)
	}

	span.SetAttributes(
		attribute.String("session.source", sess.EnhancedSource),
		attribute.Int("response.enhanced_length", len(sess.Enhanced)),
	)

	writeJSON(w, http.StatusOK, types.EnhanceResponse{
		SessionID:      sess.ID.String(),
		Source:         sess.EnhancedSource,
		Analysis:       sess.Analysis,
		EnhancedResume: sess.Enhanced,
		Fallback:       sess.FallbackMessage(),
	})
}

// newSession decodes and validates an AnalyzeRequest. It writes the error
// response itself and reports false when the request is rejected.
func (s *Server) newSession(w http.ResponseWriter, r *http.Request, span trace.Span) (*session.Session, bool) {
	var req types.AnalyzeRequest
	if status, err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request body", err.Error(), status)
		return nil, false
	}

	if err := s.validateRequest(req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
		return nil, false
	}

	sess := session.New(req.Text)
	sess.UseRemote = req.Remote
	span.SetAttributes(
		attribute.String("session.id", sess.ID.String()),
		attribute.Int("request.text_length", len(req.Text)),
		attribute.Bool("request.remote", req.Remote),
	)
	return sess, true
}

// validateRequest checks struct tags, then the configured text limit in bytes
func (s *Server) validateRequest(req types.AnalyzeRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return validationMessage(err)
	}
	if limit := s.AppConfig.Server.MaxTextBytes; int64(len(req.Text)) > limit {
		return fmt.Errorf("text exceeds the limit of %d bytes", limit)
	}
	return nil
}

func validationMessage(err error) error {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Errorf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return fmt.Errorf("validation error: invalid request")
}

// ingestHandler extracts text from an uploaded document
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api.ingest")
	defer span.End()

	file, header, err := r.FormFile("file")
	if err != nil {
		span.RecordError(err)
		status := http.StatusBadRequest
		if isBodyTooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrorResponse(w, "Invalid upload", "multipart field 'file' is required: "+err.Error(), status)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
		return
	}

	declared := header.Header.Get("Content-Type")
	text, err := ingest.ExtractText(ctx, data, declared, header.Filename)
	if err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Document ingestion failed", "file", header.Filename)
		status := http.StatusUnprocessableEntity
		if resumeErrors.IsType(err, resumeErrors.ErrorTypeValidation) {
			status = http.StatusUnsupportedMediaType
		}
		writeAppError(w, "Document ingestion failed", err, status)
		return
	}

	cleaned := analysis.Normalize(text)
	mimeType := ingest.DetectMIME(data, declared, header.Filename)
	span.SetAttributes(
		attribute.String("document.mime_type", mimeType),
		attribute.Int("document.size", len(data)),
	)

	writeJSON(w, http.StatusOK, types.IngestResponse{
		FileName:  header.Filename,
		MimeType:  mimeType,
		Text:      text,
		Cleaned:   cleaned,
		WordCount: analysis.CountWords(cleaned),
	})
}

// healthHandler reports liveness. The remote collaborator only degrades the
// status since local analysis keeps working without it. ?deep=true also
// queries model availability.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumeats",
		"version": s.Version,
	}

	remote := map[string]any{"enabled": s.Remote != nil}
	if s.Remote != nil {
		healthy := s.Remote.IsHealthy()
		remote["healthy"] = healthy
		remote["circuit_breakers"] = s.Remote.Stats()
		if !healthy {
			response["status"] = "degraded"
		}

		if r.URL.Query().Get("deep") == "true" {
			ctx, cancel := context.WithTimeout(r.Context(), s.AppConfig.Observability.HealthCheck.Timeout)
			defer cancel()
			models := s.Remote.ModelInfo(ctx)
			remote["models"] = models
			for _, info := range models {
				if info != nil && !info.Available {
					response["status"] = "degraded"
				}
			}
		}
	}
	response["remote"] = remote

	writeJSON(w, http.StatusOK, response)
}

// statsHandler reports request counters, breaker and rate limiting state
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	stats := types.StatsResponse{
		Version:       s.Version,
		Analyses:      s.analyses.Load(),
		Enhancements:  s.enhancements.Load(),
		Fallbacks:     s.fallbacks.Load(),
		RemoteEnabled: s.Remote != nil,
	}
	if s.Remote != nil {
		stats.CircuitBreaker = s.Remote.Stats()
	}
	if s.RateLimiter != nil {
		stats.RateLimiting = s.RateLimiter.GetStats()
	}
	writeJSON(w, http.StatusOK, stats)
}

// parseJSONRequest decodes a JSON body into v and returns the status to use
// when it cannot
func parseJSONRequest(r *http.Request, v any) (int, error) {
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		return http.StatusUnsupportedMediaType, fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return http.StatusOK, nil
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return stderrors.As(err, &maxBytesErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // headers are already sent
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeAppError(w http.ResponseWriter, error string, err error, statusCode int) {
	resp := ErrorResponse{Error: error, Message: err.Error()}
	if appErr, ok := resumeErrors.AsAppError(err); ok {
		resp.Message = appErr.Message
		resp.Code = appErr.Code
	}
	writeJSON(w, statusCode, resp)
}
