package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"resumeats/internal/ai"
	"resumeats/internal/config"
	"resumeats/internal/errors"
	"resumeats/internal/observability"
	"resumeats/internal/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane@example.com | 555-123-4567 | linkedin.com/in/janedoe

Summary:
Backend engineer building payment APIs in Go.

Experience:
- Led migration of billing services to Kubernetes, cutting costs by 30%
- Built REST APIs serving 2M requests per day

Skills:
Go, Docker, PostgreSQL, Kafka

Education:
BSc Computer Science`

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Provider: "gemini", Model: "gemini-2.0-flash"},
		Remote: config.RemoteConfig{
			Timeout: time.Second,
		},
		App: config.AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: config.KnownFormats,
			MaxFileSize:      1 << 20,
			Concurrency:      2,
		},
	}
}

func executeCommand(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(withApp(context.Background(), cfg, errors.Discard()))
	return out.String(), err
}

func writeResume(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

type stubProvider struct {
	record   map[string]any
	enhanced string
	err      error
}

func (p stubProvider) AnalyzeResume(context.Context, string) (map[string]any, *ai.TokenUsage, error) {
	return p.record, nil, p.err
}

func (p stubProvider) EnhanceResume(context.Context, string, []string) (string, *ai.TokenUsage, error) {
	return p.enhanced, nil, p.err
}

func (p stubProvider) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub", Available: true}
}

func (p stubProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func (p stubProvider) Close() error { return nil }

func useStubRemote(t *testing.T, p stubProvider) {
	t.Helper()
	original := newRemoteService
	newRemoteService = func(*config.Config, *observability.ObservabilityManager, *errors.Logger) (*ai.Service, error) {
		return ai.NewServiceWithProviders(p, p, nil, nil), nil
	}
	t.Cleanup(func() { newRemoteService = original })
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, testConfig(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeats version "+Version)
	assert.Contains(t, out, "Git commit: ")
}

func TestAnalyzeSingleFile(t *testing.T) {
	file := writeResume(t, t.TempDir(), "resume.txt", sampleResume)

	out, err := executeCommand(t, testConfig(), "analyze", file)
	require.NoError(t, err)

	var resp types.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, file, resp.File)
	assert.Equal(t, "local", resp.Source)
	assert.Equal(t, "jane@example.com", resp.Analysis.ContactInfo.Email)
	assert.NotEmpty(t, resp.SessionID)
	assert.Nil(t, resp.Score, "breakdown is opt-in")
	assert.Empty(t, resp.Fallback)
}

func TestAnalyzeBatchWithBreakdown(t *testing.T) {
	dir := t.TempDir()
	first := writeResume(t, dir, "a.txt", sampleResume)
	second := writeResume(t, dir, "b.md", "John Roe\njohn@example.com\n\nSkills:\nPython")

	out, err := executeCommand(t, testConfig(), "analyze", "--breakdown", first, second)
	require.NoError(t, err)

	var resp []types.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, first, resp[0].File)
	assert.Equal(t, second, resp[1].File)
	for _, r := range resp {
		require.NotNil(t, r.Score)
		assert.Equal(t, r.Analysis.ATSScore, r.Score.Score)
	}
}

func TestAnalyzeOutputFile(t *testing.T) {
	dir := t.TempDir()
	file := writeResume(t, dir, "resume.txt", sampleResume)
	target := filepath.Join(dir, "out", "report.md")

	out, err := executeCommand(t, testConfig(), "analyze", "--format", "markdown", "-o", target, file)
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "# Resume Analysis")
}

func TestAnalyzeErrors(t *testing.T) {
	file := writeResume(t, t.TempDir(), "resume.txt", sampleResume)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{name: "unknown format", args: []string{"analyze", "--format", "xml", file}, code: errors.ErrCodeInvalidFormat},
		{name: "missing file", args: []string{"analyze", filepath.Join(t.TempDir(), "nope.txt")}, code: errors.ErrCodeFileNotFound},
		{name: "remote without key", args: []string{"analyze", "--remote", file}, code: errors.ErrCodeMissingAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, testConfig(), tt.args...)
			requireCode(t, err, tt.code)
		})
	}

	_, err := executeCommand(t, testConfig(), "analyze")
	assert.Error(t, err, "at least one file is required")
}

func TestAnalyzeRemote(t *testing.T) {
	file := writeResume(t, t.TempDir(), "resume.txt", sampleResume)
	cfg := testConfig()
	cfg.AI.APIKey = "test-key"

	t.Run("merged", func(t *testing.T) {
		useStubRemote(t, stubProvider{record: map[string]any{"summary": "Remote summary"}})
		out, err := executeCommand(t, cfg, "analyze", "--remote", file)
		require.NoError(t, err)

		var resp types.AnalyzeResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "merged", resp.Source)
		assert.Empty(t, resp.Fallback)
	})

	t.Run("fallback", func(t *testing.T) {
		useStubRemote(t, stubProvider{err: assert.AnError})
		out, err := executeCommand(t, cfg, "analyze", "--remote", file)
		require.NoError(t, err, "a remote failure keeps the local result")

		var resp types.AnalyzeResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "local", resp.Source)
		assert.Contains(t, resp.Fallback, "remote analyze failed")
	})
}

func TestEnhanceCommand(t *testing.T) {
	file := writeResume(t, t.TempDir(), "resume.txt", sampleResume)

	out, err := executeCommand(t, testConfig(), "enhance", "--format", "text", file)
	require.NoError(t, err)
	assert.Contains(t, out, "=== ENHANCED RESUME ===")
	assert.Contains(t, out, "Source: local")

	cfg := testConfig()
	cfg.AI.APIKey = "test-key"
	useStubRemote(t, stubProvider{record: map[string]any{}, enhanced: "Professional Summary:\nRemote rewrite"})

	out, err = executeCommand(t, cfg, "enhance", "--remote", file)
	require.NoError(t, err)
	var resp types.EnhanceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "remote", resp.Source)
	assert.Equal(t, "Professional Summary:\nRemote rewrite", resp.EnhancedResume)

	_, err = executeCommand(t, testConfig(), "enhance", file, file)
	assert.Error(t, err, "enhance takes exactly one file")
}

func TestScoreCommand(t *testing.T) {
	file := writeResume(t, t.TempDir(), "resume.txt", sampleResume)

	out, err := executeCommand(t, testConfig(), "score", "--format", "markdown", file)
	require.NoError(t, err)
	assert.Contains(t, out, "## Score Breakdown")

	out, err = executeCommand(t, testConfig(), "score", file)
	require.NoError(t, err)
	var resp types.ScoreResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, file, resp.File)
	assert.NotEmpty(t, resp.Score.Breakdown)
}

func TestApplyServeOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "localhost"
	cfg.Server.Port = "8080"
	cfg.Server.TLS.Mode = "disabled"

	cmd := &cobra.Command{Use: "serve"}
	opts := &serveOptions{}
	bindServeFlags(cmd, opts)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--tls-mode", "server", "--remote"}))
	applyServeOverrides(cmd, opts, cfg)

	assert.Equal(t, "localhost", cfg.Server.Host, "unset flags keep config values")
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "server", cfg.Server.TLS.Mode)
	assert.True(t, cfg.Remote.Enabled)
}

func TestServeRejectsInvalidTLS(t *testing.T) {
	_, err := executeCommand(t, testConfig(), "serve", "--tls-mode", "server")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid TLS configuration")
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	file := writeResume(t, dir, "resume.txt", sampleResume)
	writeResume(t, dir, "other.txt", "ignored")

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{file}, errors.Discard(), func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(file, []byte(sampleResume+"\n"), 0600)
		return runs.Load() > 0
	}, 5*time.Second, 2*watchDebounce)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
