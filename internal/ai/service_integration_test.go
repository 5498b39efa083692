package ai

import (
	"context"
	"os"
	"testing"
	"time"

	"resumeats/internal/config"
	"resumeats/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationResume = `Jane Doe
jane.doe@example.com | (555) 123-4567 | linkedin.com/in/janedoe

SUMMARY
Backend engineer with 6 years building payment APIs in Go and PostgreSQL.

EXPERIENCE
Senior Software Engineer, Acme Pay (2019 - Present)
- Built a ledger service handling 2M transactions per day
- Reduced p99 latency by 40% through query tuning

EDUCATION
B.S. Computer Science, State University, 2017

SKILLS
Go, PostgreSQL, Kafka, Docker, Kubernetes`

// TestGeminiIntegration talks to the real API and only runs with GEMINI_API_KEY set.
func TestGeminiIntegration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" || testing.Short() {
		t.Skip("GEMINI_API_KEY not set")
	}

	cfg := &config.Config{AI: config.AIConfig{
		Provider:        "gemini",
		Model:           "gemini-2.0-flash",
		APIKey:          apiKey,
		Timeout:         time.Minute,
		MaxRetries:      1,
		MaxOutputTokens: 1200,
	}}
	svc, err := NewService(cfg, nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	record, err := svc.AnalyzeResume(ctx, integrationResume)
	require.NoError(t, err)
	assert.NotEmpty(t, record)

	enhanced, err := svc.EnhanceResume(ctx, integrationResume, types.Analysis{Roles: []string{"Backend Engineer"}})
	require.NoError(t, err)
	assert.NotEmpty(t, enhanced)

	info := svc.ModelInfo(ctx)
	assert.True(t, info[config.OperationAnalyze].Available, info[config.OperationAnalyze].Error)
}
