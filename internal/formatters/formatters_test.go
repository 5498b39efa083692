package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumeats/internal/analysis"
	"resumeats/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleAnalysis() types.Analysis {
	return types.Analysis{
		WordCount:   182,
		ContactInfo: types.ContactInfo{Email: "jane@example.com", Phone: "555-123-4567"},
		Sections:    types.SectionMap{"skills": true, "experience": true},
		Skills:      []string{"Go", "Docker"},
		Topics:      []string{"payments"},
		Roles:       []string{"Backend Engineer"},
		Issues:      []string{"Few quantified achievements"},
		Strategies:  []string{"Add metrics to bullets"},
		ATSScore:    72,
		Summary:     "Backend engineer building payment APIs.",
	}
}

const sampleResume = `Jane Doe
jane@example.com | 555-123-4567 | linkedin.com/in/janedoe
Experience:
- Built payment APIs in Go and Docker
Skills:
Go, Docker`

func sampleScore() *types.ScoreReport {
	cleaned := analysis.Normalize(sampleResume)
	report := analysis.Score(analysis.AnalyzeCleaned(cleaned), cleaned)
	return &report
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()
	assert.Equal(t, []string{"json", "markdown", "text", "yaml"}, registry.GetSupportedFormats())

	resp := types.AnalyzeResponse{SessionID: "abc", Source: "local", Analysis: sampleAnalysis()}

	out, err := registry.Format(resp, "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "=== RESUME ANALYSIS ==="))

	_, err = registry.Format(resp, "xml")
	assert.EqualError(t, err, "no formatter found for format 'xml' and type 'AnalyzeResponse'")

	_, err = registry.Format(map[string]int{"a": 1}, "text")
	assert.Error(t, err, "text has no generic formatter")
}

func TestJSONAndYAMLRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()
	resp := types.AnalyzeResponse{SessionID: "abc", Source: "merged", Analysis: sampleAnalysis(), Score: sampleScore()}

	out, err := registry.Format(resp, "json")
	require.NoError(t, err)
	var decoded types.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, resp, decoded)

	out, err = registry.Format(resp, "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "atsScore: 72")
	var fromYAML types.AnalyzeResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, resp, fromYAML)
}

func TestAnalyzeText(t *testing.T) {
	resp := types.AnalyzeResponse{
		SessionID: "abc",
		Source:    "local",
		File:      "cv.txt",
		Analysis:  sampleAnalysis(),
		Score:     sampleScore(),
		Fallback:  "remote analyze failed, using local result",
	}

	out, err := (&AnalyzeTextFormatter{}).Format(resp)
	require.NoError(t, err)

	for _, want := range []string{
		"File: cv.txt",
		"ATS Score: 72/100",
		"  LinkedIn: (none)",
		"Sections: experience, skills",
		"Skills: Go, Docker",
		"Issues:\n- Few quantified achievements\n",
		"=== SCORE BREAKDOWN ===",
		"Note: remote analyze failed",
	} {
		assert.Contains(t, out, want)
	}

	_, err = (&AnalyzeTextFormatter{}).Format("nope")
	assert.EqualError(t, err, "expected AnalyzeResponse, got string")
}

func TestAnalyzeMarkdown(t *testing.T) {
	resp := types.AnalyzeResponse{Source: "merged", Analysis: sampleAnalysis(), Score: sampleScore()}
	out, err := (&AnalyzeMarkdownFormatter{}).Format(resp)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Resume Analysis\n\n"))
	assert.Contains(t, out, "### Suggested Roles\n\n- Backend Engineer\n")
	assert.Contains(t, out, "| email | +5 |")
	assert.NotContains(t, out, "### Topics\n\n\n", "empty lists are skipped")
}

func TestListFormatters(t *testing.T) {
	registry := NewFormatterRegistry()
	batch := []types.AnalyzeResponse{
		{File: "a.txt", Analysis: sampleAnalysis()},
		{File: "b.txt", Analysis: sampleAnalysis()},
	}

	out, err := registry.Format(batch, "text")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "=== RESUME ANALYSIS ==="))
	assert.Less(t, strings.Index(out, "a.txt"), strings.Index(out, "b.txt"))

	out, err = registry.Format(batch, "json")
	require.NoError(t, err)
	var decoded []types.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 2)

	scores := []types.ScoreResponse{{File: "a.txt", Score: *sampleScore()}}
	out, err = registry.Format(scores, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# a.txt\n\n## Score Breakdown")
}

func TestEnhanceFormatters(t *testing.T) {
	resp := types.EnhanceResponse{
		Source:         "remote",
		Analysis:       sampleAnalysis(),
		EnhancedResume: "Professional Summary:\nBackend engineer.\n\nKey Skills:\n- Go\n- Docker",
	}

	text, err := (&EnhanceTextFormatter{}).Format(resp)
	require.NoError(t, err)
	assert.Contains(t, text, "=== ENHANCED RESUME ===\n\nProfessional Summary:")
	assert.Contains(t, text, "Source: remote")

	md, err := (&EnhanceMarkdownFormatter{}).Format(resp)
	require.NoError(t, err)
	assert.Contains(t, md, "### Professional Summary\n\nBackend engineer.\n\n")
	assert.Contains(t, md, "### Key Skills\n\n- Go\n- Docker\n")
}

func TestScoreBreakdownFollowsRubricOrder(t *testing.T) {
	report := sampleScore()
	require.Len(t, report.Breakdown, len(analysis.Categories()))

	text, err := (&ScoreTextFormatter{}).Format(types.ScoreResponse{Score: *report})
	require.NoError(t, err)
	md, err := (&ScoreMarkdownFormatter{}).Format(types.ScoreResponse{Score: *report})
	require.NoError(t, err)

	for name, out := range map[string]string{"text": text, "markdown": md} {
		t.Run(name, func(t *testing.T) {
			last := -1
			for _, category := range analysis.Categories() {
				idx := strings.Index(out, " "+category+" ")
				require.NotEqual(t, -1, idx, category)
				assert.Greater(t, idx, last, "%s out of order", category)
				last = idx
			}
		})
	}

	keys := breakdownKeys(map[string]int{"zeta": 1, "linkedin": 0, "alpha": 2, "email": 5})
	assert.Equal(t, []string{"email", "linkedin", "alpha", "zeta"}, keys, "unknown keys follow, sorted")
}

func TestSectionNamesFollowHeadingOrder(t *testing.T) {
	sections := types.SectionMap{"skills": true, "summary": true, "education": true, "experience": true, "volunteering": true, "projects": false}
	assert.Equal(t, []string{"summary", "experience", "skills", "education", "volunteering"}, sectionNames(sections))
}

func TestResumeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "heading first", in: "Experience:\n- built APIs", want: "### Experience\n\n- built APIs\n"},
		{name: "paragraph", in: "  Jane Doe  \n\n\nEngineer", want: "Jane Doe\n\nEngineer\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResumeMarkdown(tt.in))
		})
	}
}

func BenchmarkAnalyzeText(b *testing.B) {
	resp := types.AnalyzeResponse{Analysis: sampleAnalysis(), Score: sampleScore()}
	f := &AnalyzeTextFormatter{}
	for b.Loop() {
		_, _ = f.Format(resp)
	}
}
