package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeats/internal/types"
)

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze("")

	assert.Equal(t, 0, a.WordCount)
	assert.Equal(t, MinScore, a.ATSScore)
	assert.Equal(t, []string{DefaultRole}, a.Roles)
	require.NotNil(t, a.Skills)
	assert.Empty(t, a.Skills)
	assert.Empty(t, a.Topics)
	assert.Empty(t, a.Sections)
	assert.Len(t, a.Issues, 6)
	assert.NotContains(t, a.Issues, IssueTooLong)
	assert.Empty(t, a.Description)
}

func TestAnalyzeMinimalResume(t *testing.T) {
	a := Analyze("Jane Doe")

	assert.Equal(t, 2, a.WordCount)
	assert.Equal(t, types.ContactInfo{}, a.ContactInfo)
	assert.Empty(t, a.Skills)
	assert.Equal(t, []string{"General"}, a.Roles)
	assert.LessOrEqual(t, a.ATSScore, -30)
	assert.Contains(t, a.Issues, "Missing clear contact information (email/phone)")
	assert.Contains(t, a.Issues, "No technical skills detected")
	assert.Equal(t, []string{"jane", "doe"}, a.Topics)
	assert.Equal(t, ".\nTop topics: jane, doe", a.Summary)
	assert.Equal(t, ".", a.Description)
}

func TestAnalyzeRichResume(t *testing.T) {
	a := Analyze(loadFixture(t, "rich_resume.txt"))

	assert.Equal(t, 100, a.ATSScore)
	assert.Equal(t, "alex.morgan@example.com", a.ContactInfo.Email)
	assert.Equal(t, "+1 415 555 0199", a.ContactInfo.Phone)
	assert.NotEmpty(t, a.ContactInfo.LinkedIn)
	assert.Equal(t, []string{"Software Developer", "Data Scientist", "QA / Tester"}, a.Roles)
	assert.Len(t, a.Topics, 30)
	assert.Empty(t, a.Issues)
	assert.Equal(t, []string{StrategySummary, StrategyMetrics, StrategyBullets, StrategyKeywords}, a.Strategies)
	assert.True(t, a.Sections.Has("work experience"))
	assert.True(t, a.Sections.Has("certifications"))
	assert.True(t, a.Sections.Has("projects"))
}

func TestAnalyzeDeterministic(t *testing.T) {
	raw := loadFixture(t, "rich_resume.txt")
	first, second := Analyze(raw), Analyze(raw)
	assert.Equal(t, first, second)

	cleaned := Normalize(raw)
	assert.Equal(t, Enhance(cleaned, first), Enhance(cleaned, second))
}

func TestAnalyzeConcurrent(t *testing.T) {
	raw := loadFixture(t, "rich_resume.txt")
	want := Analyze(raw)

	results := make(chan types.Analysis, 8)
	for range 8 {
		go func() { results <- Analyze(raw) }()
	}
	for range 8 {
		assert.Equal(t, want, <-results)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	raw := loadFixture(b, "rich_resume.txt")
	for b.Loop() {
		Analyze(raw)
	}
}
