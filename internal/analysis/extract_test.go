package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeats/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: "\t\r\n ", want: ""},
		{name: "tabs and carriage returns", raw: "a\t\tb\r\n\n\nc   d  ", want: "a b c d"},
		{name: "blank lines collapse", raw: "  Hello\n\n\nWorld  ", want: "Hello\nWorld"},
		{name: "single newlines kept", raw: "line one\nline two", want: "line one\nline two"},
		{name: "padded newline merges lines", raw: "x \n y", want: "x y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"a\t\tb\r\n\n\nc   d  ",
		"Name\n\n\n  Title \t Here\r\n\r\nSkills:  Go,  SQL",
		"\n\n\n\t\t\r\r",
		"unicode ✓ text with nbsp\n\nand more",
		loadFixture(t, "rich_resume.txt"),
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 2, CountWords("Jane Doe"))
	assert.Equal(t, 4, CountWords("node.js, c# and_more"))
	assert.Equal(t, 3, CountWords("  10x   engineer!! yes "))
}

func TestExtractContact(t *testing.T) {
	t.Run("first match per field", func(t *testing.T) {
		got := ExtractContact("reach me at a.b@mail.io or LINKEDIN.COM/jane-doe, call 555-123-4567 now or x@y.org")
		assert.Equal(t, types.ContactInfo{
			Email:    "a.b@mail.io",
			Phone:    "555-123-4567",
			LinkedIn: "LINKEDIN.COM/jane-doe",
		}, got)
	})

	t.Run("absent fields are empty", func(t *testing.T) {
		assert.Equal(t, types.ContactInfo{}, ExtractContact("Jane Doe"))
	})

	t.Run("short digit runs are not phones", func(t *testing.T) {
		assert.Empty(t, ExtractContact("call 555-1234").Phone)
		assert.Equal(t, "+1 555 5555", ExtractContact("Phones: +1 555 5555").Phone)
	})

	t.Run("linkedin slug stops at slash", func(t *testing.T) {
		assert.Equal(t, "linkedin.com/in", ExtractContact("linkedin.com/in/alex-morgan").LinkedIn)
	})
}

func TestDetectSections(t *testing.T) {
	got := DetectSections("WORK EXPERIENCE\nKey Skills")
	assert.Equal(t, types.SectionMap{"experience": true, "work experience": true, "skills": true}, got)
	assert.Equal(t, 3, got.Count())

	assert.Empty(t, DetectSections(""))
	assert.True(t, DetectSections("Certifications").Has("certification", "certifications"))
	assert.Equal(t, 2, DetectSections("Certifications").Count())
}

func TestExtractSkills(t *testing.T) {
	t.Run("every lexicon term is found case-insensitively", func(t *testing.T) {
		for _, term := range SkillLexicon {
			text := "Worked with " + strings.ToUpper(term) + " daily"
			assert.Contains(t, ExtractSkills(text), term, "term %q", term)
		}
	})

	t.Run("substring containment and lexicon order", func(t *testing.T) {
		assert.Equal(t, []string{"javascript", "java", "rest"}, ExtractSkills("I am interested in JavaScript"))
	})

	t.Run("none found is empty not nil", func(t *testing.T) {
		got := ExtractSkills("Jane Doe")
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestExtractTopics(t *testing.T) {
	assert.Equal(t, []string{"go", "rust", "python"}, ExtractTopics("Go rust go python RUST go the and skills a"))
	assert.Empty(t, ExtractTopics(""))

	var b strings.Builder
	for c := 'a'; c <= 'z'; c++ {
		for d := 'a'; d <= 'b'; d++ {
			b.WriteString(string([]rune{c, d, 'x'}) + " ")
		}
	}
	topics := ExtractTopics(b.String())
	assert.Len(t, topics, 30)
	assert.Equal(t, "aax", topics[0], "ties keep first-seen order")
}

func TestInferRoles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "fallback", text: "Jane Doe", want: []string{"General"}},
		{name: "empty", text: "", want: []string{"General"}},
		{name: "ties keep cluster order", text: "We test product roadmap with pytest and docker", want: []string{"QA / Tester", "Product/PM", "DevOps"}},
		{name: "single role", text: "Kubernetes operator", want: []string{"DevOps"}},
		{
			name: "at most three",
			text: "react node python selenium pytest qa pandas sql excel docker aws azure tensorflow",
			want: []string{"QA / Tester", "Software Developer", "Data Analyst"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferRoles(tt.text))
		})
	}
}

func TestCountMetricsAndVerbs(t *testing.T) {
	assert.Equal(t, 5, CountMetrics("Increased revenue 20% and reduced churn, saved $5M over 3+ years"))
	assert.Equal(t, 0, CountMetrics(""))
	assert.Equal(t, 2, CountActionVerbs("Led team. Developed API. developed lower. Ledger"))
	assert.Equal(t, 0, CountActionVerbs(""))
}

func TestDetectDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: ""},
		{
			name: "under heading",
			text: "Name\nSUMMARY:\nBuilds reliable services.\nLoves Go.\nEXPERIENCE\nAcme",
			want: "Builds reliable services. Loves Go.",
		},
		{
			name: "opening sentences",
			text: "Jordan Lee\nBackend engineer focused on payments infrastructure. Ships carefully and often! Mentors juniors.",
			want: "Jordan Lee Backend engineer focused on payments infrastructure. Ships carefully and often.",
		},
		{name: "no usable sentence", text: "Jane Doe", want: "."},
		{
			name: "heading with no body falls back to opening lines",
			text: "Profile:\nSKILLS\nOps engineer with a decade of on-call experience. Calm under pressure",
			want: "Profile: SKILLS Ops engineer with a decade of on-call experience. Calm under pressure.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDescription(tt.text))
		})
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(
		"First sentence is long enough. Short one. Another long sentence here! Third long sentence follows? Fourth long sentence too.",
		[]string{"a", "b", "c", "d", "e", "f", "g"},
	)
	assert.Equal(t, "First sentence is long enough. Another long sentence here. Third long sentence follows.\nTop topics: a, b, c, d, e, f", got)
	assert.Equal(t, ".\nTop topics: ", Summarize("", nil))
}

func TestDetectIssues(t *testing.T) {
	t.Run("empty text fires six rules in order", func(t *testing.T) {
		got := DetectIssues(Extract(""))
		assert.Equal(t, []string{
			IssueMissingContact,
			IssueNoExperience,
			IssueTooShort,
			IssueNoSkills,
			IssueNoMetrics,
			IssueFewLineBreaks,
		}, got)
	})

	t.Run("long text", func(t *testing.T) {
		text := strings.Repeat("word ", 2001)
		assert.Contains(t, DetectIssues(Extract(Normalize(text))), IssueTooLong)
	})

	t.Run("rich resume has none", func(t *testing.T) {
		cleaned := Normalize(loadFixture(t, "rich_resume.txt"))
		assert.Empty(t, DetectIssues(Extract(cleaned)))
	})
}

func TestGenerateStrategies(t *testing.T) {
	t.Run("all gaps", func(t *testing.T) {
		assert.Equal(t, []string{
			StrategySummary,
			StrategyEmail,
			StrategyPhone,
			StrategySkills,
			StrategyMetrics,
			StrategyBullets,
			StrategyKeywords,
			StrategyEducation,
		}, GenerateStrategies(Extract("")))
	})

	t.Run("conditional items are omitted", func(t *testing.T) {
		f := Extract("jane@example.com\nPython\nEducation")
		assert.Equal(t, []string{
			StrategySummary,
			StrategyPhone,
			StrategyMetrics,
			StrategyBullets,
			StrategyKeywords,
		}, GenerateStrategies(f))
	})
}
