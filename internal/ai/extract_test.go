package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		wantOK bool
		want   map[string]any
	}{
		{name: "bare object", reply: `{"summary":"ok"}`, wantOK: true, want: map[string]any{"summary": "ok"}},
		{
			name:   "fenced with prose",
			reply:  "Here you go:\n```json\n{\"analysis\": {\"atsScore\": 81}}\n```\nGood luck!",
			wantOK: true,
			want:   map[string]any{"analysis": map[string]any{"atsScore": json.Number("81")}},
		},
		{name: "no braces", reply: "I cannot analyze this resume.", wantOK: false},
		{name: "closing before opening", reply: "} oops {", wantOK: false},
		{name: "two objects", reply: `{"a":1} and {"b":2}`, wantOK: false},
		{name: "truncated", reply: `{"analysis": {"skills": ["Go"`, wantOK: false},
		{name: "array wrapping an object", reply: `[{"a":1}]`, wantOK: true, want: map[string]any{"a": json.Number("1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.reply)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAnalysisRecord(t *testing.T) {
	t.Run("wrapped", func(t *testing.T) {
		record, degraded := AnalysisRecord(`{"analysis": {"summary": "Backend engineer", "skills": ["Go"]}}`)
		assert.False(t, degraded)
		assert.Equal(t, "Backend engineer", record["summary"])
		assert.NotContains(t, record, "analysis")
	})

	t.Run("bare object used as-is", func(t *testing.T) {
		record, degraded := AnalysisRecord(`{"summary": "Designer", "analysis": "not an object"}`)
		assert.False(t, degraded)
		assert.Equal(t, "Designer", record["summary"])
		assert.Equal(t, "not an object", record["analysis"])
	})

	t.Run("not json", func(t *testing.T) {
		record, degraded := AnalysisRecord("The candidate looks strong.")
		assert.True(t, degraded)
		assert.Equal(t, "The candidate looks strong.", record["summary"])
		assert.Equal(t, 50, record["atsScore"])
	})
}

func TestDegradedAnalysis(t *testing.T) {
	reply := strings.Repeat("é", 700)
	record := DegradedAnalysis(reply)

	assert.Equal(t, 600, len([]rune(record["description"].(string))))
	assert.Equal(t, 240, len([]rune(record["summary"].(string))))
	for _, key := range []string{"roles", "skills", "issues", "strategies"} {
		require.Contains(t, record, key)
		assert.Empty(t, record[key])
	}
	assert.Equal(t, 50, record["atsScore"])

	short := DegradedAnalysis("brief")
	assert.Equal(t, "brief", short["description"])
	assert.Equal(t, "brief", short["summary"])
}
