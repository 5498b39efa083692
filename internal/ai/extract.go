package ai

import (
	"encoding/json"
	"io"
	"strings"
)

const (
	degradedDescriptionRunes = 600
	degradedSummaryRunes     = 240
	degradedScore            = 50
)

// ExtractJSON decodes the JSON object spanning the first '{' to the last '}'
// of a model reply, falling back to the whole reply. Replies that are not a
// JSON object report false.
func ExtractJSON(reply string) (map[string]any, bool) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end < start {
		return nil, false
	}
	if obj, ok := decodeObject(reply[start : end+1]); ok {
		return obj, true
	}
	return decodeObject(reply)
}

func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// AnalysisRecord turns a model reply into a raw analysis record. An object
// under "analysis" is unwrapped; a bare object is used as-is; anything else
// yields the degraded record.
func AnalysisRecord(reply string) (record map[string]any, degraded bool) {
	obj, ok := ExtractJSON(reply)
	if !ok {
		return DegradedAnalysis(reply), true
	}
	if inner, ok := obj["analysis"].(map[string]any); ok {
		return inner, false
	}
	return obj, false
}

// DegradedAnalysis builds the record used when the model reply is not JSON.
// The reply text stands in for the description and summary.
func DegradedAnalysis(reply string) map[string]any {
	return map[string]any{
		"description": firstRunes(reply, degradedDescriptionRunes),
		"summary":     firstRunes(reply, degradedSummaryRunes),
		"roles":       []any{},
		"skills":      []any{},
		"issues":      []any{},
		"strategies":  []any{},
		"atsScore":    degradedScore,
	}
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
