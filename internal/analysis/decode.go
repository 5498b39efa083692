package analysis

import (
	"bytes"
	"cmp"
	"encoding/json"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"resumeats/internal/types"
)

// valueKind tags the shape of one loosely typed field.
type valueKind int

const (
	kindAbsent valueKind = iota
	kindString
	kindNumber
	kindBool
	kindList
	kindMap
)

type value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
	list []any
	m    map[string]any
}

// classify maps a decoded JSON value (or a value produced by ToRecord) onto
// one of the known shapes. Anything unrecognized is treated as absent.
func classify(v any) value {
	switch t := v.(type) {
	case nil:
		return value{kind: kindAbsent}
	case string:
		return value{kind: kindString, str: t}
	case bool:
		return value{kind: kindBool, b: t}
	case float64:
		return numberValue(t)
	case float32:
		return numberValue(float64(t))
	case int:
		return numberValue(float64(t))
	case int64:
		return numberValue(float64(t))
	case int32:
		return numberValue(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return value{kind: kindString, str: t.String()}
		}
		return numberValue(f)
	case []any:
		return value{kind: kindList, list: t}
	case []string:
		list := make([]any, len(t))
		for i, s := range t {
			list[i] = s
		}
		return value{kind: kindList, list: list}
	case map[string]any:
		return value{kind: kindMap, m: t}
	case map[string]bool:
		m := make(map[string]any, len(t))
		for k, b := range t {
			m[k] = b
		}
		return value{kind: kindMap, m: m}
	case types.SectionMap:
		return classify(map[string]bool(t))
	default:
		return value{kind: kindAbsent}
	}
}

func numberValue(f float64) value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value{kind: kindAbsent}
	}
	return value{kind: kindNumber, num: f}
}

// truthy follows the loose truthiness the remote collaborator's output is written against.
func (v value) truthy() bool {
	switch v.kind {
	case kindString:
		return v.str != ""
	case kindNumber:
		return v.num != 0
	case kindBool:
		return v.b
	case kindList, kindMap:
		return true
	default:
		return false
	}
}

// text renders a scalar as a string; ok is false for lists, maps and absent values.
func (v value) text() (string, bool) {
	switch v.kind {
	case kindString:
		return v.str, true
	case kindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10), true
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case kindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// NormalizeAnalysis coerces a loosely shaped record into a canonical Analysis.
// It never fails: missing, null or unrecognized fields take their defaults.
//
//   - string where a list is expected becomes a one-element list
//   - a keyed mapping where a list is expected becomes its values
//   - numbers are truncated to integers
//   - roles default to ["General"]
//
// The returned atsScore is clamped but callers that hold the cleaned text
// should recompute it with Score.
func NormalizeAnalysis(raw map[string]any) types.Analysis {
	field := func(key string) value { return classify(raw[key]) }

	roles := toStringList(field("roles"))
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}

	return types.Analysis{
		WordCount:   normalizeWordCount(raw),
		ContactInfo: toContactInfo(field("contactInfo")),
		Sections:    toSectionMap(field("sections")),
		Skills:      toStringList(field("skills")),
		Topics:      toStringList(field("topics")),
		Roles:       roles,
		Issues:      toStringList(field("issues")),
		Strategies:  toStringList(field("strategies")),
		ATSScore:    ClampScore(toScore(field("atsScore"))),
		Summary:     toText(field("summary")),
		Description: toText(field("description")),
	}
}

// DecodeAnalysis parses a JSON document into a canonical Analysis. A wrapper
// object of the form {"analysis": {...}} is unwrapped. Malformed input yields
// the default Analysis.
func DecodeAnalysis(data []byte) types.Analysis {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return NormalizeAnalysis(nil)
	}
	if inner, ok := raw["analysis"].(map[string]any); ok {
		raw = inner
	}
	return NormalizeAnalysis(raw)
}

// ToRecord converts an Analysis into the loosely typed record form accepted by
// NormalizeAnalysis, so a canonical value can be overlaid with remote fields.
func ToRecord(a types.Analysis) map[string]any {
	contact := map[string]any{}
	if a.ContactInfo.Email != "" {
		contact["email"] = a.ContactInfo.Email
	}
	if a.ContactInfo.Phone != "" {
		contact["phone"] = a.ContactInfo.Phone
	}
	if a.ContactInfo.LinkedIn != "" {
		contact["linkedin"] = a.ContactInfo.LinkedIn
	}

	sections := make(map[string]any, len(a.Sections))
	for k, present := range a.Sections {
		sections[k] = present
	}

	return map[string]any{
		"wordCount":   a.WordCount,
		"contactInfo": contact,
		"sections":    sections,
		"skills":      anyList(a.Skills),
		"topics":      anyList(a.Topics),
		"roles":       anyList(a.Roles),
		"issues":      anyList(a.Issues),
		"strategies":  anyList(a.Strategies),
		"atsScore":    a.ATSScore,
		"summary":     a.Summary,
		"description": a.Description,
	}
}

// Merge overlays a remote record onto a local analysis, key by key, then
// normalizes the result and recomputes atsScore from the merged analysis and
// the cleaned text. A remote atsScore is never kept.
func Merge(local types.Analysis, remote map[string]any, cleaned string) types.Analysis {
	record := ToRecord(local)
	maps.Copy(record, remote)

	merged := NormalizeAnalysis(record)
	merged.ATSScore = Score(merged, cleaned).Score
	return merged
}

func anyList(items []string) []any {
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func normalizeWordCount(raw map[string]any) int {
	v := classify(raw["wordCount"])
	if v.kind == kindAbsent {
		v = classify(raw["wordcount"])
	}

	n := 0
	switch v.kind {
	case kindNumber:
		n = truncate(v.num)
	case kindString:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v.str)); err == nil {
			n = parsed
		}
	}
	return max(n, 0)
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// toScore accepts a number or a string with a leading integer ("87/100").
func toScore(v value) int {
	switch v.kind {
	case kindNumber:
		return truncate(v.num)
	case kindString:
		digits := leadingInt.FindString(strings.TrimSpace(v.str))
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			// overflow; any out-of-range value clamps the same way
			if strings.HasPrefix(digits, "-") {
				return MinScore
			}
			return MaxScore
		}
		return n
	default:
		return 0
	}
}

func truncate(f float64) int {
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

func toText(v value) string {
	s, _ := v.text()
	return s
}

// toStringList applies the sequence coercions. Nested lists, maps and nulls
// inside a sequence are dropped.
func toStringList(v value) []string {
	out := []string{}
	switch v.kind {
	case kindString:
		if v.str != "" {
			out = append(out, v.str)
		}
	case kindNumber, kindBool:
		if v.truthy() {
			s, _ := v.text()
			out = append(out, s)
		}
	case kindList:
		for _, item := range v.list {
			if s, ok := classify(item).text(); ok {
				out = append(out, s)
			}
		}
	case kindMap:
		for _, key := range orderedKeys(v.m) {
			if s, ok := classify(v.m[key]).text(); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// orderedKeys yields integer-like keys ascending, then the rest lexically.
func orderedKeys(m map[string]any) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b string) int {
		ai, aErr := strconv.ParseUint(a, 10, 32)
		bi, bErr := strconv.ParseUint(b, 10, 32)
		switch {
		case aErr == nil && bErr == nil:
			return cmp.Compare(ai, bi)
		case aErr == nil:
			return -1
		case bErr == nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return keys
}

func toContactInfo(v value) types.ContactInfo {
	if v.kind != kindMap {
		return types.ContactInfo{}
	}
	get := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := v.m[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return types.ContactInfo{
		Email:    get("email"),
		Phone:    get("phone"),
		LinkedIn: get("linkedin", "linkedIn", "linkedIN"),
	}
}

func toSectionMap(v value) types.SectionMap {
	sections := make(types.SectionMap)
	switch v.kind {
	case kindMap:
		for k, item := range v.m {
			if classify(item).truthy() {
				sections[strings.ToLower(k)] = true
			}
		}
	case kindList:
		for _, item := range v.list {
			if s, ok := item.(string); ok && s != "" {
				sections[strings.ToLower(s)] = true
			}
		}
	case kindString:
		if v.str != "" {
			sections[strings.ToLower(v.str)] = true
		}
	}
	return sections
}
