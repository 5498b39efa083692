// Package analysis implements the deterministic resume text-analysis engine:
// normalization, feature extraction, issue detection, ATS scoring, strategy
// generation and template-driven enhancement. Every function is pure and total.
package analysis

import (
	"regexp"
	"strings"
)

var (
	tabsAndReturns = regexp.MustCompile(`[\t\r]+`)
	blankLines     = regexp.MustCompile(`\n{2,}`)
	spaceRuns      = regexp.MustCompile(`\s{2,}`)
)

// Normalize produces the cleaned form of raw resume text. Tab and carriage
// return runs become one space, newline runs become one newline, any other
// whitespace run becomes one space, and the result is trimmed.
//
// Whitespace classes are ASCII (RE2 \s is [\t\n\f\r ]).
func Normalize(raw string) string {
	s := tabsAndReturns.ReplaceAllLiteralString(raw, " ")
	s = blankLines.ReplaceAllLiteralString(s, "\n")
	s = spaceRuns.ReplaceAllLiteralString(s, " ")
	return strings.TrimSpace(s)
}
