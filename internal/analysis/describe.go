package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceBreak = regexp.MustCompile(`[.!?]\s+`)
	capsHeading   = regexp.MustCompile(`^[A-Z\s]{3,}$`)
)

// sentenceUnits splits text on terminal punctuation followed by whitespace and
// keeps the units whose trimmed length exceeds minLen runes. Units are not trimmed.
func sentenceUnits(text string, minLen int) []string {
	units := []string{}
	for _, unit := range sentenceBreak.Split(text, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(unit)) > minLen {
			units = append(units, unit)
		}
	}
	return units
}

// Summarize joins the first three sentence units and appends the top six topics.
func Summarize(text string, topics []string) string {
	units := sentenceUnits(text, summaryMinUnitLen)
	units = units[:min(len(units), summarySentences)]
	top := topics[:min(len(topics), summaryTopics)]
	return strings.Join(units, ". ") + ".\nTop topics: " + strings.Join(top, ", ")
}

// DetectDescription returns the profile paragraph of a resume. It prefers the
// lines under a summary-like heading and falls back to the opening sentences.
func DetectDescription(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !isDescriptionHeading(strings.TrimSpace(strings.ToLower(line))) {
			continue
		}
		if body := collectDescriptionBody(lines, i); body != "" {
			return body
		}
	}

	lead := make([]string, 0, descriptionLeadLines)
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lead = append(lead, trimmed)
			if len(lead) == descriptionLeadLines {
				break
			}
		}
	}

	units := sentenceUnits(strings.Join(lead, " "), descriptionMinUnitLen)
	out := strings.Join(units[:min(len(units), 2)], ". ")
	if len(units) > 0 && strings.HasSuffix(units[0], ".") {
		return out
	}
	return out + "."
}

func isDescriptionHeading(line string) bool {
	for _, key := range descriptionHeadings {
		if strings.HasPrefix(line, key) || line == key+":" || strings.Contains(line, key+":") {
			return true
		}
	}
	return false
}

// collectDescriptionBody gathers up to seven lines after the heading at index
// i, stopping at a blank line, an all-caps heading or a line ending in ':'.
func collectDescriptionBody(lines []string, i int) string {
	var body []string
	end := min(i+descriptionWindow, len(lines))
	for j := i + 1; j < end; j++ {
		l := strings.TrimSpace(lines[j])
		if l == "" || capsHeading.MatchString(l) || strings.HasSuffix(l, ":") {
			break
		}
		body = append(body, l)
	}
	return strings.Join(body, " ")
}
