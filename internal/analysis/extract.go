package analysis

import (
	"regexp"
	"slices"
	"strings"

	"resumeats/internal/types"
)

var (
	wordPattern     = regexp.MustCompile(`\w+`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s-]{7,}\d`)
	linkedInPattern = regexp.MustCompile(`(?i)linkedin\.com/[\w-]+`)
	topicToken      = regexp.MustCompile(`[a-z]{2,}`)

	// metricPattern feeds the metrics rubric.
	metricPattern = regexp.MustCompile(`\d+%|\d+\+\s*(?:years?|months?)|\$\d+[KMB]?|[Ii]ncreased?|[Ii]mproved?|[Rr]educed?`)
	// metricMention is the looser check behind the "no measurable accomplishments" issue.
	metricMention = regexp.MustCompile(`\d+%|\d+ years|\d+\+|\d+ months`)

	actionVerbPattern = regexp.MustCompile(`\b(?:` + strings.Join(ActionVerbs, "|") + `)\b`)
)

// Features is the full set of facets extracted from one cleaned text
type Features struct {
	WordCount       int
	Contact         types.ContactInfo
	Sections        types.SectionMap
	Skills          []string
	Topics          []string
	Roles           []string
	Metrics         int
	ActionVerbs     int
	Lines           int
	MentionsMetrics bool
}

// Extract runs every extractor over cleaned text.
func Extract(cleaned string) Features {
	topics := ExtractTopics(cleaned)
	return Features{
		WordCount:       CountWords(cleaned),
		Contact:         ExtractContact(cleaned),
		Sections:        DetectSections(cleaned),
		Skills:          ExtractSkills(cleaned),
		Topics:          topics,
		Roles:           InferRoles(cleaned),
		Metrics:         CountMetrics(cleaned),
		ActionVerbs:     CountActionVerbs(cleaned),
		Lines:           CountLines(cleaned),
		MentionsMetrics: metricMention.MatchString(cleaned),
	}
}

// CountWords counts maximal runs of ASCII word characters.
func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// CountLines counts newline-delimited lines; the empty string has one line.
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// ExtractContact returns the first email, phone and LinkedIn match in document order.
func ExtractContact(text string) types.ContactInfo {
	return types.ContactInfo{
		Email:    emailPattern.FindString(text),
		Phone:    phonePattern.FindString(text),
		LinkedIn: linkedInPattern.FindString(text),
	}
}

// DetectSections marks a section keyword present when any case-folded line contains it.
func DetectSections(text string) types.SectionMap {
	sections := make(types.SectionMap)
	for line := range strings.SplitSeq(text, "\n") {
		lower := strings.ToLower(line)
		for _, key := range SectionKeywords {
			if strings.Contains(lower, key) {
				sections[key] = true
			}
		}
	}
	return sections
}

// ExtractSkills returns the lexicon terms found in text, in lexicon order.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range SkillLexicon {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractTopics ranks lowercase alphabetic tokens by frequency. Ties keep
// first-seen order and the result holds at most 30 tokens.
func ExtractTopics(text string) []string {
	counts := make(map[string]int)
	order := []string{}
	for _, word := range topicToken.FindAllString(strings.ToLower(text), -1) {
		if topicStopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	if len(order) > maxTopics {
		order = order[:maxTopics]
	}
	return order
}

// InferRoles scores each role cluster by keyword hits and returns up to three
// positive-scoring roles, or ["General"] when none match.
func InferRoles(text string) []string {
	lower := strings.ToLower(text)

	type scored struct {
		name  string
		score int
	}
	ranked := make([]scored, 0, len(roleClusters))
	for _, cluster := range roleClusters {
		hits := 0
		for _, kw := range cluster.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		ranked = append(ranked, scored{name: cluster.Name, score: hits})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.score - a.score
	})

	roles := []string{}
	for _, r := range ranked {
		if r.score <= 0 || len(roles) == maxRoles {
			break
		}
		roles = append(roles, r.name)
	}
	if len(roles) == 0 {
		return []string{DefaultRole}
	}
	return roles
}

// CountMetrics counts quantified-achievement matches used by the metrics rubric.
func CountMetrics(text string) int {
	return len(metricPattern.FindAllStringIndex(text, -1))
}

// CountActionVerbs counts capitalized strong verbs at word boundaries.
func CountActionVerbs(text string) int {
	return len(actionVerbPattern.FindAllStringIndex(text, -1))
}
