package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"resumeats/internal/types"
)

// Score bounds
const (
	MinScore = -50
	MaxScore = 100
)

// Rubric categories, in evaluation order
const (
	CategoryEmail          = "email"
	CategoryPhone          = "phone"
	CategoryExperience     = "experience"
	CategorySkills         = "skills"
	CategoryMetrics        = "metrics"
	CategoryLength         = "length"
	CategoryStructure      = "structure"
	CategoryRoles          = "roles"
	CategoryEducation      = "education"
	CategoryKeywords       = "keywords"
	CategorySummary        = "summary"
	CategoryCertifications = "certifications"
	CategoryProjects       = "projects"
	CategoryActionVerbs    = "actionVerbs"
	CategoryLinkedIn       = "linkedin"
)

var categories = []string{
	CategoryEmail, CategoryPhone, CategoryExperience, CategorySkills, CategoryMetrics,
	CategoryLength, CategoryStructure, CategoryRoles, CategoryEducation, CategoryKeywords,
	CategorySummary, CategoryCertifications, CategoryProjects, CategoryActionVerbs, CategoryLinkedIn,
}

// Categories returns the rubric names in evaluation order.
func Categories() []string {
	return append([]string(nil), categories...)
}

var (
	degreeMention        = regexp.MustCompile(`bachelor|master|phd|b\.?s\.?|m\.?s\.?|degree`)
	certificationMention = regexp.MustCompile(`certified|certification|certificate`)
)

type scoreSheet struct {
	total     int
	breakdown map[string]int
	penalties []string
}

func (s *scoreSheet) award(category string, points int) {
	s.total += points
	s.breakdown[category] = points
}

func (s *scoreSheet) penalize(category string, points int, format string, args ...any) {
	s.award(category, points)
	s.penalties = append(s.penalties, fmt.Sprintf(format, args...))
}

// Score computes the ATS score of an analysis against its cleaned text.
// The returned Score is the clamped sum of Breakdown; Total is the raw sum.
// Absent dimensions cost more than partial credit earns.
func Score(a types.Analysis, text string) types.ScoreReport {
	s := &scoreSheet{breakdown: make(map[string]int, len(categories)), penalties: []string{}}
	lower := strings.ToLower(text)

	scoreContact(s, a.ContactInfo)
	scoreExperience(s, a.Sections, lower)
	scoreSkills(s, len(a.Skills))
	scoreMetrics(s, CountMetrics(text))
	scoreLength(s, a.WordCount)
	scoreStructure(s, a.Sections.Count(), CountLines(text))
	scoreRoles(s, a.Roles)
	scoreEducation(s, a.Sections, lower)
	scoreKeywords(s, len(a.Topics))
	scoreBonuses(s, a, text, lower)

	return types.ScoreReport{
		Score:     ClampScore(s.total),
		Total:     s.total,
		Breakdown: s.breakdown,
		Penalties: s.penalties,
	}
}

// ClampScore bounds a raw score to [MinScore, MaxScore].
func ClampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

func scoreContact(s *scoreSheet, contact types.ContactInfo) {
	if contact.Email != "" {
		s.award(CategoryEmail, 5)
	} else {
		s.penalize(CategoryEmail, -5, "Missing email (-5)")
	}

	if contact.Phone != "" {
		s.award(CategoryPhone, 5)
	} else {
		s.penalize(CategoryPhone, -5, "Missing phone (-5)")
	}
}

func scoreExperience(s *scoreSheet, sections types.SectionMap, lower string) {
	switch {
	case sections.Has("experience", "work experience"):
		s.award(CategoryExperience, 10)
	case strings.Contains(lower, "experience"):
		s.penalize(CategoryExperience, 3, "Experience not clearly labeled (-7)")
	default:
		s.penalize(CategoryExperience, -10, "No experience section (-10)")
	}
}

func scoreSkills(s *scoreSheet, count int) {
	switch {
	case count >= 10:
		s.award(CategorySkills, 5)
	case count >= 7:
		s.penalize(CategorySkills, 3, "Only %d skills, need 10+ (-2)", count)
	case count >= 5:
		s.penalize(CategorySkills, 2, "Only %d skills, need 10+ (-3)", count)
	case count >= 3:
		s.penalize(CategorySkills, 1, "Only %d skills, need 10+ (-4)", count)
	default:
		s.penalize(CategorySkills, -5, "Critically low skills: %d (-5)", count)
	}
}

func scoreMetrics(s *scoreSheet, count int) {
	switch {
	case count >= 8:
		s.award(CategoryMetrics, 12)
	case count >= 6:
		s.penalize(CategoryMetrics, 8, "Only %d metrics, need 8+ (-4)", count)
	case count >= 4:
		s.penalize(CategoryMetrics, 5, "Only %d metrics, need 8+ (-7)", count)
	case count >= 2:
		s.penalize(CategoryMetrics, 2, "Only %d metrics, need 8+ (-10)", count)
	default:
		s.penalize(CategoryMetrics, -8, "No quantifiable achievements (-8)")
	}
}

func scoreLength(s *scoreSheet, words int) {
	switch {
	case words >= 300 && words <= 600:
		s.award(CategoryLength, 8)
	case words >= 250 && words < 300:
		s.penalize(CategoryLength, 5, "Resume a bit short (%d words) (-3)", words)
	case words >= 200 && words < 250:
		s.penalize(CategoryLength, 3, "Resume too short (%d words) (-5)", words)
	case words > 600 && words <= 700:
		s.penalize(CategoryLength, 4, "Resume a bit long (%d words) (-4)", words)
	case words < 200:
		s.penalize(CategoryLength, -5, "Resume critically short (%d words) (-5)", words)
	default:
		s.penalize(CategoryLength, 1, "Resume too long (%d words) (-7)", words)
	}
}

func scoreStructure(s *scoreSheet, sectionCount, lineCount int) {
	switch {
	case sectionCount >= 5 && lineCount >= 20:
		s.award(CategoryStructure, 10)
	case sectionCount >= 4 && lineCount >= 15:
		s.penalize(CategoryStructure, 6, "Structure needs improvement (-7)")
	default:
		s.penalize(CategoryStructure, -5, "Poor structure (-5)")
	}
}

func scoreRoles(s *scoreSheet, roles []string) {
	count := len(roles)
	if count > 0 && roles[0] == DefaultRole {
		count = 0
	}
	switch {
	case count >= 3:
		s.award(CategoryRoles, 5)
	case count >= 2:
		s.penalize(CategoryRoles, 3, "Limited role targeting (-2)")
	case count >= 1:
		s.penalize(CategoryRoles, 1, "Weak role targeting (-4)")
	default:
		s.penalize(CategoryRoles, -3, "No clear role targeting (-3)")
	}
}

func scoreEducation(s *scoreSheet, sections types.SectionMap, lower string) {
	switch {
	case sections.Has("education"):
		s.award(CategoryEducation, 5)
	case degreeMention.MatchString(lower):
		s.penalize(CategoryEducation, 2, "Education mentioned but not in section (-3)")
	default:
		s.penalize(CategoryEducation, -3, "No education section (-3)")
	}
}

func scoreKeywords(s *scoreSheet, topicCount int) {
	switch {
	case topicCount >= 30:
		s.award(CategoryKeywords, 10)
	case topicCount >= 20:
		s.penalize(CategoryKeywords, 6, "Need more keywords (%d/30) (-4)", topicCount)
	case topicCount >= 15:
		s.penalize(CategoryKeywords, 3, "Low keyword count (%d/30) (-7)", topicCount)
	default:
		s.penalize(CategoryKeywords, -5, "Very low keyword count (%d/30) (-5)", topicCount)
	}
}

// scoreBonuses applies the reward-only rubrics; none of them subtract.
func scoreBonuses(s *scoreSheet, a types.Analysis, text, lower string) {
	if a.Sections.Has("summary", "professional summary", "objective") {
		s.award(CategorySummary, 5)
	} else {
		s.award(CategorySummary, 0)
	}

	switch {
	case a.Sections.Has("certification", "certifications"):
		s.award(CategoryCertifications, 5)
	case certificationMention.MatchString(lower):
		s.award(CategoryCertifications, 2)
	default:
		s.award(CategoryCertifications, 0)
	}

	if a.Sections.Has("projects") {
		s.award(CategoryProjects, 5)
	} else {
		s.award(CategoryProjects, 0)
	}

	verbs := CountActionVerbs(text)
	switch {
	case verbs >= 10:
		s.award(CategoryActionVerbs, 5)
	case verbs >= 6:
		s.award(CategoryActionVerbs, 3)
	case verbs >= 3:
		s.award(CategoryActionVerbs, 1)
	default:
		s.award(CategoryActionVerbs, 0)
	}

	if a.ContactInfo.LinkedIn != "" {
		s.award(CategoryLinkedIn, 5)
	} else {
		s.award(CategoryLinkedIn, 0)
	}
}
