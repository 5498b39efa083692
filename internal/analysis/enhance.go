package analysis

import (
	"cmp"
	"regexp"
	"strings"

	"resumeats/internal/types"
)

// Placeholders used when the analysis or text lacks the corresponding data
const (
	PlaceholderName       = "[Your Name]"
	PlaceholderEmail      = "you@example.com"
	PlaceholderPhone      = "+1 555 555 5555"
	PlaceholderSummary    = "Experienced professional with a strong background..."
	PlaceholderExperience = "Developed and maintained production-grade software and collaborated with cross-functional teams to deliver features and improvements."
	PlaceholderEducation  = "B.Sc. in Computer Science — [University], [Year]"
)

const (
	maxEnhancedSkills = 12
	maxEnhancedTopics = 8
	maxExperience     = 3
)

var (
	experienceLine = regexp.MustCompile(`(?i)\b(?:generally|responsible|managed|developer|engineer|worked|built)\b`)
	degreePattern  = regexp.MustCompile(`(?i)(?:Bachelor|Master|BA|BS|MS|PhD|B\.Sc|M\.Sc|Bachelor of|Master of).{0,60}`)
	leadingBullet  = regexp.MustCompile(`^\s*-?\s*`)
)

// bulletRewrites run in order; later patterns see the output of earlier ones.
var bulletRewrites = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)worked on|responsible for|involved in`), "Developed"},
	{regexp.MustCompile(`(?i)participated in|assisted`), "Contributed to"},
	{regexp.MustCompile(`(?i)led|lead`), "Led"},
}

// Enhance composes the rewritten resume: header, skills, experience and
// education blocks separated by blank lines.
func Enhance(cleaned string, a types.Analysis) string {
	return strings.Join([]string{
		GenerateHeader(a),
		GenerateSkills(a),
		GenerateExperience(cleaned),
		GenerateEducation(cleaned),
	}, "\n\n")
}

// GenerateHeader renders the name placeholder, target titles, contact line and
// the first line of the summary.
func GenerateHeader(a types.Analysis) string {
	email := cmp.Or(a.ContactInfo.Email, PlaceholderEmail)
	phone := cmp.Or(a.ContactInfo.Phone, PlaceholderPhone)
	summary, _, _ := strings.Cut(cmp.Or(a.Summary, PlaceholderSummary), "\n")

	var b strings.Builder
	b.WriteString("Name: " + PlaceholderName + "\n")
	b.WriteString("Title: " + strings.Join(a.Roles, " | ") + "\n")
	b.WriteString("Contact: " + email + " | " + phone + "\n\n")
	b.WriteString("Professional Summary:\n" + summary)
	return b.String()
}

// GenerateSkills lists up to 12 skills, or up to 8 topics when no skill was found.
func GenerateSkills(a types.Analysis) string {
	list := a.Topics[:min(len(a.Topics), maxEnhancedTopics)]
	if len(a.Skills) > 0 {
		list = a.Skills[:min(len(a.Skills), maxEnhancedSkills)]
	}
	return "Key Skills:\n- " + strings.Join(list, "\n- ")
}

// GenerateExperience picks up to three experience-like lines and rewrites
// each as a bullet.
func GenerateExperience(cleaned string) string {
	picked := make([]string, 0, maxExperience)
	for line := range strings.SplitSeq(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(strings.ToLower(line), "company") || experienceLine.MatchString(line) {
			picked = append(picked, line)
			if len(picked) == maxExperience {
				break
			}
		}
	}
	if len(picked) == 0 {
		picked = append(picked, PlaceholderExperience)
	}

	bullets := make([]string, len(picked))
	for i, line := range picked {
		bullets[i] = "- " + RewriteBullet(line)
	}
	return "Experience:\n" + strings.Join(bullets, "\n")
}

// GenerateEducation quotes the first degree mention with up to 60 trailing
// characters, or a placeholder degree line.
func GenerateEducation(cleaned string) string {
	degree := degreePattern.FindString(cleaned)
	if degree == "" {
		degree = PlaceholderEducation
	}
	return "Education:\n- " + degree
}

// RewriteBullet swaps weak phrasing for action verbs, strips a leading dash
// and prepends "Developed" when no action verb remains. The rewrite is lexical
// and may read awkwardly.
func RewriteBullet(line string) string {
	t := line
	for _, r := range bulletRewrites {
		t = r.pattern.ReplaceAllLiteralString(t, r.replacement)
	}
	t = leadingBullet.ReplaceAllLiteralString(t, "")
	if !actionVerbPattern.MatchString(t) {
		t = "Developed " + t
	}
	return t
}
