package analysis

// Issue descriptions reported by DetectIssues
const (
	IssueMissingContact    = "Missing clear contact information (email/phone)"
	IssueNoExperience      = "No clearly labeled Work Experience section"
	IssueTooShort          = "Resume is very short; consider adding more details"
	IssueTooLong           = "Resume is unusually long; aim for concise bullet points"
	IssueNoSkills          = "No technical skills detected"
	IssueNoMetrics         = "No measurable accomplishments or metrics found"
	IssueFewLineBreaks     = "Formatting: few line breaks; add sections and bullets"
	shortResumeWordCount   = 150
	longResumeWordCount    = 2000
	minimumFormattingLines = 8
)

// DetectIssues evaluates the issue rules in fixed order. Any subset may fire.
func DetectIssues(f Features) []string {
	issues := []string{}
	if f.Contact.Email == "" && f.Contact.Phone == "" {
		issues = append(issues, IssueMissingContact)
	}
	if !f.Sections.Has("work experience", "experience") {
		issues = append(issues, IssueNoExperience)
	}
	if f.WordCount < shortResumeWordCount {
		issues = append(issues, IssueTooShort)
	}
	if f.WordCount > longResumeWordCount {
		issues = append(issues, IssueTooLong)
	}
	if len(f.Skills) == 0 {
		issues = append(issues, IssueNoSkills)
	}
	if !f.MentionsMetrics {
		issues = append(issues, IssueNoMetrics)
	}
	if f.Lines < minimumFormattingLines {
		issues = append(issues, IssueFewLineBreaks)
	}
	return issues
}
