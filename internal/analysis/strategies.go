package analysis

// Recommendations emitted by GenerateStrategies
const (
	StrategySummary   = "Add a clear one-paragraph summary at the top with role/years/impact"
	StrategyEmail     = "Add email address"
	StrategyPhone     = "Add phone number"
	StrategySkills    = "Add a bullet list of technical skills with keywords for the target role"
	StrategyMetrics   = "Use metrics (percentages, count, dollar amounts) to quantify achievements"
	StrategyBullets   = `Use concise bullet points; start each with an action verb ("Developed", "Improved", "Automated")`
	StrategyKeywords  = "Tailor resume keywords to the job description (match responsibilities & tech stack)"
	StrategyEducation = "Add an Education section if applicable"
)

// GenerateStrategies returns improvement recommendations in fixed order.
// Conditional items are omitted when their gap is absent; the generic items
// are always present.
func GenerateStrategies(f Features) []string {
	strategies := []string{StrategySummary}
	if f.Contact.Email == "" {
		strategies = append(strategies, StrategyEmail)
	}
	if f.Contact.Phone == "" {
		strategies = append(strategies, StrategyPhone)
	}
	if len(f.Skills) == 0 {
		strategies = append(strategies, StrategySkills)
	}
	strategies = append(strategies, StrategyMetrics, StrategyBullets, StrategyKeywords)
	if !f.Sections.Has("education") {
		strategies = append(strategies, StrategyEducation)
	}
	return strategies
}
