package analysis

// SectionKeywords are the headings DetectSections looks for, in report order.
var SectionKeywords = []string{
	"summary",
	"objective",
	"experience",
	"work experience",
	"skills",
	"education",
	"projects",
	"certification",
	"certifications",
}

// SkillLexicon is matched by lowercase substring containment, so "java" also
// hits inside "javascript" and "rest" inside "interest".
var SkillLexicon = []string{
	"javascript", "react", "node", "python", "sql", "aws", "docker", "kubernetes",
	"html", "css", "selenium", "java", "c#", "typescript", "pandas", "numpy",
	"machine learning", "tensorflow", "pytorch", "git", "rest",
}

// ActionVerbs are the strong verbs counted by scoring and enforced by the bullet rewriter.
var ActionVerbs = []string{
	"Developed", "Led", "Implemented", "Designed", "Architected",
	"Improved", "Automated", "Built", "Optimized", "Managed",
	"Created", "Launched", "Spearheaded", "Achieved", "Delivered",
}

// DefaultRole is returned when no role cluster matches.
const DefaultRole = "General"

type roleCluster struct {
	Name     string
	Keywords []string
}

// roleClusters is ordered; ties keep this order.
var roleClusters = []roleCluster{
	{Name: "Software Developer", Keywords: []string{"javascript", "react", "node", "typescript", "python", "java", "c#"}},
	{Name: "QA / Tester", Keywords: []string{"test", "qa", "selenium", "cypress", "automation", "pytest"}},
	{Name: "Data Analyst", Keywords: []string{"pandas", "numpy", "sql", "tableau", "excel", "dashboards"}},
	{Name: "Data Scientist", Keywords: []string{"machine learning", "tensorflow", "pytorch", "scikit", "ml", "model"}},
	{Name: "DevOps", Keywords: []string{"docker", "kubernetes", "aws", "azure", "ci/cd"}},
	{Name: "Product/PM", Keywords: []string{"roadmap", "product", "stakeholder", "metrics"}},
}

var topicStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "was": true, "worked": true, "years": true, "use": true,
	"using": true, "skill": true, "skills": true,
}

var descriptionHeadings = []string{"summary", "professional summary", "about", "about me", "profile", "objective"}

const (
	maxTopics             = 30
	maxRoles              = 3
	summarySentences      = 3
	summaryTopics         = 6
	summaryMinUnitLen     = 10
	descriptionMinUnitLen = 12
	descriptionWindow     = 8
	descriptionLeadLines  = 4
)
