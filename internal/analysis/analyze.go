package analysis

import "resumeats/internal/types"

// Analyze runs the local pipeline over raw text: normalize, extract, detect
// issues, score and recommend. The result is canonical and needs no further
// normalization.
func Analyze(raw string) types.Analysis {
	return AnalyzeCleaned(Normalize(raw))
}

// AnalyzeCleaned is Analyze for text that is already normalized.
func AnalyzeCleaned(cleaned string) types.Analysis {
	f := Extract(cleaned)
	a := types.Analysis{
		WordCount:   f.WordCount,
		ContactInfo: f.Contact,
		Sections:    f.Sections,
		Skills:      f.Skills,
		Topics:      f.Topics,
		Roles:       f.Roles,
		Issues:      DetectIssues(f),
		Strategies:  GenerateStrategies(f),
		Summary:     Summarize(cleaned, f.Topics),
		Description: DetectDescription(cleaned),
	}
	a.ATSScore = Score(a, cleaned).Score
	return a
}
