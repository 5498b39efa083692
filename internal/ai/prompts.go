package ai

// OperationPrompts holds one prompt per remote operation
type OperationPrompts struct {
	AnalyzeResume string
	EnhanceResume string
}

// DefaultSystemPrompts are sent as system instructions when useSystemPrompts is on
var DefaultSystemPrompts = OperationPrompts{
	AnalyzeResume: `You are a resume analyzer for applicant tracking systems (ATS).
You read plain-text resumes and report on them as strict JSON.
Describe the candidate only from what the resume states; never invent employers, dates, or skills.`,

	EnhanceResume: `You are a professional resume writer.
You rewrite resumes so applicant tracking systems parse them cleanly and recruiters can scan them quickly.
Keep every fact from the original resume and do not invent experience, employers, dates, or credentials.`,
}

// DefaultUserPrompts are fmt templates.
// AnalyzeResume takes the resume text; EnhanceResume takes the target roles
// joined by ", " followed by the resume text.
var DefaultUserPrompts = OperationPrompts{
	AnalyzeResume: "Analyze the resume text delimited by triple backticks and return ONLY a JSON object with the following schema: " +
		`{"analysis": {"description": "one paragraph description/profile", "summary": "concise summary", ` +
		`"roles": [...], "skills": [...], "issues": [...], "strategies": [...], "atsScore": number}}. ` +
		"If fields are missing provide empty arrays or reasonable defaults. Respond with JSON only. Resume:\n\n" +
		"```\n%s\n```",

	EnhanceResume: "Rewrite and enhance the resume text in triple backticks to make it ATS-friendly, professional, " +
		"and optimized for roles: %s. Return the enhanced resume in plain text only (no JSON or commentary).\n\n" +
		"```\n%s\n```",
}

// resolvePrompt returns the configured prompt, or the built-in one when none is set.
// File-backed prompts are already folded into the configured value by the config loader.
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
