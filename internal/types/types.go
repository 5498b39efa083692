package types

// ContactInfo holds the first email, phone and LinkedIn profile found in a resume.
// An empty field means nothing was found.
type ContactInfo struct {
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
}

// SectionMap records which section keywords were seen. Only present keywords are stored.
type SectionMap map[string]bool

// Has reports whether any of the given section keywords is present.
func (s SectionMap) Has(keys ...string) bool {
	for _, k := range keys {
		if s[k] {
			return true
		}
	}
	return false
}

// Count returns the number of sections marked present.
func (s SectionMap) Count() int {
	n := 0
	for _, present := range s {
		if present {
			n++
		}
	}
	return n
}

// Analysis is the canonical result of analyzing one resume
type Analysis struct {
	WordCount   int         `json:"wordCount" yaml:"wordCount"`
	ContactInfo ContactInfo `json:"contactInfo" yaml:"contactInfo"`
	Sections    SectionMap  `json:"sections" yaml:"sections"`
	Skills      []string    `json:"skills" yaml:"skills"`
	Topics      []string    `json:"topics" yaml:"topics"`
	Roles       []string    `json:"roles" yaml:"roles"`
	Issues      []string    `json:"issues" yaml:"issues"`
	Strategies  []string    `json:"strategies" yaml:"strategies"`
	ATSScore    int         `json:"atsScore" yaml:"atsScore"`
	Summary     string      `json:"summary" yaml:"summary"`
	Description string      `json:"description" yaml:"description"`
}

// ScoreReport is the score together with the per-rubric contributions that produced it
type ScoreReport struct {
	Score     int            `json:"score" yaml:"score"`
	Total     int            `json:"total" yaml:"total"` // unclamped sum of Breakdown
	Breakdown map[string]int `json:"breakdown" yaml:"breakdown"`
	Penalties []string       `json:"penalties" yaml:"penalties"`
}

// AnalyzeRequest is the body of POST /analyze and POST /enhance
type AnalyzeRequest struct {
	Text   string `json:"text" validate:"required"`
	Remote bool   `json:"remote"`
}

// AnalyzeResponse is returned by POST /analyze and by the analyze command
type AnalyzeResponse struct {
	SessionID string       `json:"sessionId" yaml:"sessionId"`
	Source    string       `json:"source" yaml:"source"`
	File      string       `json:"file,omitempty" yaml:"file,omitempty"`
	Analysis  Analysis     `json:"analysis" yaml:"analysis"`
	Score     *ScoreReport `json:"score,omitempty" yaml:"score,omitempty"`
	Fallback  string       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// EnhanceResponse is returned by POST /enhance and by the enhance command
type EnhanceResponse struct {
	SessionID      string   `json:"sessionId" yaml:"sessionId"`
	Source         string   `json:"source" yaml:"source"`
	Analysis       Analysis `json:"analysis" yaml:"analysis"`
	EnhancedResume string   `json:"enhancedResume" yaml:"enhancedResume"`
	Fallback       string   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// IngestResponse is returned by POST /ingest
type IngestResponse struct {
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	Text      string `json:"text"`
	Cleaned   string `json:"cleaned"`
	WordCount int    `json:"wordCount"`
}

// ScoreResponse is printed by the score command
type ScoreResponse struct {
	File  string      `json:"file,omitempty" yaml:"file,omitempty"`
	Score ScoreReport `json:"score" yaml:"score"`
}

// StatsResponse is returned by GET /stats
type StatsResponse struct {
	Version        string         `json:"version"`
	Analyses       int64          `json:"analyses"`
	Enhancements   int64          `json:"enhancements"`
	Fallbacks      int64          `json:"fallbacks"`
	RemoteEnabled  bool           `json:"remoteEnabled"`
	CircuitBreaker map[string]any `json:"circuitBreaker,omitempty"`
	RateLimiting   map[string]any `json:"rateLimiting,omitempty"`
}
