package formatters

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"resumeats/internal/analysis"
	"resumeats/internal/types"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("yaml", "any", &YAMLFormatter{})

	registry.RegisterFormatter("text", "AnalyzeResponse", &AnalyzeTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalyzeResponse", &AnalyzeMarkdownFormatter{})
	registry.RegisterFormatter("text", "EnhanceResponse", &EnhanceTextFormatter{})
	registry.RegisterFormatter("markdown", "EnhanceResponse", &EnhanceMarkdownFormatter{})
	registry.RegisterFormatter("text", "ScoreResponse", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoreResponse", &ScoreMarkdownFormatter{})

	registry.RegisterFormatter("text", "[]AnalyzeResponse", listFormatter[types.AnalyzeResponse]{item: &AnalyzeTextFormatter{}, separator: "\n"})
	registry.RegisterFormatter("markdown", "[]AnalyzeResponse", listFormatter[types.AnalyzeResponse]{item: &AnalyzeMarkdownFormatter{}, separator: "\n---\n\n"})
	registry.RegisterFormatter("text", "[]ScoreResponse", listFormatter[types.ScoreResponse]{item: &ScoreTextFormatter{}, separator: "\n"})
	registry.RegisterFormatter("markdown", "[]ScoreResponse", listFormatter[types.ScoreResponse]{item: &ScoreMarkdownFormatter{}, separator: "\n---\n\n"})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	return slices.Sorted(maps.Keys(fr.formatters))
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalyzeResponse:
		return "AnalyzeResponse"
	case types.EnhanceResponse:
		return "EnhanceResponse"
	case types.ScoreResponse:
		return "ScoreResponse"
	case []types.AnalyzeResponse:
		return "[]AnalyzeResponse"
	case []types.ScoreResponse:
		return "[]ScoreResponse"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// listFormatter renders each element with item and joins the results
type listFormatter[T any] struct {
	item      Formatter
	separator string
}

func (lf listFormatter[T]) Format(data any) (string, error) {
	items, ok := data.([]T)
	if !ok {
		return "", fmt.Errorf("expected []%s, got %T", lf.item.SupportedType(), data)
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s, err := lf.item.Format(it)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, lf.separator), nil
}

func (lf listFormatter[T]) SupportedType() string {
	return "[]" + lf.item.SupportedType()
}

// AnalyzeTextFormatter handles text formatting for analysis results
type AnalyzeTextFormatter struct{}

func (atf *AnalyzeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResponse)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResponse, got %T", data)
	}
	a := result.Analysis

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n")
	if result.File != "" {
		fmt.Fprintf(&output, "File: %s\n", result.File)
	}
	fmt.Fprintf(&output, "Session: %s\n", result.SessionID)
	fmt.Fprintf(&output, "Source: %s\n\n", result.Source)

	fmt.Fprintf(&output, "ATS Score: %d/100\n", a.ATSScore)
	fmt.Fprintf(&output, "Word Count: %d\n\n", a.WordCount)

	output.WriteString("Contact:\n")
	fmt.Fprintf(&output, "  Email: %s\n", orNone(a.ContactInfo.Email))
	fmt.Fprintf(&output, "  Phone: %s\n", orNone(a.ContactInfo.Phone))
	fmt.Fprintf(&output, "  LinkedIn: %s\n\n", orNone(a.ContactInfo.LinkedIn))

	fmt.Fprintf(&output, "Sections: %s\n", orNone(strings.Join(sectionNames(a.Sections), ", ")))
	fmt.Fprintf(&output, "Skills: %s\n", orNone(strings.Join(a.Skills, ", ")))
	fmt.Fprintf(&output, "Topics: %s\n", orNone(strings.Join(a.Topics, ", ")))
	fmt.Fprintf(&output, "Roles: %s\n\n", orNone(strings.Join(a.Roles, ", ")))

	output.WriteString("Summary:\n")
	output.WriteString(a.Summary)
	output.WriteString("\n\n")

	writeTextList(&output, "Issues", a.Issues)
	writeTextList(&output, "Strategies", a.Strategies)

	if result.Score != nil {
		output.WriteString(scoreText(*result.Score))
	}
	if result.Fallback != "" {
		fmt.Fprintf(&output, "Note: %s\n", result.Fallback)
	}

	return output.String(), nil
}

func (atf *AnalyzeTextFormatter) SupportedType() string {
	return "AnalyzeResponse"
}

// AnalyzeMarkdownFormatter handles markdown formatting for analysis results
type AnalyzeMarkdownFormatter struct{}

func (amf *AnalyzeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResponse)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResponse, got %T", data)
	}
	a := result.Analysis

	var output strings.Builder

	if result.File != "" {
		fmt.Fprintf(&output, "# Resume Analysis: %s\n\n", result.File)
	} else {
		output.WriteString("# Resume Analysis\n\n")
	}
	fmt.Fprintf(&output, "**ATS Score:** %d/100  \n", a.ATSScore)
	fmt.Fprintf(&output, "**Word Count:** %d  \n", a.WordCount)
	fmt.Fprintf(&output, "**Source:** %s\n\n", result.Source)

	output.WriteString("## Contact\n\n")
	fmt.Fprintf(&output, "- Email: %s\n", orNone(a.ContactInfo.Email))
	fmt.Fprintf(&output, "- Phone: %s\n", orNone(a.ContactInfo.Phone))
	fmt.Fprintf(&output, "- LinkedIn: %s\n\n", orNone(a.ContactInfo.LinkedIn))

	output.WriteString("## Summary\n\n")
	output.WriteString(a.Summary)
	output.WriteString("\n\n")

	writeMarkdownList(&output, "Sections", sectionNames(a.Sections))
	writeMarkdownList(&output, "Skills", a.Skills)
	writeMarkdownList(&output, "Topics", a.Topics)
	writeMarkdownList(&output, "Suggested Roles", a.Roles)
	writeMarkdownList(&output, "Issues", a.Issues)
	writeMarkdownList(&output, "Strategies", a.Strategies)

	if result.Score != nil {
		output.WriteString(scoreMarkdown(*result.Score, "##"))
	}
	if result.Fallback != "" {
		fmt.Fprintf(&output, "> %s\n", result.Fallback)
	}

	return output.String(), nil
}

func (amf *AnalyzeMarkdownFormatter) SupportedType() string {
	return "AnalyzeResponse"
}

// EnhanceTextFormatter handles text formatting for enhancement results
type EnhanceTextFormatter struct{}

func (etf *EnhanceTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EnhanceResponse)
	if !ok {
		return "", fmt.Errorf("expected EnhanceResponse, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ENHANCED RESUME ===\n\n")
	output.WriteString(result.EnhancedResume)
	output.WriteString("\n\n")

	output.WriteString("=== ANALYSIS ===\n")
	fmt.Fprintf(&output, "Source: %s\n", result.Source)
	fmt.Fprintf(&output, "ATS Score: %d/100\n", result.Analysis.ATSScore)
	fmt.Fprintf(&output, "Roles: %s\n", orNone(strings.Join(result.Analysis.Roles, ", ")))
	if result.Fallback != "" {
		fmt.Fprintf(&output, "Note: %s\n", result.Fallback)
	}

	return output.String(), nil
}

func (etf *EnhanceTextFormatter) SupportedType() string {
	return "EnhanceResponse"
}

// EnhanceMarkdownFormatter renders the enhanced resume as markdown: lines
// ending with a colon become headings and "- " lines stay bullets.
type EnhanceMarkdownFormatter struct{}

func (emf *EnhanceMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EnhanceResponse)
	if !ok {
		return "", fmt.Errorf("expected EnhanceResponse, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Enhanced Resume\n\n")
	output.WriteString(ResumeMarkdown(result.EnhancedResume))
	output.WriteString("\n")

	output.WriteString("## Analysis\n\n")
	fmt.Fprintf(&output, "**ATS Score:** %d/100  \n", result.Analysis.ATSScore)
	fmt.Fprintf(&output, "**Source:** %s\n\n", result.Source)
	writeMarkdownList(&output, "Target Roles", result.Analysis.Roles)
	if result.Fallback != "" {
		fmt.Fprintf(&output, "> %s\n", result.Fallback)
	}

	return output.String(), nil
}

func (emf *EnhanceMarkdownFormatter) SupportedType() string {
	return "EnhanceResponse"
}

// ScoreTextFormatter handles text formatting for score reports
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResponse)
	if !ok {
		return "", fmt.Errorf("expected ScoreResponse, got %T", data)
	}
	var output strings.Builder
	if result.File != "" {
		fmt.Fprintf(&output, "File: %s\n", result.File)
	}
	output.WriteString(scoreText(result.Score))
	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ScoreResponse"
}

// ScoreMarkdownFormatter handles markdown formatting for score reports
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoreResponse)
	if !ok {
		return "", fmt.Errorf("expected ScoreResponse, got %T", data)
	}
	var output strings.Builder
	if result.File != "" {
		fmt.Fprintf(&output, "# %s\n\n", result.File)
	}
	output.WriteString(scoreMarkdown(result.Score, "##"))
	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ScoreResponse"
}

// ResumeMarkdown converts plain resume text to markdown
func ResumeMarkdown(text string) string {
	var output strings.Builder
	for line := range strings.SplitSeq(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasSuffix(trimmed, ":"):
			fmt.Fprintf(&output, "\n### %s\n\n", strings.TrimSuffix(trimmed, ":"))
		case strings.HasPrefix(trimmed, "- "):
			output.WriteString(trimmed)
			output.WriteString("\n")
		default:
			output.WriteString(trimmed)
			output.WriteString("\n\n")
		}
	}
	return strings.TrimLeft(output.String(), "\n")
}

func scoreText(report types.ScoreReport) string {
	var output strings.Builder
	output.WriteString("=== SCORE BREAKDOWN ===\n")
	fmt.Fprintf(&output, "Score: %d/100 (raw total %d)\n", report.Score, report.Total)
	for _, key := range breakdownKeys(report.Breakdown) {
		fmt.Fprintf(&output, "  %-20s %+d\n", key, report.Breakdown[key])
	}
	output.WriteString("\n")
	writeTextList(&output, "Penalties", report.Penalties)
	return output.String()
}

func scoreMarkdown(report types.ScoreReport, level string) string {
	var output strings.Builder
	fmt.Fprintf(&output, "%s Score Breakdown\n\n", level)
	fmt.Fprintf(&output, "**Score:** %d/100 (raw total %d)\n\n", report.Score, report.Total)
	output.WriteString("| Rubric | Points |\n|---|---|\n")
	for _, key := range breakdownKeys(report.Breakdown) {
		fmt.Fprintf(&output, "| %s | %+d |\n", key, report.Breakdown[key])
	}
	output.WriteString("\n")
	writeMarkdownList(&output, "Penalties", report.Penalties)
	return output.String()
}

// breakdownKeys lists the rubric categories in scoring order, then any
// unknown keys sorted
func breakdownKeys(breakdown map[string]int) []string {
	present := func(key string) bool {
		_, ok := breakdown[key]
		return ok
	}
	return orderedKeys(analysis.Categories(), present, maps.Keys(breakdown))
}

// sectionNames lists the present sections in heading order, then any others
// (a remote analysis may report extra ones) sorted
func sectionNames(sections types.SectionMap) []string {
	present := func(name string) bool { return sections[name] }
	var extra []string
	for name, ok := range sections {
		if ok {
			extra = append(extra, name)
		}
	}
	return orderedKeys(analysis.SectionKeywords, present, slices.Values(extra))
}

func orderedKeys(known []string, present func(string) bool, all iter.Seq[string]) []string {
	keys := make([]string, 0, len(known))
	for _, key := range known {
		if present(key) {
			keys = append(keys, key)
		}
	}
	var rest []string
	for key := range all {
		if !slices.Contains(known, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title + ":\n")
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
	output.WriteString("\n")
}

func writeMarkdownList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(output, "### %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
	output.WriteString("\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// GlobalRegistry is shared by the CLI commands
var GlobalRegistry = NewFormatterRegistry()
