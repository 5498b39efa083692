package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrompt(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	system := writePrompt(t, dir, "system.analyze.md", "  You grade resumes.\n")
	user := writePrompt(t, dir, "user.enhance.md", "Rewrite for %s:\n%s")

	cfg := &Config{AI: AIConfig{
		Analyze: OperationAIConfig{Prompts: PromptConfig{System: "inline", SystemFile: system}},
		Enhance: OperationAIConfig{Prompts: PromptConfig{User: "inline user", UserFile: user}},
	}}

	require.NoError(t, cfg.loadPromptsFromFiles())
	assert.Equal(t, "You grade resumes.", cfg.AI.Analyze.Prompts.System, "file content wins and is trimmed")
	assert.Empty(t, cfg.AI.Analyze.Prompts.User)
	assert.Equal(t, "Rewrite for %s:\n%s", cfg.AI.Enhance.Prompts.User)
	assert.Equal(t, "Rewrite for %s:\n%s", cfg.GetEnhanceConfig().Prompts.User)
}

func TestLoadPromptsFromFilesNone(t *testing.T) {
	cfg := &Config{AI: AIConfig{Analyze: OperationAIConfig{Prompts: PromptConfig{System: "inline"}}}}
	require.NoError(t, cfg.loadPromptsFromFiles())
	assert.Equal(t, "inline", cfg.AI.Analyze.Prompts.System)
}

func TestValidatePromptFiles(t *testing.T) {
	dir := t.TempDir()
	present := writePrompt(t, dir, "present.md", "x")

	cfg := &Config{AI: AIConfig{
		Analyze: OperationAIConfig{Prompts: PromptConfig{SystemFile: present, UserFile: filepath.Join(dir, "gone.md")}},
		Enhance: OperationAIConfig{Prompts: PromptConfig{SystemFile: filepath.Join(dir, "also-gone.md")}},
	}}

	err := cfg.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze user prompt file not found")
	assert.Contains(t, err.Error(), "enhance system prompt file not found")
	assert.NotContains(t, err.Error(), "present.md")

	assert.Error(t, cfg.loadPromptsFromFiles())
}

func TestLoadPromptFromFile(t *testing.T) {
	dir := t.TempDir()

	content, err := loadPromptFromFile(writePrompt(t, dir, "ok.md", "\n prompt body \n"), "system", OperationAnalyze)
	require.NoError(t, err)
	assert.Equal(t, "prompt body", content)

	_, err = loadPromptFromFile(writePrompt(t, dir, "blank.md", " \n\t"), "user", OperationEnhance)
	assert.ErrorContains(t, err, "is empty")

	_, err = loadPromptFromFile(filepath.Join(dir, "missing.md"), "user", OperationEnhance)
	assert.ErrorContains(t, err, "failed to read")
}
