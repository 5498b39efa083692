package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"resumeats/internal/errors"
)

// loadPromptsFromFiles replaces inline prompts with the contents of any
// configured prompt files. Every file is checked before any is read.
func (c *Config) loadPromptsFromFiles() error {
	if err := c.validatePromptFiles(); err != nil {
		return err
	}

	loaded := 0
	for op, prompts := range c.operationPrompts() {
		for _, p := range []struct {
			kind   string
			file   string
			target *string
		}{
			{"system", prompts.SystemFile, &prompts.System},
			{"user", prompts.UserFile, &prompts.User},
		} {
			if p.file == "" {
				continue
			}
			content, err := loadPromptFromFile(p.file, p.kind, op)
			if err != nil {
				return err
			}
			*p.target = content
			loaded++
		}
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files - using built-in prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded from files: %d", loaded)
	}
	return nil
}

func (c *Config) operationPrompts() map[string]*PromptConfig {
	return map[string]*PromptConfig{
		OperationAnalyze: &c.AI.Analyze.Prompts,
		OperationEnhance: &c.AI.Enhance.Prompts,
	}
}

// loadPromptFromFile reads a non-empty prompt file
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to resolve %s %s prompt file '%s'", operation, promptType, filePath), err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read %s %s prompt file '%s'", operation, promptType, absPath), err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("%s %s prompt file '%s' is empty", operation, promptType, absPath), nil)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		operation, promptType, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles reports every configured prompt file that does not exist
func (c *Config) validatePromptFiles() error {
	var problems []string

	check := func(filePath, promptType, operation string) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", operation, promptType, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", operation, promptType, absPath))
		}
	}

	check(c.AI.Analyze.Prompts.SystemFile, "system", OperationAnalyze)
	check(c.AI.Analyze.Prompts.UserFile, "user", OperationAnalyze)
	check(c.AI.Enhance.Prompts.SystemFile, "system", OperationEnhance)
	check(c.AI.Enhance.Prompts.UserFile, "user", OperationEnhance)

	if len(problems) > 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"prompt file validation failed:\n"+strings.Join(problems, "\n"), nil)
	}
	return nil
}
