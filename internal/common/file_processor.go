package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"resumeats/internal/errors"
	"resumeats/internal/ingest"
	"resumeats/internal/utils"
)

// FileProcessor reads resume documents from disk and writes command output
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a new file processor. maxSize bounds every input
// file; zero disables the check.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.Discard()
	}
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadDocument reads a resume file of any supported type and returns its text
func (fp *FileProcessor) ReadDocument(ctx context.Context, filename string) (string, error) {
	data, err := utils.ReadFileLimited(filename, fp.maxSize)
	if err != nil {
		return "", err
	}

	text, err := ingest.ExtractText(ctx, data, "", filename)
	if err != nil {
		return "", err
	}

	fp.logger.Debug("Document read",
		"file", filename,
		"size", utils.FormatFileSize(int64(len(data))),
		"mime_type", ingest.DetectMIME(data, "", filename),
		"text_length", len(text))
	return text, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeOutputFailed,
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeOutputFailed,
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeOutputFailed,
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
