package common

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"resumeats/internal/errors"
	"resumeats/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeResumes(t *testing.T, n int) []string {
	t.Helper()
	dir := t.TempDir()
	files := make([]string, n)
	for i := range n {
		files[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(files[i], []byte("Jane Doe\njane@example.com\nSKILLS\nGo"), 0600))
	}
	return files
}

func newRunner(stdout *bytes.Buffer, concurrency int) Runner {
	return Runner{
		Files:       NewFileProcessor(nil, 1024),
		Output:      NewOutputHandler(nil, stdout),
		Concurrency: concurrency,
	}
}

func TestRunFileCommandSingle(t *testing.T) {
	var stdout bytes.Buffer
	files := writeResumes(t, 1)

	err := RunFileCommand(context.Background(), newRunner(&stdout, 2), CommandConfig{OutputFormat: "json"}, files,
		func(_ context.Context, file, text string) (types.ScoreResponse, error) {
			return types.ScoreResponse{File: file, Score: types.ScoreReport{Score: len(text)}}, nil
		})
	require.NoError(t, err)

	var got types.ScoreResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, files[0], got.File)
	assert.Equal(t, 35, got.Score.Score)
}

func TestRunFileCommandKeepsOrderAndBoundsConcurrency(t *testing.T) {
	var stdout bytes.Buffer
	files := writeResumes(t, 6)

	var inFlight, peak atomic.Int32
	err := RunFileCommand(context.Background(), newRunner(&stdout, 2), CommandConfig{OutputFormat: "json"}, files,
		func(_ context.Context, file, _ string) (types.ScoreResponse, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return types.ScoreResponse{File: file}, nil
		})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))

	var got []types.ScoreResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	require.Len(t, got, 6)
	for i, r := range got {
		assert.Equal(t, files[i], r.File)
	}
}

func TestRunFileCommandErrors(t *testing.T) {
	var stdout bytes.Buffer
	files := append(writeResumes(t, 1), filepath.Join(t.TempDir(), "missing.txt"))

	err := RunFileCommand(context.Background(), newRunner(&stdout, 1), CommandConfig{OutputFormat: "json"}, files,
		func(_ context.Context, file, _ string) (string, error) { return file, nil })
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
	assert.Empty(t, stdout.String())

	boom := stderrors.New("boom")
	err = RunFileCommand(context.Background(), newRunner(&stdout, 1), CommandConfig{OutputFormat: "json"}, files[:1],
		func(context.Context, string, string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunFileCommandTooLarge(t *testing.T) {
	var stdout bytes.Buffer
	file := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(file, bytes.Repeat([]byte("a"), 2048), 0600))

	err := RunFileCommand(context.Background(), newRunner(&stdout, 1), CommandConfig{OutputFormat: "json"}, []string{file},
		func(_ context.Context, _, text string) (string, error) { return text, nil })
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileTooLarge, appErr.Code)
}

func TestOutputHandlerWritesFile(t *testing.T) {
	var stdout bytes.Buffer
	handler := NewOutputHandler(nil, &stdout)
	out := filepath.Join(t.TempDir(), "reports", "score.yaml")

	err := handler.HandleOutput(types.ScoreResponse{File: "cv.txt", Score: types.ScoreReport{Score: 80}},
		CommandConfig{OutputFile: out, OutputFormat: "yaml"})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "score: 80")

	err = handler.HandleOutput(map[string]int{"a": 1}, CommandConfig{OutputFormat: "markdown"})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidFormat, appErr.Code)
}
