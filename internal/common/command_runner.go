package common

import (
	"context"
	"time"

	"resumeats/internal/errors"

	"golang.org/x/sync/errgroup"
)

// ProcessFunc turns the text of one input file into a command result.
type ProcessFunc[Output any] func(ctx context.Context, file, text string) (Output, error)

// Runner carries what every file-based command needs.
type Runner struct {
	Logger      *errors.Logger
	Files       *FileProcessor
	Output      *OutputHandler
	Concurrency int
}

// RunFileCommand reads and processes files with at most r.Concurrency in
// flight, then writes the results in argument order. A single file produces a
// single result; several produce a list. The first failure cancels the rest.
func RunFileCommand[Output any](
	ctx context.Context,
	r Runner,
	cmdConfig CommandConfig,
	files []string,
	process ProcessFunc[Output],
) error {
	logger := r.Logger
	if logger == nil {
		logger = errors.Discard()
	}

	results := make([]Output, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))

	start := time.Now()
	for i, file := range files {
		g.Go(func() error {
			text, err := r.Files.ReadDocument(gctx, file)
			if err != nil {
				return err
			}
			out, err := process(gctx, file, text)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Debug("Files processed",
		"files", len(files),
		"concurrency", r.Concurrency,
		"duration", time.Since(start).String())

	if len(results) == 1 {
		return r.Output.HandleOutput(results[0], cmdConfig)
	}
	return r.Output.HandleOutput(results, cmdConfig)
}
