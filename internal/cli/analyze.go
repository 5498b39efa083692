package cli

import (
	"context"

	"resumeats/internal/common"
	"resumeats/internal/session"
	"resumeats/internal/types"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	output    common.CommandConfig
	remote    bool
	breakdown bool
	watch     bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <resume-file>...",
		Short: "Analyze one or more resumes",
		Long: `Extract contact details, sections, skills, topics and likely roles from each
resume and report issues, improvement strategies and an ATS score.

Supported inputs are plain text, Markdown, PDF, HTML and DOCX. Several files
are processed concurrently and reported in argument order.

With --watch the files are analyzed again whenever they change.`,
		Example: `  resumeats analyze resume.pdf
  resumeats analyze --remote --format markdown resume.docx
  resumeats analyze --breakdown --format json a.txt b.txt -o report.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	addOutputFlags(cmd, &opts.output)
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Consult the remote model and merge its analysis over the local one")
	cmd.Flags().BoolVar(&opts.breakdown, "breakdown", false, "Include the score breakdown and penalties")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run the analysis when an input file changes")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions, files []string) error {
	if err := resolveFormat(cmd, &opts.output); err != nil {
		return err
	}

	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, svc, err := newEngine(cfg, logger, nil, opts.remote)
	if err != nil {
		return err
	}
	defer closeRemote(svc, logger)

	runner := newRunner(cmd)
	process := func(ctx context.Context, file, text string) (types.AnalyzeResponse, error) {
		sess := session.New(text)
		sess.UseRemote = opts.remote
		engine.Analyze(ctx, sess)

		resp := types.AnalyzeResponse{
			SessionID: sess.ID.String(),
			Source:    sess.Source,
			File:      file,
			Analysis:  sess.Analysis,
			Fallback:  sess.FallbackMessage(),
		}
		if opts.breakdown {
			report := sess.Score()
			resp.Score = &report
		}
		return resp, nil
	}

	run := func(ctx context.Context) error {
		return common.RunFileCommand(ctx, runner, opts.output, files, process)
	}

	if err := run(cmd.Context()); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return watchFiles(cmd.Context(), files, logger, run)
}
