package cli

import (
	"context"

	"resumeats/internal/common"
	"resumeats/internal/session"
	"resumeats/internal/types"

	"github.com/spf13/cobra"
)

type enhanceOptions struct {
	output common.CommandConfig
	remote bool
}

func newEnhanceCmd() *cobra.Command {
	opts := &enhanceOptions{}
	cmd := &cobra.Command{
		Use:   "enhance <resume-file>",
		Short: "Rewrite a resume into an ATS-friendly layout",
		Long: `Analyze a resume and rewrite it with a professional summary, a key skills
section and the detected achievements, tuned for the roles the analysis
suggests. With --remote the rewrite is produced by the remote model and the
local rewrite is kept when the remote call fails.`,
		Example: `  resumeats enhance resume.txt
  resumeats enhance --remote --format markdown resume.pdf -o enhanced.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnhance(cmd, opts, args[0])
		},
	}

	addOutputFlags(cmd, &opts.output)
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Use the remote model for analysis and rewriting")
	return cmd
}

func runEnhance(cmd *cobra.Command, opts *enhanceOptions, file string) error {
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

	return common.RunFileCommand(cmd.Context(), newRunner(cmd), opts.output, []string{file},
		func(ctx context.Context, _, text string) (types.EnhanceResponse, error) {
			sess := session.New(text)
			sess.UseRemote = opts.remote
			engine.Enhance(ctx, sess)

			return types.EnhanceResponse{
				SessionID:      sess.ID.String(),
				Source:         sess.EnhancedSource,
				Analysis:       sess.Analysis,
				EnhancedResume: sess.Enhanced,
				Fallback:       sess.FallbackMessage(),
			}, nil
		})
}
