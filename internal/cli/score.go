package cli

import (
	"context"

	"resumeats/internal/common"
	"resumeats/internal/session"
	"resumeats/internal/types"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	output := &common.CommandConfig{}
	cmd := &cobra.Command{
		Use:   "score <resume-file>...",
		Short: "Print the ATS score breakdown and penalties",
		Long: `Score each resume with the local ATS heuristics and print how many points
every component contributed and which penalties applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveFormat(cmd, output); err != nil {
				return err
			}
			logger := getLoggerFromContext(cmd.Context())
			engine := &session.Engine{Logger: logger}

			return common.RunFileCommand(cmd.Context(), newRunner(cmd), *output, args,
				func(ctx context.Context, file, text string) (types.ScoreResponse, error) {
					sess := session.New(text)
					engine.Analyze(ctx, sess)
					return types.ScoreResponse{File: file, Score: sess.Score()}, nil
				})
		},
	}

	addOutputFlags(cmd, output)
	return cmd
}
