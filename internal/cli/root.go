package cli

import (
	"context"

	"resumeats/internal/config"
	"resumeats/internal/errors"

	"github.com/spf13/cobra"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// NewRootCmd builds the resumeats command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "resumeats",
		Short: "Analyze, score and enhance resumes for applicant tracking systems",
		Long: `resumeats extracts contact details, sections, skills and likely roles from a
resume, scores it against ATS heuristics and rewrites it into a cleaner,
keyword-rich layout. Analysis runs locally; a remote model can be consulted
with --remote and its answer is merged over the local result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newEnhanceCmd(),
		newScoreCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line with the config and logger available to every subcommand
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	rootCmd := NewRootCmd()
	rootCmd.SetContext(withApp(ctx, cfg, logger))
	return rootCmd.Execute()
}

func withApp(ctx context.Context, cfg *config.Config, logger *errors.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey, cfg)
	return context.WithValue(ctx, loggerKey, logger)
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok && logger != nil {
		return logger
	}
	return errors.Discard()
}
