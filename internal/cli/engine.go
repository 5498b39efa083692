package cli

import (
	"resumeats/internal/ai"
	"resumeats/internal/common"
	"resumeats/internal/config"
	"resumeats/internal/errors"
	"resumeats/internal/observability"
	"resumeats/internal/session"

	"github.com/spf13/cobra"
)

// newRemoteService builds the remote collaborator; tests replace it
var newRemoteService = func(cfg *config.Config, om *observability.ObservabilityManager, logger *errors.Logger) (*ai.Service, error) {
	return ai.NewService(cfg, om, logger)
}

// newEngine builds a session engine. With remote set it also creates the
// remote service, which the caller must close.
func newEngine(cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager, remote bool) (*session.Engine, *ai.Service, error) {
	engine := &session.Engine{
		Timeout:       cfg.Remote.Timeout,
		Logger:        logger,
		Observability: om,
	}
	if !remote {
		return engine, nil, nil
	}

	withRemote := *cfg
	withRemote.Remote.Enabled = true
	if err := withRemote.ValidateSecrets(); err != nil {
		return nil, nil, err
	}

	svc, err := newRemoteService(&withRemote, om, logger)
	if err != nil {
		return nil, nil, err
	}
	engine.Analyzer = svc
	engine.Enhancer = svc
	return engine, svc, nil
}

func closeRemote(svc *ai.Service, logger *errors.Logger) {
	if svc == nil {
		return
	}
	if err := svc.Close(); err != nil {
		logger.Warn("Failed to close remote service", "error", err.Error())
	}
}

// addOutputFlags registers --output and --format on cmd
func addOutputFlags(cmd *cobra.Command, out *common.CommandConfig) {
	cmd.Flags().StringVarP(&out.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&out.OutputFormat, "format", "", "Output format: json, text, markdown or yaml (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return getConfigFromContext(cmd.Context()).App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveFormat fills in the configured default format and validates it
func resolveFormat(cmd *cobra.Command, out *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	format, err := common.ResolveOutputFormat(out.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
	if err != nil {
		return err
	}
	out.OutputFormat = format
	return nil
}

func newRunner(cmd *cobra.Command) common.Runner {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	return common.Runner{
		Logger:      logger,
		Files:       common.NewFileProcessor(logger, cfg.App.MaxFileSize),
		Output:      common.NewOutputHandler(logger, cmd.OutOrStdout()),
		Concurrency: cfg.App.Concurrency,
	}
}
