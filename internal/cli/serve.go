package cli

import (
	"context"
	"fmt"
	"time"

	"resumeats/internal/config"
	"resumeats/internal/observability"
	"resumeats/internal/server"

	"github.com/spf13/cobra"
)

type serveOptions struct {
	port     string
	host     string
	tlsMode  string
	certFile string
	keyFile  string
	caFile   string
	remote   bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server exposing the analysis engine.

Available endpoints:
- POST /analyze: Analyze resume text and return the ATS score
- POST /enhance: Analyze and rewrite resume text
- POST /ingest: Extract text from an uploaded PDF, HTML, DOCX or text file
- GET /health: Health check endpoint (?deep=true also checks the remote model)
- GET /stats: Request counters, circuit breaker and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	bindServeFlags(cmd, opts)
	return cmd
}

func bindServeFlags(cmd *cobra.Command, opts *serveOptions) {
	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().StringVar(&opts.host, "host", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&opts.tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	cmd.Flags().StringVar(&opts.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	cmd.Flags().StringVar(&opts.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	cmd.Flags().StringVar(&opts.caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "Enable the remote model (overrides config)")
}

// applyServeOverrides copies the flags the user set onto cfg
func applyServeOverrides(cmd *cobra.Command, opts *serveOptions, cfg *config.Config) {
	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Changed(name) {
			*dst = value
		}
	}
	override("port", &cfg.Server.Port, opts.port)
	override("host", &cfg.Server.Host, opts.host)
	override("tls-mode", &cfg.Server.TLS.Mode, opts.tlsMode)
	override("cert-file", &cfg.Server.TLS.CertFile, opts.certFile)
	override("key-file", &cfg.Server.TLS.KeyFile, opts.keyFile)
	override("ca-file", &cfg.Server.TLS.CAFile, opts.caFile)
	if flags.Changed("remote") {
		cfg.Remote.Enabled = opts.remote
	}
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeOverrides(cmd, opts, cfg)
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.Warn("Observability shutdown failed", "error", err.Error())
		}
	}()

	engine, svc, err := newEngine(cfg, logger, om, cfg.Remote.Enabled)
	if err != nil {
		return err
	}
	defer closeRemote(svc, logger)

	srv := server.NewServer(cfg, server.Deps{
		Engine:        engine,
		Remote:        svc,
		Observability: om,
		Logger:        logger,
		Version:       Version,
	})
	return srv.Run(cmd.Context())
}
