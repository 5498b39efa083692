package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"resumeats/internal/config"
	"resumeats/internal/errors"
)

// buildTLSConfig loads certificates from files for server or mutual mode. It
// returns nil when TLS is disabled.
func buildTLSConfig(cfg config.TLSConfig) (*tls.Config, error) {
	switch cfg.Mode {
	case "", "disabled":
		return nil, nil
	case "server", "mutual":
	default:
		return nil, tlsError(fmt.Sprintf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", cfg.Mode), nil)
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, tlsError("failed to load server certificate", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minTLSVersion(cfg.MinVersion),
		ClientAuth:   tls.NoClientCert,
	}

	if cfg.Mode == "mutual" {
		pool, err := loadCACertificatePool(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return tlsConfig, nil
}

func minTLSVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func loadCACertificatePool(caFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return nil, tlsError("failed to read CA certificate", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, tlsError("CA file contains no valid PEM certificates: "+caFile, nil)
	}
	return pool, nil
}

func tlsError(message string, cause error) error {
	return errors.NewConfigError(errors.ErrCodeInvalidConfig, message, cause)
}
