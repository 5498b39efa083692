package server

// displayServerInfo logs the listening address and the protections in effect
func (s *Server) displayServerInfo(addr string, tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	s.Logger.Info("Starting HTTP server",
		"address", scheme+"://"+addr,
		"tls_mode", s.AppConfig.Server.TLS.Mode,
		"remote_enabled", s.Remote != nil,
		"endpoints", []string{"GET /health", "GET /stats", "POST /analyze", "POST /enhance", "POST /ingest"})

	if len(s.APIKeys) > 0 {
		s.Logger.Info("API authentication enabled", "keys", len(s.APIKeys))
	} else {
		s.Logger.Warn("API authentication disabled, endpoints are publicly accessible")
	}

	s.Logger.Info("Request limits",
		"max_text_bytes", s.AppConfig.Server.MaxTextBytes,
		"max_upload_bytes", s.AppConfig.Server.MaxUploadBytes)

	if rl := s.AppConfig.Server.RateLimit; rl.Enabled {
		s.Logger.Info("Rate limiting enabled",
			"requests_per_min", rl.RequestsPerMin,
			"burst", rl.BurstCapacity,
			"by_ip", rl.ByIP,
			"by_api_key", rl.ByAPIKey)
	} else {
		s.Logger.Warn("Rate limiting disabled")
	}
}
