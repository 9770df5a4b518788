// Package logging provides structured logging for brewshell.
//
// This package wraps Go's standard log/slog package so every component logs
// with the same handler, level and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "warn"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr, discard
//
// Logs are operational diagnostics. Command results are written by the
// shell, not logged, so the default level stays quiet at the prompt.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("registry loaded", "devices", 4)
//	logger.Error("failed to publish state", "error", err)
package logging
