// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The relay logs one entry per dispatch (method, host, status, duration)
// and a warning with the failure reason when a dispatch fails.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Relay starting", zap.String("port", "3000"))
//	logger.Named("dispatch").Warn("dispatch failed", zap.Error(err))
package logging
