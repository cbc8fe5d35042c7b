// Package logging provides structured logging configuration for wiremate.
//
// It wraps log/slog with configurable levels and output formats. The
// wiremock module and the CLI accept a *slog.Logger; when none is given
// they fall back to logging.Nop().
package logging
