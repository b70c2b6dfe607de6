// Package logging provides structured logging configuration for stubkit.
//
// This package wraps log/slog so every component logs the same way. Test
// helpers are silent by default: components accept a *slog.Logger and fall
// back to logging.Nop() when none is supplied.
//
// # Usage
//
// Enable debug output while diagnosing a harness or recorder:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//	h := harness.New(harness.WithLogger(logger))
package logging
