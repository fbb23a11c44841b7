// Package logging provides structured logging utilities for the agenda command.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// Logs always go to stderr; stdout is reserved for the agenda itself.
//
// # Usage Patterns
//
// Create the process logger once:
//
//	logger, err := logging.NewLogger(os.Stderr, "info", logging.FormatText)
//
// Attach standard attributes:
//
//	logger := logging.WithOperation(logger, "calendar.list")
//	logger.Info("listed events",
//	    logging.Calendar(calendarID),
//	    logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
//   - Calendar ids that are email addresses are hashed before logging
//   - Tokens are never logged directly; use SanitizeToken
package logging
