// Package logging provides structured logging utilities for the autotask
// application.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "gmail.list_unread")
//	logger.Info("listing unread messages",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("message processed",
//	    logging.UserHash(sender))
//
// # Security Considerations
//
// Sender addresses are hashed to prevent PII leakage while still allowing
// correlation of log entries; tokens are never logged directly.
package logging
