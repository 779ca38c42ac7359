// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase, nil-safe
// attribute constructors, a Setup function that points the default logger at
// stderr (stdout is reserved for the MCP stdio transport), and a small
// Logger interface with an slog adapter for code that should not depend on
// slog directly.
package logging
