// Package logging builds slog loggers with console and JSON handlers and
// provides attribute helpers shared across the codebase.
package logging
