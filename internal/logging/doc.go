// Package logging assembles structured slog loggers and formatting helpers used
// across cgreplay.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so request handlers and verification runs can
// tag log lines with request and run identifiers. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
