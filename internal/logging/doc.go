// Package logging provides structured logging for arrdash.
//
// Logging is silent by default so the interactive dashboard and CLI
// commands produce no unexpected output. Set ARRDASH_LOG_LEVEL to
// "debug", "info", "warn" or "error" to enable it. While the TUI is
// running, output goes to a log file (see InitializeFile) instead of
// stdout so the rendered frame stays intact.
package logging
