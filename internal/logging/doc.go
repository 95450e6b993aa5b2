// Package logging assembles the slog loggers used by chapsplit.
//
// It owns the console and JSON handlers, maps the -v/-vv/-vvv, -q and -d
// command-line switches onto slog levels, and exposes attribute helpers so
// packages tag log lines with the same keys. Console output goes to stderr
// and can clear a live status line before each record is written.
package logging
