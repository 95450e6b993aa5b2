package logging

import (
	"context"
	"log/slog"
)

// Verbosity levels between Info and Debug. -v enables LevelVerbose, -vv
// LevelVeryVerbose and -vvv LevelTrace; -d goes all the way to Debug.
const (
	LevelVerbose     = slog.LevelInfo
	LevelVeryVerbose = slog.LevelInfo - 1
	LevelTrace       = slog.LevelInfo - 2
)

// MaxVerbosity is the highest meaningful -v count.
const MaxVerbosity = 3

// Verbosity captures the command-line switches that select a log level.
type Verbosity struct {
	Count int
	Quiet bool
	Debug bool
}

// Resolve returns the log level the switches select along with any warnings
// about conflicting or excessive switches. Without switches the default is
// LevelVerbose, matching a single -v.
func (v Verbosity) Resolve() (slog.Level, []string) {
	var warnings []string
	if v.Debug {
		if v.Quiet {
			warnings = append(warnings, "-q and -d are mutually exclusive; -d wins")
		}
		return slog.LevelDebug, warnings
	}
	if v.Quiet {
		if v.Count > 0 {
			warnings = append(warnings, "-q and -v are mutually exclusive; -q wins")
		}
		return slog.LevelWarn, warnings
	}
	count := v.Count
	if count > MaxVerbosity {
		warnings = append(warnings, "no need to pass more than 3 v's")
		count = MaxVerbosity
	}
	switch count {
	case 0, 1:
		return LevelVerbose, warnings
	case 2:
		return LevelVeryVerbose, warnings
	default:
		return LevelTrace, warnings
	}
}

// VeryVerbose logs at LevelVeryVerbose (shown with -vv).
func VeryVerbose(logger *slog.Logger, msg string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), LevelVeryVerbose, msg, attrs...)
}

// Trace logs at LevelTrace (shown with -vvv).
func Trace(logger *slog.Logger, msg string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), LevelTrace, msg, attrs...)
}
