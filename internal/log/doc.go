// Package log provides logging utilities for netsweep.
// Its QuietHandler wraps a standard slog.Handler and drops records
// below Error level when silent mode is enabled, giving the --silent
// flag a single well-defined meaning across the whole tool.
package log
