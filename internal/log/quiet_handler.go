package log

import (
	"context"
	"io"
	"log/slog"
)

// QuietHandler wraps an slog.Handler and suppresses records below
// Error level when quiet mode is on. Error records always pass
// through, so failure signaling survives --silent.
//
// We use a handler wrapper rather than a custom logger so it composes
// with standard slog APIs and any underlying handler (text, JSON).
type QuietHandler struct {
	// handler is the underlying slog handler that receives records.
	handler slog.Handler

	// quiet drops everything below slog.LevelError when true.
	quiet bool
}

// NewQuietHandler creates a QuietHandler wrapping the given handler.
func NewQuietHandler(handler slog.Handler, quiet bool) *QuietHandler {
	return &QuietHandler{handler: handler, quiet: quiet}
}

// Enabled reports whether the handler handles records at the given level.
func (h *QuietHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.quiet && level < slog.LevelError {
		return false
	}
	return h.handler.Enabled(ctx, level)
}

// Handle passes the record to the underlying handler unless quiet mode
// filters it out.
func (h *QuietHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.quiet && r.Level < slog.LevelError {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *QuietHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &QuietHandler{handler: h.handler.WithAttrs(attrs), quiet: h.quiet}
}

// WithGroup returns a new handler with the given group name.
func (h *QuietHandler) WithGroup(name string) slog.Handler {
	return &QuietHandler{handler: h.handler.WithGroup(name), quiet: h.quiet}
}

// NewLogger creates the standard netsweep logger.
//
// Levels: debug enables slog.LevelDebug, otherwise Info. When quiet is
// true, everything below Error is dropped regardless of level, which is
// how --silent suppresses stage banners and progress output while
// keeping failures visible.
func NewLogger(w io.Writer, debug, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewQuietHandler(textHandler, quiet))
}
