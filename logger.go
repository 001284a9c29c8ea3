package maskbrush

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards everything, and says so through Enabled so nothing gets formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger editors created afterwards log to. Nothing is logged by
// default, nil restores that.
//
// Levels:
//   - Debug: strokes, with the number of chunks painted.
//   - Info: session lifecycle (new, mask loaded, cleared).
//   - Warn: masks that failed to load.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
