package framedbg

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so disabled Debug
// calls on the stepper and replay hot paths never format their attributes.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

func silent() *slog.Logger { return slog.New(discard{}) }

// active is read by the replay queue worker while the owner goroutine may
// call SetLogger.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(silent())
}

// SetLogger routes the log output of framedbg and its sub-packages to l.
// Nothing is logged until it is called; nil restores that.
//
// Messages are prefixed with the package that emits them:
//   - Debug: "shaderdbg: run stopped", "replay: result ready",
//     "session: dropped stale result", watch expressions that fail to
//     resolve
//   - Info: capture opened or closed, trace attached, fixture loaded
//   - Warn: "timeline: failed to paint" (once per failure streak),
//     "session: request failed", "timeline: font unavailable"
//
// cmd/fdbg installs a text handler on stderr for --verbose:
//
//	framedbg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent()
	}
	active.Store(l)
}

// Logger returns the logger installed by SetLogger. Safe for concurrent
// use.
func Logger() *slog.Logger {
	return active.Load()
}
