// Package axlog is Axiom's structured logger: a package-level slog.Logger
// whose handler can be (re)configured after component loggers have
// already been created, plus per-component child loggers.
//
// Grounded on LanternOps-breeze's internal/logging package: the
// switchableHandler indirection (a handler that atomically swaps its
// underlying slog.Handler) exists for exactly the same reason here as
// there — compositor subsystems build their *slog.Logger at
// construction time, before main has parsed --debug-outputs/config and
// called Init, so the handler underneath every already-issued logger
// must be swappable in place. The remote log-shipping handler in the
// teacher has no analog in a compositor (there is no fleet backend to
// ship to) and is deliberately not carried over.
package axlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Standard structured field keys used across Axiom's components.
const (
	KeyComponent = "component"
	KeyClientID  = "client"
	KeySurfaceID = "surface"
	KeyOutput    = "output"
	KeyError     = "error"
)

type contextKey struct{}

// switchableHandler lets package-level/component loggers created before
// Init runs dynamically pick up the handler Init installs.
type switchableHandler struct {
	state  *switchableState
	attrs  []slog.Attr
	groups []string
}

type switchableState struct {
	current atomic.Value // handlerBox
}

// handlerBox gives every stored handler the same concrete type, since
// atomic.Value panics when a later Store uses a different one (a
// *slog.JSONHandler replacing a *slog.TextHandler).
type handlerBox struct{ h slog.Handler }

func newSwitchableHandler(h slog.Handler) *switchableHandler {
	s := &switchableState{}
	s.current.Store(handlerBox{h})
	return &switchableHandler{state: s}
}

func (h *switchableHandler) set(handler slog.Handler) { h.state.current.Store(handlerBox{handler}) }
func (h *switchableHandler) base() slog.Handler        { return h.state.current.Load().(handlerBox).h }

func (h *switchableHandler) materialize() slog.Handler {
	handler := h.base()
	for _, g := range h.groups {
		handler = handler.WithGroup(g)
	}
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	return handler
}

func (h *switchableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.materialize().Enabled(ctx, level)
}

func (h *switchableHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.materialize().Handle(ctx, record)
}

func (h *switchableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	groups := append([]string(nil), h.groups...)
	return &switchableHandler{state: h.state, attrs: merged, groups: groups}
}

func (h *switchableHandler) WithGroup(name string) slog.Handler {
	attrs := append([]slog.Attr(nil), h.attrs...)
	groups := append(append([]string(nil), h.groups...), name)
	return &switchableHandler{state: h.state, attrs: attrs, groups: groups}
}

var (
	rootHandler   = newSwitchableHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defaultLogger = slog.New(rootHandler)
)

func init() {
	slog.SetDefault(defaultLogger)
}

// Init (re)configures the global logger. format is "json" or "text"
// (default "text"); level is "debug"/"info"/"warn"/"error" (default
// "info"); a nil output defaults to stderr, since stdout is reserved for
// any Wayland-protocol-adjacent tooling output.
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	rootHandler.set(handler)
	defaultLogger = slog.New(rootHandler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// L returns a logger tagged with the given component name (e.g. "present",
// "control", "recovery"). Safe to call before Init; the returned logger
// picks up whatever handler Init later installs.
func L(component string) *slog.Logger {
	return defaultLogger.With(slog.String(KeyComponent, component))
}

// NewContext returns a context carrying logger for later retrieval via
// FromContext.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger previously attached with NewContext,
// falling back to the package default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}
