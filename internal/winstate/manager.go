package winstate

import (
	"axiom.land/axiom/internal/geom"
)

// SurfaceConfig is one outstanding xdg_surface configure: the serial sent
// to the client and the size it carried.
type SurfaceConfig struct {
	Serial uint32
	Width  int
	Height int
}

// Window is a single toplevel's decoration and configure/ack bookkeeping.
// Geometry itself (the content rectangle) is owned by the workspace layout
// engine; Window tracks what riding on top of that rectangle needs:
// decoration chrome and the Wayland configure/ack protocol discipline.
type Window struct {
	ID         uint64
	Decoration Decoration

	width, height int // last committed content size, used for button layout

	pending      []SurfaceConfig
	lastSent     uint32
	lastAcked    uint32
	mapped       bool
}

// Mapped reports whether the window has completed its initial
// commit-after-ack-configure handshake.
func (w *Window) Mapped() bool { return w.mapped }

// LastSent and LastAcked expose the configure/ack serial bookkeeping so
// callers (and tests) can assert the invariant that a mapped window's
// LastAcked equals LastSent at the moment of its first buffer commit.
func (w *Window) LastSent() uint32  { return w.lastSent }
func (w *Window) LastAcked() uint32 { return w.lastAcked }

// Manager owns decoration and configure state for every window known to
// the compositor, grounded on original_source/src/decoration.rs's
// DecorationManager.
type Manager struct {
	theme       Theme
	windows     map[uint64]*Window
	defaultMode DecorationMode
}

// NewManager creates a decoration manager with the given theme and a
// ServerSide default for windows that request decorations.
func NewManager(theme Theme) *Manager {
	return &Manager{
		theme:       theme,
		windows:     make(map[uint64]*Window),
		defaultMode: ServerSide,
	}
}

// AddWindow registers a new window for decoration tracking.
func (m *Manager) AddWindow(id uint64, title string, prefersServerSide bool) *Window {
	w := &Window{
		ID:         id,
		Decoration: newDecoration(prefersServerSide, title, m.theme, m.defaultMode),
		width:      800,
		height:     600,
	}
	m.layoutButtons(w)
	m.windows[id] = w
	return w
}

// RemoveWindow drops all state for id.
func (m *Manager) RemoveWindow(id uint64) {
	delete(m.windows, id)
}

// Window returns the tracked window, if any.
func (m *Manager) Window(id uint64) (*Window, bool) {
	w, ok := m.windows[id]
	return w, ok
}

// SetFocus updates a window's decoration focus highlighting.
func (m *Manager) SetFocus(id uint64, focused bool) {
	if w, ok := m.windows[id]; ok {
		w.Decoration.Focused = focused
	}
}

// SetTitle updates a window's titlebar text.
func (m *Manager) SetTitle(id uint64, title string) {
	if w, ok := m.windows[id]; ok {
		w.Decoration.Title = title
	}
}

// SetDecorationMode switches a window between server-side, client-side and
// no decoration, recomputing titlebar height and button layout.
func (m *Manager) SetDecorationMode(id uint64, mode DecorationMode) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.Decoration.Mode = mode
	if mode == ServerSide {
		w.Decoration.TitlebarHeight = m.theme.TitlebarHeight
	} else {
		w.Decoration.TitlebarHeight = 0
	}
	m.layoutButtons(w)
}

// Resize records a window's new content size and recomputes titlebar
// button bounds against it. Unlike the teacher source (which hardcoded an
// 800px placeholder width), buttons are always laid out against the
// window's actual current width (see DESIGN.md's decoration-layout open
// question).
func (m *Manager) Resize(id uint64, width, height int) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.width, w.height = width, height
	m.layoutButtons(w)
}

func (m *Manager) layoutButtons(w *Window) {
	if w.Decoration.Mode != ServerSide {
		return
	}
	size := m.theme.ButtonSize
	titlebarHeight := m.theme.TitlebarHeight
	y := (titlebarHeight - size) / 2
	margin := 8

	// rank=1 is the rightmost (close) button, counting leftward from there.
	place := func(rank int) geom.Rect {
		x := w.width - (size+margin)*rank
		return geom.NewRect(x, y, size, size)
	}

	w.Decoration.Buttons.Close.Bounds = place(1)
	w.Decoration.Buttons.Maximize.Bounds = place(2)
	w.Decoration.Buttons.Minimize.Bounds = place(3)
}

// ContentRect returns the content area within windowRect, subtracting
// titlebar height and border width for server-side decorated windows.
func (m *Manager) ContentRect(id uint64, windowRect geom.Rect) geom.Rect {
	w, ok := m.windows[id]
	if !ok || w.Decoration.Mode != ServerSide {
		return windowRect
	}
	border := m.borderWidth(w)
	return geom.NewRect(
		windowRect.X+border,
		windowRect.Y+w.Decoration.TitlebarHeight+border,
		geom.Clamp1(windowRect.Width-2*border),
		geom.Clamp1(windowRect.Height-w.Decoration.TitlebarHeight-2*border),
	)
}

// WindowRect is the inverse of ContentRect: given a content rectangle,
// returns the outer rectangle including titlebar and border.
func (m *Manager) WindowRect(id uint64, contentRect geom.Rect) geom.Rect {
	w, ok := m.windows[id]
	if !ok || w.Decoration.Mode != ServerSide {
		return contentRect
	}
	border := m.borderWidth(w)
	return geom.NewRect(
		contentRect.X-border,
		contentRect.Y-w.Decoration.TitlebarHeight-border,
		contentRect.Width+2*border,
		contentRect.Height+w.Decoration.TitlebarHeight+2*border,
	)
}

func (m *Manager) borderWidth(w *Window) int {
	if w.Decoration.Focused {
		return m.theme.BorderWidthFocused
	}
	return m.theme.BorderWidthUnfocused
}

// HandleButtonPress hit-tests (x, y) — window-local coordinates — against
// the titlebar buttons and drag region, returning the resulting action.
func (m *Manager) HandleButtonPress(id uint64, x, y int) (DecorationAction, bool) {
	w, ok := m.windows[id]
	if !ok || w.Decoration.Mode != ServerSide {
		return ActionNone, false
	}
	b := &w.Decoration.Buttons
	switch {
	case b.Close.Bounds.ContainsPoint(x, y):
		b.Close.Pressed = true
		return ActionClose, true
	case b.Minimize.Bounds.ContainsPoint(x, y):
		b.Minimize.Pressed = true
		return ActionMinimize, true
	case b.Maximize.Bounds.ContainsPoint(x, y):
		b.Maximize.Pressed = true
		return ActionToggleMaximize, true
	}
	titlebar := geom.NewRect(0, 0, w.width, w.Decoration.TitlebarHeight)
	if titlebar.ContainsPoint(x, y) {
		return ActionStartMove, true
	}
	return ActionNone, false
}

// HandleButtonRelease clears all button press states for the window.
func (m *Manager) HandleButtonRelease(id uint64) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	w.Decoration.Buttons.Close.Pressed = false
	w.Decoration.Buttons.Minimize.Pressed = false
	w.Decoration.Buttons.Maximize.Pressed = false
}

// HandleMouseMotion updates titlebar button hover state for pointer
// position (x, y) in window-local coordinates.
func (m *Manager) HandleMouseMotion(id uint64, x, y int) {
	w, ok := m.windows[id]
	if !ok {
		return
	}
	b := &w.Decoration.Buttons
	b.Close.Hovered = b.Close.Bounds.ContainsPoint(x, y)
	b.Minimize.Hovered = b.Minimize.Bounds.ContainsPoint(x, y)
	b.Maximize.Hovered = b.Maximize.Bounds.ContainsPoint(x, y)
}

// Theme returns the manager's current decoration theme.
func (m *Manager) Theme() Theme { return m.theme }

// UpdateTheme replaces the decoration theme and re-lays-out every
// server-side window's buttons against it.
func (m *Manager) UpdateTheme(theme Theme) {
	m.theme = theme
	for _, w := range m.windows {
		m.layoutButtons(w)
	}
}

// --- Configure/ack serial bookkeeping ---

// SendConfigure records a newly-sent xdg_surface configure, returning the
// serial the caller should put on the wire.
func (w *Window) SendConfigure(serial uint32, width, height int) SurfaceConfig {
	cfg := SurfaceConfig{Serial: serial, Width: width, Height: height}
	w.pending = append(w.pending, cfg)
	w.lastSent = serial
	return cfg
}

// Ack processes an ack_configure(serial), discarding all pending configures
// up to and including it (a client may coalesce several acks into one, per
// the Wayland xdg-shell protocol's "ack at least one" discipline).
func (w *Window) Ack(serial uint32) bool {
	for i, cfg := range w.pending {
		if cfg.Serial == serial {
			w.pending = w.pending[i+1:]
			w.lastAcked = serial
			return true
		}
	}
	return false
}

// Commit marks the window mapped on its first post-ack buffer commit.
// Per spec, a window only becomes mapped once it has both an outstanding
// ack and an attached buffer; callers must have called Ack before Commit
// for the commit to map the window.
func (w *Window) Commit(hasBuffer bool) {
	if hasBuffer && w.lastAcked != 0 {
		w.mapped = true
	}
}
