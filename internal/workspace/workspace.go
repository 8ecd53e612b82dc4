// Package workspace implements Axiom's scrollable workspace engine
// (spec.md C4): the infinite horizontal strip of tiling columns, its
// scroll/momentum physics, and the per-column layout algorithms.
package workspace

import (
	"sort"
	"sync"
	"time"

	"axiom.land/axiom/internal/geom"
)

// columnGCGrace is how long an empty, non-focused column survives before
// Strip.Sweep removes it.
const columnGCGrace = 30 * time.Second

// Config holds the workspace engine's tunables, sourced from the
// `[workspace]` section of the TOML config (internal/config).
type Config struct {
	ScrollSpeed         float64
	ColumnWidth         float64
	Gap                 int
	MomentumFriction    float64
	MomentumMinVelocity float64
	SnapThresholdPx     float64
	InfiniteScroll      bool
}

// DefaultConfig returns Axiom's built-in workspace defaults.
func DefaultConfig() Config {
	return Config{
		ScrollSpeed:         1.0,
		ColumnWidth:         1920,
		Gap:                 10,
		MomentumFriction:    0.95,
		MomentumMinVelocity: 1,
		SnapThresholdPx:     48,
		InfiniteScroll:      true,
	}
}

// Strip is the scrollable workspace manager: the ordered, unbounded set
// of columns plus the scroll animation state machine that drives the
// viewport across them.
type Strip struct {
	config Config

	currentPos    float64
	targetPos     float64
	velocity      float64
	focusedColumn int32
	state         scrollState

	columns map[int32]*Column

	viewportWidth, viewportHeight float64
	insetTop, insetRight, insetBottom, insetLeft float64

	lastSweep time.Time

	speed *speedHandle
}

// New creates a workspace strip with an initial column 0.
func New(config Config) *Strip {
	s := &Strip{
		config:         config,
		columns:        make(map[int32]*Column),
		viewportWidth:  1920,
		viewportHeight: 1080,
		lastSweep:      time.Now(),
		speed:          newSpeedHandle(config.ScrollSpeed),
	}
	s.ensureColumn(0)
	return s
}

// ensureColumn lazily creates the column at index if missing.
func (w *Strip) ensureColumn(index int32) *Column {
	c, ok := w.columns[index]
	if !ok {
		c = newColumn(index, w.config.ColumnWidth)
		w.columns[index] = c
	}
	return c
}

// SetViewportSize updates the visible viewport dimensions, e.g. on output
// topology change.
func (w *Strip) SetViewportSize(width, height float64) {
	w.viewportWidth, w.viewportHeight = width, height
}

// SetReservedInsets sets the layer-shell exclusive zone insets
// (top, right, bottom, left), clamped to non-negative.
func (w *Strip) SetReservedInsets(top, right, bottom, left float64) {
	w.insetTop = nonNegative(top)
	w.insetRight = nonNegative(right)
	w.insetBottom = nonNegative(bottom)
	w.insetLeft = nonNegative(left)
}

// UpdateReservedInsetsMax raises insets to the component-wise max of the
// current and supplied values, used when multiple layer-shell clients
// reserve zones independently.
func (w *Strip) UpdateReservedInsetsMax(top, right, bottom, left float64) {
	w.SetReservedInsets(
		maxf(w.insetTop, top),
		maxf(w.insetRight, right),
		maxf(w.insetBottom, bottom),
		maxf(w.insetLeft, left),
	)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ScrollToColumn begins an animated scroll to the given column index,
// creating it if necessary. Infinite scroll means index may be negative.
func (w *Strip) ScrollToColumn(index int32) {
	w.scrollToColumn(index, time.Now())
}

// ScrollLeft moves the focused index left by one and animates to it.
func (w *Strip) ScrollLeft() {
	w.ScrollToColumn(w.focusedColumn - 1)
}

// ScrollRight moves the focused index right by one and animates to it.
func (w *Strip) ScrollRight() {
	w.ScrollToColumn(w.focusedColumn + 1)
}

// StartMomentumScroll begins inertial scrolling from a gesture velocity.
func (w *Strip) StartMomentumScroll(velocity float64) {
	w.startMomentumScroll(velocity, time.Now())
}

// CancelScroll cancels any in-flight animation or momentum.
func (w *Strip) CancelScroll() {
	w.cancelScroll()
}

// Tick advances scroll physics and performs the periodic empty-column
// sweep. Callers (the presenter's render loop) should call this once per
// iteration.
func (w *Strip) Tick(now time.Time) {
	w.updateAnimation(now)
	if now.Sub(w.lastSweep) > time.Second {
		w.sweepEmptyColumns(now)
		w.lastSweep = now
	}
}

func (w *Strip) sweepEmptyColumns(now time.Time) {
	for idx, c := range w.columns {
		if idx == w.focusedColumn {
			continue
		}
		if c.IsEmpty() && now.Sub(c.lastAccess) > columnGCGrace {
			delete(w.columns, idx)
		}
	}
}

// CurrentPosition returns the current scroll position in logical pixels.
func (w *Strip) CurrentPosition() float64 { return w.currentPos }

// FocusedColumnIndex returns the index of the focused column.
func (w *Strip) FocusedColumnIndex() int32 { return w.focusedColumn }

// FocusedColumn returns the focused column, creating it if needed.
func (w *Strip) FocusedColumn() *Column {
	return w.ensureColumn(w.focusedColumn)
}

// Column returns the column at index, if it exists.
func (w *Strip) Column(index int32) (*Column, bool) {
	c, ok := w.columns[index]
	return c, ok
}

// ActiveWindowCount returns the total number of windows across all
// columns.
func (w *Strip) ActiveWindowCount() int {
	n := 0
	for _, c := range w.columns {
		n += len(c.Windows)
	}
	return n
}

// ActiveColumnCount returns the number of columns currently tracked.
func (w *Strip) ActiveColumnCount() int { return len(w.columns) }

// AllColumns returns every tracked column (not just the visible ones),
// sorted by index, for callers that need to enumerate the full strip
// rather than just what's on screen (e.g. state snapshotting).
func (w *Strip) AllColumns() []*Column {
	out := make([]*Column, 0, len(w.columns))
	for _, c := range w.columns {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// HasFocus reports whether this column currently holds input focus.
func (c *Column) HasFocus() bool { return c.hasFocus }

// IsScrolling reports whether the strip is currently animating or in
// momentum.
func (w *Strip) IsScrolling() bool { return w.state.phase != PhaseIdle }

// WindowExists reports whether windowID is present in any column.
func (w *Strip) WindowExists(windowID uint64) bool {
	for _, c := range w.columns {
		for _, id := range c.Windows {
			if id == windowID {
				return true
			}
		}
	}
	return false
}

// AddWindowToColumn appends windowID to the column at columnIndex,
// creating the column if needed.
func (w *Strip) AddWindowToColumn(windowID uint64, columnIndex int32) {
	w.ensureColumn(columnIndex).addWindow(windowID)
}

// AddWindow appends windowID to the focused column.
func (w *Strip) AddWindow(windowID uint64) {
	w.AddWindowToColumn(windowID, w.focusedColumn)
}

// RemoveWindow removes windowID from whichever column holds it, returning
// that column's index.
func (w *Strip) RemoveWindow(windowID uint64) (int32, bool) {
	for idx, c := range w.columns {
		if c.removeWindow(windowID) {
			return idx, true
		}
	}
	return 0, false
}

// MoveWindowToColumn is the primitive window-placement operation: it
// removes windowID from its current column (if any) and appends it to
// target, creating target if necessary.
func (w *Strip) MoveWindowToColumn(windowID uint64, target int32) bool {
	if _, ok := w.RemoveWindow(windowID); !ok {
		return false
	}
	w.AddWindowToColumn(windowID, target)
	return true
}

// MoveWindowLeft relocates windowID to focused-1.
func (w *Strip) MoveWindowLeft(windowID uint64) bool {
	return w.MoveWindowToColumn(windowID, w.focusedColumn-1)
}

// MoveWindowRight relocates windowID to focused+1.
func (w *Strip) MoveWindowRight(windowID uint64) bool {
	return w.MoveWindowToColumn(windowID, w.focusedColumn+1)
}

// FocusedColumnWindows returns a copy of the window ids in the focused
// column.
func (w *Strip) FocusedColumnWindows() []uint64 {
	c, ok := w.columns[w.focusedColumn]
	if !ok {
		return nil
	}
	return append([]uint64(nil), c.Windows...)
}

// VisibleColumns returns the columns whose x-origin falls within the
// visible range around the current scroll position (spec.md C4
// "Visible-columns computation").
func (w *Strip) VisibleColumns() []*Column {
	left := w.currentPos - w.viewportWidth/2 - w.config.ColumnWidth
	right := w.currentPos + w.viewportWidth/2 + w.config.ColumnWidth
	var out []*Column
	for _, c := range w.columns {
		if c.X >= left && c.X <= right {
			out = append(out, c)
		}
	}
	return out
}

// CalculateLayouts computes screen-space rectangles for every window in
// every currently visible column.
func (w *Strip) CalculateLayouts() map[uint64]geom.Rect {
	layouts := make(map[uint64]geom.Rect)
	for _, c := range w.VisibleColumns() {
		columnOffset := c.X - w.currentPos
		columnLeft := w.viewportWidth/2 + columnOffset

		if columnLeft+w.config.ColumnWidth < 0 || columnLeft > w.viewportWidth {
			continue
		}
		if c.IsEmpty() {
			continue
		}

		usableHeight := geom.Clamp1(int(w.viewportHeight - w.insetTop - w.insetBottom))
		usableWidth := geom.Clamp1(int(w.config.ColumnWidth - w.insetLeft - w.insetRight))
		bounds := geom.NewRect(
			int(columnLeft+w.insetLeft),
			int(w.insetTop),
			usableWidth,
			usableHeight,
		)
		for id, rect := range layoutColumn(c, bounds, w.config.Gap) {
			layouts[id] = rect
		}
	}
	return layouts
}

// CycleLayoutMode advances the focused column to the next layout mode in
// the fixed cycle Vertical -> Horizontal -> MasterStack -> Grid -> Spiral
// -> Vertical.
func (w *Strip) CycleLayoutMode() {
	c := w.FocusedColumn()
	c.LayoutMode = (c.LayoutMode + 1) % (LayoutSpiral + 1)
}

// SetLayoutMode sets the focused column's layout mode explicitly.
func (w *Strip) SetLayoutMode(mode LayoutMode) {
	w.FocusedColumn().LayoutMode = mode
}

// LayoutMode returns the focused column's current layout mode.
func (w *Strip) LayoutMode() LayoutMode {
	return w.FocusedColumn().LayoutMode
}

// SetScrollSpeed updates the scroll speed multiplier at runtime, clamped
// to (0, 10] per spec.md §6's validation rule, and publishes the new value
// through the strip's read-only SpeedHandle (defined below; this replaces
// the teacher source's package-level mutable global per DESIGN NOTES).
func (w *Strip) SetScrollSpeed(speed float64) {
	clamped := clamp(speed, 0.01, 10.0)
	w.config.ScrollSpeed = clamped
	w.speed.set(clamped)
}

// ScrollSpeed returns the current scroll speed multiplier.
func (w *Strip) ScrollSpeed() float64 { return w.config.ScrollSpeed }

// SpeedSnapshot returns a read-only handle readers can poll for the
// current scroll speed without synchronizing with the engine directly.
func (w *Strip) SpeedSnapshot() *SpeedHandle {
	return &SpeedHandle{h: w.speed}
}

// speedHandle is the engine-owned, mutex-protected backing store for the
// published scroll-speed snapshot.
type speedHandle struct {
	mu    sync.RWMutex
	value float64
}

func newSpeedHandle(v float64) *speedHandle {
	return &speedHandle{value: v}
}

func (h *speedHandle) set(v float64) {
	h.mu.Lock()
	h.value = v
	h.mu.Unlock()
}

func (h *speedHandle) get() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

// SpeedHandle is a read-only view onto the workspace engine's current
// scroll speed, safe to share with metrics readers outside the engine's
// own lock scope.
type SpeedHandle struct {
	h *speedHandle
}

// Value returns the current scroll speed.
func (s *SpeedHandle) Value() float64 { return s.h.get() }
