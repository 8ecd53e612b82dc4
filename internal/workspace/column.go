package workspace

import "time"

// LayoutMode selects the tiling algorithm applied to a column's windows
// (spec.md C4 "Layout algorithms").
type LayoutMode int

const (
	LayoutVertical LayoutMode = iota
	LayoutHorizontal
	LayoutMasterStack
	LayoutGrid
	LayoutSpiral
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutVertical:
		return "vertical"
	case LayoutHorizontal:
		return "horizontal"
	case LayoutMasterStack:
		return "master-stack"
	case LayoutGrid:
		return "grid"
	case LayoutSpiral:
		return "spiral"
	default:
		return "unknown"
	}
}

// Column is a vertical workspace slot in the infinite scrollable strip
// (spec.md "Column" data model).
type Column struct {
	Index      int32
	X          float64
	Windows    []uint64
	LayoutMode LayoutMode

	focusedWindowIndex int
	hasFocus           bool
	lastAccess         time.Time
}

func newColumn(index int32, columnWidth float64) *Column {
	return &Column{
		Index:      index,
		X:          float64(index) * columnWidth,
		lastAccess: time.Now(),
	}
}

// IsEmpty reports whether the column holds no windows.
func (c *Column) IsEmpty() bool {
	return len(c.Windows) == 0
}

// addWindow appends windowID to the column if not already present.
func (c *Column) addWindow(windowID uint64) {
	for _, id := range c.Windows {
		if id == windowID {
			return
		}
	}
	c.Windows = append(c.Windows, windowID)
	c.lastAccess = time.Now()
}

// removeWindow removes windowID, reporting whether it was present.
func (c *Column) removeWindow(windowID uint64) bool {
	for i, id := range c.Windows {
		if id == windowID {
			c.Windows = append(c.Windows[:i], c.Windows[i+1:]...)
			c.lastAccess = time.Now()
			if c.focusedWindowIndex >= len(c.Windows) {
				c.focusedWindowIndex = len(c.Windows) - 1
			}
			return true
		}
	}
	return false
}

// FocusedWindow returns the id of the window with input focus within this
// column, if any.
func (c *Column) FocusedWindow() (uint64, bool) {
	if !c.hasFocus || c.focusedWindowIndex < 0 || c.focusedWindowIndex >= len(c.Windows) {
		return 0, false
	}
	return c.Windows[c.focusedWindowIndex], true
}

// FocusNext cycles focus to the next window in the column, wrapping
// around. Supplements spec.md's "layout rank within column" with explicit
// next/previous focus cycling (see SPEC_FULL.md).
func (c *Column) FocusNext() (uint64, bool) {
	if len(c.Windows) == 0 {
		return 0, false
	}
	if !c.hasFocus {
		c.focusedWindowIndex = 0
	} else {
		c.focusedWindowIndex = (c.focusedWindowIndex + 1) % len(c.Windows)
	}
	c.hasFocus = true
	return c.Windows[c.focusedWindowIndex], true
}

// FocusPrev cycles focus to the previous window in the column.
func (c *Column) FocusPrev() (uint64, bool) {
	if len(c.Windows) == 0 {
		return 0, false
	}
	if !c.hasFocus {
		c.focusedWindowIndex = len(c.Windows) - 1
	} else if c.focusedWindowIndex > 0 {
		c.focusedWindowIndex--
	} else {
		c.focusedWindowIndex = len(c.Windows) - 1
	}
	c.hasFocus = true
	return c.Windows[c.focusedWindowIndex], true
}

// Swap exchanges the windows at indices a and b within the column.
func (c *Column) Swap(a, b int) bool {
	if a < 0 || a >= len(c.Windows) || b < 0 || b >= len(c.Windows) {
		return false
	}
	c.Windows[a], c.Windows[b] = c.Windows[b], c.Windows[a]
	return true
}

// MoveFocusedUp swaps the focused window with its predecessor.
func (c *Column) MoveFocusedUp() bool {
	if !c.hasFocus || c.focusedWindowIndex <= 0 {
		return false
	}
	c.Swap(c.focusedWindowIndex, c.focusedWindowIndex-1)
	c.focusedWindowIndex--
	return true
}

// MoveFocusedDown swaps the focused window with its successor.
func (c *Column) MoveFocusedDown() bool {
	if !c.hasFocus || c.focusedWindowIndex >= len(c.Windows)-1 {
		return false
	}
	c.Swap(c.focusedWindowIndex, c.focusedWindowIndex+1)
	c.focusedWindowIndex++
	return true
}
