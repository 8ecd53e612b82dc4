package workspace

import (
	"math"

	"axiom.land/axiom/internal/geom"
)

// layoutColumn dispatches to the layout algorithm selected for the column,
// grounded on original_source/src/workspace/mod.rs's five layout
// functions, adapted to Go's (map, bounds, gap) shape.
func layoutColumn(c *Column, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	switch c.LayoutMode {
	case LayoutHorizontal:
		return layoutHorizontal(c.Windows, bounds, gap)
	case LayoutMasterStack:
		return layoutMasterStack(c.Windows, bounds, gap)
	case LayoutGrid:
		return layoutGrid(c.Windows, bounds, gap)
	case LayoutSpiral:
		return layoutSpiral(c.Windows, bounds, gap)
	default:
		return layoutVertical(c.Windows, bounds, gap)
	}
}

// layoutVertical splits bounds' height into N equal strips separated by
// gap.
func layoutVertical(windows []uint64, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	out := make(map[uint64]geom.Rect, len(windows))
	n := len(windows)
	if n == 0 {
		return out
	}
	totalGap := gap * (n + 1)
	available := geom.Clamp1(bounds.Height - totalGap)
	windowHeight := available / n
	for i, id := range windows {
		y := bounds.Y + gap + i*(windowHeight+gap)
		out[id] = geom.NewRect(
			bounds.X+gap,
			y,
			geom.Clamp1(bounds.Width-2*gap),
			geom.Clamp1(windowHeight),
		)
	}
	return out
}

// layoutHorizontal is the dual of layoutVertical, splitting along x.
func layoutHorizontal(windows []uint64, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	out := make(map[uint64]geom.Rect, len(windows))
	n := len(windows)
	if n == 0 {
		return out
	}
	totalGap := gap * (n + 1)
	available := geom.Clamp1(bounds.Width - totalGap)
	windowWidth := available / n
	for i, id := range windows {
		x := bounds.X + gap + i*(windowWidth+gap)
		out[id] = geom.NewRect(
			x,
			bounds.Y+gap,
			geom.Clamp1(windowWidth),
			geom.Clamp1(bounds.Height-2*gap),
		)
	}
	return out
}

// layoutMasterStack gives the first window half the width (minus gaps)
// and stacks the rest vertically in the remainder.
func layoutMasterStack(windows []uint64, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	out := make(map[uint64]geom.Rect, len(windows))
	n := len(windows)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[windows[0]] = geom.NewRect(
			bounds.X+gap, bounds.Y+gap,
			geom.Clamp1(bounds.Width-2*gap), geom.Clamp1(bounds.Height-2*gap),
		)
		return out
	}
	masterWidth := (bounds.Width - 3*gap) / 2
	stackWidth := bounds.Width - masterWidth - 3*gap

	out[windows[0]] = geom.NewRect(
		bounds.X+gap, bounds.Y+gap,
		geom.Clamp1(masterWidth), geom.Clamp1(bounds.Height-2*gap),
	)

	stackWindows := windows[1:]
	stackCount := len(stackWindows)
	stackHeight := (bounds.Height - gap*(stackCount+1)) / stackCount
	for i, id := range stackWindows {
		y := bounds.Y + gap + i*(stackHeight+gap)
		out[id] = geom.NewRect(
			bounds.X+masterWidth+2*gap,
			y,
			geom.Clamp1(stackWidth),
			geom.Clamp1(stackHeight),
		)
	}
	return out
}

// layoutGrid lays windows out row-major in a cols=ceil(sqrt(n)),
// rows=ceil(n/cols) grid.
func layoutGrid(windows []uint64, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	out := make(map[uint64]geom.Rect, len(windows))
	n := len(windows)
	if n == 0 {
		return out
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	cellWidth := (bounds.Width - gap*(cols+1)) / cols
	cellHeight := (bounds.Height - gap*(rows+1)) / rows

	for idx, id := range windows {
		row := idx / cols
		col := idx % cols
		x := bounds.X + gap + col*(cellWidth+gap)
		y := bounds.Y + gap + row*(cellHeight+gap)
		out[id] = geom.NewRect(x, y, geom.Clamp1(cellWidth), geom.Clamp1(cellHeight))
	}
	return out
}

// layoutSpiral recursively bisects the remaining space, alternating
// horizontal/vertical splits; the last window takes the remainder.
func layoutSpiral(windows []uint64, bounds geom.Rect, gap int) map[uint64]geom.Rect {
	out := make(map[uint64]geom.Rect, len(windows))
	n := len(windows)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[windows[0]] = geom.NewRect(
			bounds.X+gap, bounds.Y+gap,
			geom.Clamp1(bounds.Width-2*gap), geom.Clamp1(bounds.Height-2*gap),
		)
		return out
	}

	rects := []geom.Rect{bounds}
	horizontal := true
	for i := 0; i < n; i++ {
		if i >= len(rects) {
			break
		}
		current := rects[i]
		id := windows[i]

		if i == n-1 {
			out[id] = geom.NewRect(
				current.X+gap, current.Y+gap,
				geom.Clamp1(current.Width-2*gap), geom.Clamp1(current.Height-2*gap),
			)
			continue
		}

		if horizontal {
			halfHeight := current.Height / 2
			out[id] = geom.NewRect(
				current.X+gap, current.Y+gap,
				geom.Clamp1(current.Width-2*gap), geom.Clamp1(halfHeight-gap),
			)
			rects = append(rects, geom.NewRect(
				current.X, current.Y+halfHeight,
				current.Width, current.Height-halfHeight,
			))
		} else {
			halfWidth := current.Width / 2
			out[id] = geom.NewRect(
				current.X+gap, current.Y+gap,
				geom.Clamp1(halfWidth-gap), geom.Clamp1(current.Height-2*gap),
			)
			rects = append(rects, geom.NewRect(
				current.X+halfWidth, current.Y,
				current.Width-halfWidth, current.Height,
			))
		}
		horizontal = !horizontal
	}
	return out
}
