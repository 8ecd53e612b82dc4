package input

import "axiom.land/axiom/internal/geom"

// HitTarget is one window's current screen-space rectangle, in the
// z-order the caller wants hit-tested: descending order, i.e. topmost
// (focused column first, then by rank — spec.md C7) first.
type HitTarget struct {
	WindowID uint64
	Rect     geom.Rect
	// DecorationRect, if non-empty, is checked first within Rect — a
	// click inside it is a decoration hit rather than content, per
	// spec.md C7's "decoration buttons intercept before window content".
	DecorationRect geom.Rect
}

// HitResult reports what a point hit.
type HitResult struct {
	WindowID    uint64
	Decoration  bool
	LocalX, LocalY int // window-local coordinates, for decoration hit-testing
}

// HitTest walks targets in the supplied (already z-ordered) order and
// returns the first one whose rectangle contains (x, y).
func HitTest(targets []HitTarget, x, y int) (HitResult, bool) {
	for _, t := range targets {
		if !t.Rect.ContainsPoint(x, y) {
			continue
		}
		localX, localY := x-t.Rect.X, y-t.Rect.Y
		decoration := !t.DecorationRect.Empty() && t.DecorationRect.ContainsPoint(localX, localY)
		return HitResult{WindowID: t.WindowID, Decoration: decoration, LocalX: localX, LocalY: localY}, true
	}
	return HitResult{}, false
}
