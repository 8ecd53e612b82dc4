// Package damage implements Axiom's per-surface and per-frame damage
// tracking (spec.md C1): accumulating dirty regions between commits,
// promoting to full-window damage past a region cap, and computing
// coalesced screen-space damage for the presenter.
package damage

import (
	"sort"

	"axiom.land/axiom/internal/geom"
)

// maxRegions is the per-window region cap; past this, damage is promoted
// to a full-window flag rather than tracking individual rectangles.
const maxRegions = 16

// adjacencyThreshold is how close (in pixels) two regions must be to be
// coalesced together even when they don't overlap.
const adjacencyThreshold = 10

// WindowDamage tracks the damage state of a single window between
// presentations.
type WindowDamage struct {
	Regions     []geom.Rect
	Full        bool
	FrameNumber uint64
}

// AddRegion records a damaged region as given (clipping out-of-bounds
// coordinates is the caller's job; see AddWindowDamage), and promotes to
// full damage once the region count exceeds maxRegions.
func (w *WindowDamage) AddRegion(r geom.Rect) {
	if w.Full {
		return
	}
	w.Regions = append(w.Regions, r)
	if len(w.Regions) > maxRegions {
		w.Full = true
		w.Regions = nil
	}
}

// MarkFull marks the entire window as damaged.
func (w *WindowDamage) MarkFull() {
	w.Full = true
	w.Regions = nil
}

// Clear resets all damage for the window.
func (w *WindowDamage) Clear() {
	w.Full = false
	w.Regions = nil
}

// HasDamage reports whether the window has any pending damage.
func (w *WindowDamage) HasDamage() bool {
	return w.Full || len(w.Regions) > 0
}

// Merge coalesces overlapping or near-adjacent regions to reduce the
// scissor count the presenter has to draw.
func (w *WindowDamage) Merge() {
	if w.Full || len(w.Regions) <= 1 {
		return
	}
	regions := append([]geom.Rect(nil), w.Regions...)
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	merged := regions[:1]
	current := regions[0]
	for _, r := range regions[1:] {
		if current.Intersects(r) || current.Adjacent(r, adjacencyThreshold) {
			current = current.Union(r)
			merged[len(merged)-1] = current
		} else {
			merged = append(merged, r)
			current = r
		}
	}
	w.Regions = merged
}

// FrameDamage aggregates per-window damage for a single compositor frame
// and computes the coalesced screen-space output damage.
type FrameDamage struct {
	windows       map[uint64]*WindowDamage
	outputRegions []geom.Rect
	frameNumber   uint64
	outputValid   bool
}

// NewFrameDamage creates an empty frame damage accumulator.
func NewFrameDamage() *FrameDamage {
	return &FrameDamage{windows: make(map[uint64]*WindowDamage)}
}

// FrameNumber returns the frame-monotonic counter the presenter consumes
// to decide whether to render at all.
func (f *FrameDamage) FrameNumber() uint64 { return f.frameNumber }

// AdvanceFrame bumps the frame counter; called once per presentation.
func (f *FrameDamage) AdvanceFrame() {
	f.frameNumber++
}

func (f *FrameDamage) entry(windowID uint64) *WindowDamage {
	w, ok := f.windows[windowID]
	if !ok {
		w = &WindowDamage{FrameNumber: f.frameNumber}
		f.windows[windowID] = w
	}
	return w
}

// AddWindowDamage records a damaged region for windowID, clamped to the
// window's content rectangle by the caller before invocation.
func (f *FrameDamage) AddWindowDamage(windowID uint64, r geom.Rect) {
	w := f.entry(windowID)
	w.AddRegion(r)
	w.FrameNumber = f.frameNumber
	f.outputValid = false
}

// MarkWindowDamaged marks windowID as fully damaged, used when a surface
// commits a new buffer without explicit damage regions.
func (f *FrameDamage) MarkWindowDamaged(windowID uint64) {
	w := f.entry(windowID)
	w.MarkFull()
	w.FrameNumber = f.frameNumber
	f.outputValid = false
}

// HasAnyDamage reports whether any window has pending damage.
func (f *FrameDamage) HasAnyDamage() bool {
	for _, w := range f.windows {
		if w.HasDamage() {
			return true
		}
	}
	return false
}

// Window returns the damage state for windowID, or nil.
func (f *FrameDamage) Window(windowID uint64) *WindowDamage {
	return f.windows[windowID]
}

// DamagedWindows returns the ids of windows with pending damage.
func (f *FrameDamage) DamagedWindows() []uint64 {
	var ids []uint64
	for id, w := range f.windows {
		if w.HasDamage() {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClearWindow clears damage for a single window, e.g. once its buffer has
// been uploaded and its contribution folded into output damage.
func (f *FrameDamage) ClearWindow(windowID uint64) {
	if w, ok := f.windows[windowID]; ok {
		w.Clear()
	}
}

// ComputeOutputDamage translates window-local damage into screen-space
// regions using the supplied window positions and sizes, then coalesces
// the result. Windows absent from positions are treated as not currently
// visible and skipped.
func (f *FrameDamage) ComputeOutputDamage(positions map[uint64]geom.Point, sizes map[uint64]geom.Point) {
	f.outputRegions = f.outputRegions[:0]
	for id, w := range f.windows {
		if !w.HasDamage() {
			continue
		}
		pos, ok := positions[id]
		if !ok {
			continue
		}
		if w.Full {
			size, ok := sizes[id]
			if !ok {
				continue
			}
			f.outputRegions = append(f.outputRegions, geom.NewRect(pos.X, pos.Y, size.X, size.Y))
			continue
		}
		for _, r := range w.Regions {
			f.outputRegions = append(f.outputRegions, r.Translate(pos.X, pos.Y))
		}
	}
	f.mergeOutputRegions()
	f.outputValid = true
}

func (f *FrameDamage) mergeOutputRegions() {
	if len(f.outputRegions) <= 1 {
		return
	}
	regions := append([]geom.Rect(nil), f.outputRegions...)
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Y != regions[j].Y {
			return regions[i].Y < regions[j].Y
		}
		return regions[i].X < regions[j].X
	})
	merged := regions[:1]
	current := regions[0]
	for _, r := range regions[1:] {
		if current.Intersects(r) || current.Adjacent(r, adjacencyThreshold) {
			current = current.Union(r)
			merged[len(merged)-1] = current
		} else {
			merged = append(merged, r)
			current = r
		}
	}
	f.outputRegions = merged
}

// OutputDamage returns the coalesced screen-space damage regions computed
// by the most recent ComputeOutputDamage call.
func (f *FrameDamage) OutputDamage() []geom.Rect {
	if !f.outputValid {
		return nil
	}
	return f.outputRegions
}
