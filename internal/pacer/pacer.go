// Package pacer implements Axiom's frame/feedback pacer (spec.md C8):
// the per-surface frame-callback queue between commit and presentation,
// vsync-triggered callback firing, and presentation-feedback enqueueing.
//
// Grounded on gio's os_wayland.go frame-callback lifecycle
// (`lastFrameCallback`/`gio_onFrameDone`: a callback is requested once per
// draw and fires exactly once when the compositor's `wl_callback.done`
// arrives), inverted from the client side (gio only ever receives the
// `done` event) to the server side (Axiom owns the queue and decides when
// `done` fires).
package pacer

import (
	"time"

	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/protocol"
)

// pendingCallback is one wl_callback queued between commit and firing.
type pendingCallback struct {
	ObjectID    uint32
	FrameNumber uint64
}

// Visibility describes one (surface, output) pair where the surface's
// current screen rectangle intersects that output, for the pacer's
// split-frame-callbacks proportional partition.
type Visibility struct {
	SurfaceID  uint64
	Output     *protocol.Output
	ScreenRect geom.Rect
}

// Fired is one callback the pacer decided to fire this tick.
type Fired struct {
	SurfaceID       uint64
	ObjectID        uint32
	TimestampMillis uint32
	OutputName      string
}

// Pacer owns the per-surface frame-callback queues and the
// split-frame-callbacks policy.
type Pacer struct {
	queues              map[uint64][]pendingCallback
	feedback            *protocol.FeedbackQueue
	splitFrameCallbacks bool
}

// NewPacer creates a pacer. splitFrameCallbacks mirrors the
// --split-frame-callbacks CLI flag (spec.md §6/C8).
func NewPacer(splitFrameCallbacks bool) *Pacer {
	return &Pacer{
		queues:              make(map[uint64][]pendingCallback),
		feedback:            protocol.NewFeedbackQueue(),
		splitFrameCallbacks: splitFrameCallbacks,
	}
}

// Enqueue queues surf's newly-committed frame callbacks (and, if
// wantsFeedback, a presentation-feedback object) under frameNumber, to be
// fired/resolved once that frame is actually presented and the surface
// is found dirty-and-visible.
func (p *Pacer) Enqueue(surfaceID uint64, frameNumber uint64, callbacks []protocol.FrameCallback, feedbackObjectID uint32, wantsFeedback bool) {
	for _, cb := range callbacks {
		p.queues[surfaceID] = append(p.queues[surfaceID], pendingCallback{ObjectID: cb.ObjectID, FrameNumber: frameNumber})
	}
	if wantsFeedback {
		p.feedback.Register(surfaceID, feedbackObjectID, frameNumber)
	}
}

// Tick runs one vsync-triggered pass per spec.md C8's four steps: reads
// the dirty set from fd, fires queued callbacks (and enqueues
// presentation-feedback) for every dirty surface that is mapped and
// visible on at least one output, then clears the damage of each surface
// it processed. Dirty surfaces that are unmapped or not visible on any
// output keep their damage and their queued callbacks for a later tick.
func (p *Pacer) Tick(now time.Time, fd *damage.FrameDamage, visibility []Visibility, mapped func(surfaceID uint64) bool) ([]Fired, []protocol.PresentationFeedback) {
	bySurface := groupBySurface(visibility)
	var fired []Fired
	var resolvedFeedback []protocol.PresentationFeedback

	for _, surfaceID := range fd.DamagedWindows() {
		if !mapped(surfaceID) {
			continue
		}
		vis := bySurface[surfaceID]
		if len(vis) == 0 {
			continue
		}
		pending := p.queues[surfaceID]

		// Resolve every feedback object queued at or before the latest
		// callback's frame number; with no callbacks queued this frame,
		// any outstanding feedback for the surface resolves unconditionally.
		maxFrame := ^uint64(0)
		if len(pending) > 0 {
			maxFrame = pending[len(pending)-1].FrameNumber
			if p.splitFrameCallbacks {
				fired = append(fired, p.fireSplit(now, surfaceID, pending, vis)...)
			} else {
				fired = append(fired, p.firePrimary(now, surfaceID, pending, vis)...)
			}
			delete(p.queues, surfaceID)
		}
		resolvedFeedback = append(resolvedFeedback, p.feedback.Resolve(surfaceID, maxFrame)...)

		fd.ClearWindow(surfaceID)
	}
	return fired, resolvedFeedback
}

func groupBySurface(visibility []Visibility) map[uint64][]Visibility {
	m := make(map[uint64][]Visibility)
	for _, v := range visibility {
		m[v.SurfaceID] = append(m[v.SurfaceID], v)
	}
	return m
}

// firePrimary fires every pending callback against the primary output
// (the one with the largest on-screen area), per spec.md C8's
// split-disabled policy.
func (p *Pacer) firePrimary(now time.Time, surfaceID uint64, pending []pendingCallback, vis []Visibility) []Fired {
	primary := largestArea(vis)
	ts := timestampMillis(now)
	out := make([]Fired, 0, len(pending))
	for _, cb := range pending {
		out = append(out, Fired{SurfaceID: surfaceID, ObjectID: cb.ObjectID, TimestampMillis: ts, OutputName: primary.Output.Name})
	}
	return out
}

// fireSplit partitions pending callbacks across vis proportionally to
// each output's share of the surface's total visible area, per spec.md
// C8's split-enabled policy.
func (p *Pacer) fireSplit(now time.Time, surfaceID uint64, pending []pendingCallback, vis []Visibility) []Fired {
	totalArea := 0
	for _, v := range vis {
		totalArea += v.ScreenRect.Area()
	}
	if totalArea == 0 {
		return p.firePrimary(now, surfaceID, pending, vis)
	}

	out := make([]Fired, 0, len(pending))
	idx := 0
	remaining := len(pending)
	for i, v := range vis {
		var share int
		if i == len(vis)-1 {
			share = remaining // last output absorbs any rounding remainder
		} else {
			share = len(pending) * v.ScreenRect.Area() / totalArea
			if share > remaining {
				share = remaining
			}
		}
		ts := timestampMillis(now)
		for j := 0; j < share; j++ {
			out = append(out, Fired{SurfaceID: surfaceID, ObjectID: pending[idx].ObjectID, TimestampMillis: ts, OutputName: v.Output.Name})
			idx++
		}
		remaining -= share
	}
	return out
}

func largestArea(vis []Visibility) Visibility {
	best := vis[0]
	for _, v := range vis[1:] {
		if v.ScreenRect.Area() > best.ScreenRect.Area() {
			best = v
		}
	}
	return best
}

func timestampMillis(t time.Time) uint32 {
	return uint32(t.UnixMilli())
}
