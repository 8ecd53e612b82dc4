// Package present implements Axiom's multi-output presenter / render loop
// (spec.md C3): output topology reconciliation, per-output scissor
// rectangles, the Idle/Rendering/AwaitingVsync render state machine, and
// presentation-feedback timing.
//
// Grounded on gio's app/internal/window/os_wayland.go `window.loop`/
// `window.draw` poll-redraw-present cycle and its `lastFrameCallback`
// bookkeeping (a frame callback is requested exactly once per draw and
// cleared when it fires), inverted here from gio's single-window client
// loop into a multi-output compositor loop driven by damage rather than
// client invalidation requests.
package present

import (
	"errors"

	"axiom.land/axiom/internal/damage"
	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/protocol"
)

// PresentMode mirrors the --present-mode CLI flag (spec.md §6).
type PresentMode int

const (
	PresentAuto PresentMode = iota
	PresentFifo
	PresentMailbox
	PresentImmediate
)

func ParsePresentMode(s string) (PresentMode, bool) {
	switch s {
	case "auto", "":
		return PresentAuto, true
	case "fifo":
		return PresentFifo, true
	case "mailbox":
		return PresentMailbox, true
	case "immediate":
		return PresentImmediate, true
	default:
		return PresentAuto, false
	}
}

// Phase is the render-loop state machine's current state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRendering
	PhaseAwaitingVsync
)

// ErrSwapTransient signals a recoverable present failure (skipped frame,
// re-enter Idle and retry next tick). ErrContextLost signals the GPU
// context itself is gone and must escalate to recovery (C9).
var (
	ErrSwapTransient = errors.New("present: swap buffers failed transiently")
	ErrContextLost   = errors.New("present: GPU context lost")
)

// GPUSurface is the presenter's boundary with the actual GPU backend. Per
// spec.md §1 ("GPU shader set ... out of scope"), Axiom only depends on
// this interface; a concrete backend (Vulkan/GL) is wired in by cmd/axiomd.
type GPUSurface interface {
	// SetScissors is called once per frame with every output's current
	// screen rectangle before drawing begins.
	SetScissors(scissors []OutputScissor)
	// DrawWindow draws one window's current texture into the frame.
	DrawWindow(windowID uint64, screenRect geom.Rect, zIndex int)
	// Present submits the frame. Returns ErrSwapTransient or
	// ErrContextLost (via errors.Is) on failure, nil on success.
	Present(mode PresentMode) error
}

// OutputScissor is one output's screen-space clip rectangle, passed to
// the GPU backend each frame.
type OutputScissor struct {
	Output *protocol.Output
	Rect   geom.Rect
}

// Visible describes one window's current screen-space placement and
// stacking order, as computed by the caller (workspace + window manager)
// each tick.
type Visible struct {
	WindowID   uint64
	ScreenRect geom.Rect
	ZIndex     int
}

// Presenter owns the render loop's state machine and output topology.
type Presenter struct {
	gpu   GPUSurface
	mode  PresentMode
	debug bool

	phase     Phase
	topology  *Topology
	scissors  []OutputScissor
	clearOnly bool // true when the last frame had no mapped windows
}

// ClearColor is submitted when there is no content to draw, so the host
// window/output remains visible rather than showing stale or undefined
// contents.
var ClearColor = [4]float32{0.05, 0.05, 0.07, 1.0}

// NewPresenter creates a presenter in PhaseIdle with an empty topology.
func NewPresenter(gpu GPUSurface, mode PresentMode, debug bool) *Presenter {
	return &Presenter{gpu: gpu, mode: mode, debug: debug, topology: NewTopology()}
}

func (p *Presenter) Phase() Phase { return p.phase }

// ReconcileOutputs compares current against the last known topology and
// returns the add/remove ops the caller must forward to C6 (protocol),
// in reverse-order-removes-then-left-to-right-adds order, then recomputes
// this presenter's per-output scissor rectangles.
func (p *Presenter) ReconcileOutputs(current []*protocol.Output) []OutputOp {
	ops := p.topology.Reconcile(current)
	p.scissors = make([]OutputScissor, 0, len(current))
	for _, o := range current {
		p.scissors = append(p.scissors, OutputScissor{Output: o, Rect: outputRect(o)})
	}
	return ops
}

func outputRect(o *protocol.Output) geom.Rect {
	return geom.NewRect(o.X, o.Y, o.Width, o.Height)
}

// Tick runs one iteration of the render loop per spec.md C3's five-step
// contract. windows must already be sorted back-to-front (ascending
// ZIndex) by the caller. redrawRequested covers explicit invalidation
// (e.g. a resize or an animation timer) independent of accumulated
// damage. It returns whether a frame was actually presented.
func (p *Presenter) Tick(fd *damage.FrameDamage, windows []Visible, redrawRequested bool) (bool, error) {
	if !redrawRequested && (fd == nil || !fd.HasAnyDamage()) {
		return false, nil
	}

	p.phase = PhaseRendering
	visible := visibleInScissors(windows, p.scissors)

	p.gpu.SetScissors(p.scissors)
	if len(visible) == 0 {
		p.clearOnly = true
	} else {
		p.clearOnly = false
		for _, v := range visible {
			p.gpu.DrawWindow(v.WindowID, v.ScreenRect, v.ZIndex)
		}
	}

	err := p.gpu.Present(p.mode)
	switch {
	case err == nil:
		p.phase = PhaseAwaitingVsync
		if fd != nil {
			fd.AdvanceFrame()
		}
		return true, nil
	case errors.Is(err, ErrContextLost):
		p.phase = PhaseIdle
		return false, err
	default:
		// Transient failure (and anything else unrecognized): drop back
		// to Idle and let the next tick retry, per spec.md C3's state
		// machine.
		p.phase = PhaseIdle
		return false, nil
	}
}

// CompleteVsync transitions AwaitingVsync back to Idle once the host's
// vsync/frame-done signal arrives, and builds the presentation-feedback
// event for every output that was part of the frame just presented.
func (p *Presenter) CompleteVsync(timestampNanos int64) []protocol.PresentedEvent {
	if p.phase != PhaseAwaitingVsync {
		return nil
	}
	p.phase = PhaseIdle
	events := make([]protocol.PresentedEvent, 0, len(p.scissors))
	for _, sc := range p.scissors {
		refresh := sc.Output.RefreshIntervalNanos()
		events = append(events, protocol.PresentedEvent{
			OutputName:     sc.Output.Name,
			TimestampNanos: timestampNanos,
			RefreshNanos:   refresh,
			SeqHi:          uint32(timestampNanos >> 32),
			SeqLo:          uint32(timestampNanos),
		})
	}
	return events
}

// visibleInScissors filters windows to those intersecting at least one
// output's scissor rectangle, per spec.md C3 step 4.
func visibleInScissors(windows []Visible, scissors []OutputScissor) []Visible {
	var out []Visible
	for _, w := range windows {
		for _, sc := range scissors {
			if w.ScreenRect.Intersects(sc.Rect) {
				out = append(out, w)
				break
			}
		}
	}
	return out
}
