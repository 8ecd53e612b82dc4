package input

import (
	"time"

	"axiom.land/axiom/internal/protocol"
)

// mousePointerSlot is the touch-slot id the gesture recognizer uses for
// the regular mouse pointer, which has no real touch-slot id of its own.
const mousePointerSlot = -1

// Dispatcher ties keyboard binding resolution, pointer hit-testing, and
// gesture recognition to one wl_seat's protocol-level pointer/keyboard
// state, per spec.md C7.
type Dispatcher struct {
	Seat     *protocol.Seat
	Bindings *BindingSet
	Gestures *Recognizer

	// Resolve maps a window id (from hit-testing) to its protocol
	// surface, so Move can drive seat.Pointer.Motion's enter/leave
	// tracking. Left nil in tests that don't need real surface objects.
	Resolve func(windowID uint64) *protocol.Surface

	mods Modifier
}

// NewDispatcher creates a dispatcher wired to seat with the given
// bindings and gesture thresholds.
func NewDispatcher(seat *protocol.Seat, bindings *BindingSet, cfg Config) *Dispatcher {
	return &Dispatcher{Seat: seat, Bindings: bindings, Gestures: NewRecognizer(cfg)}
}

// SetModifiers updates the tracked modifier state (mirrors a
// wl_keyboard.modifiers event).
func (d *Dispatcher) SetModifiers(mods Modifier) { d.mods = mods }

// HandleKey resolves a key press against the binding set. Releases never
// trigger actions (spec.md C7 bindings are press-triggered).
func (d *Dispatcher) HandleKey(key Key, pressed bool) (Action, bool) {
	if !pressed {
		return ActionNone, false
	}
	return d.Bindings.Resolve(d.mods, key)
}

// Move hit-tests (x, y) against targets, updates protocol pointer focus
// (sending the enter/leave transition through seat.Pointer.Motion), and
// feeds the motion into the gesture recognizer if a drag/gesture is in
// flight for the mouse pointer slot.
func (d *Dispatcher) Move(targets []HitTarget, x, y float64, now time.Time) (protocol.EnterResult, HitResult, []GestureEvent) {
	hit, ok := HitTest(targets, int(x), int(y))
	var surf *protocol.Surface
	if ok {
		surf = d.windowSurface(hit.WindowID)
	}
	enter := d.Seat.Pointer.Motion(surf, x, y)
	events := d.Gestures.Move(mousePointerSlot, x, y, now)
	return enter, hit, events
}

// windowSurface is a hook point: the dispatcher itself is surface-id
// agnostic (it only knows window ids from hit-testing), so callers that
// need the protocol.Surface for a window id must set Dispatcher.Resolve.
func (d *Dispatcher) windowSurface(windowID uint64) *protocol.Surface {
	if d.Resolve == nil {
		return nil
	}
	return d.Resolve(windowID)
}

// Press begins tracking a press at (x, y) for the gesture recognizer and
// records the button on the protocol pointer.
func (d *Dispatcher) Press(button uint32, x, y float64, now time.Time) {
	d.Seat.Pointer.Button(button, protocol.ButtonPressed)
	d.Gestures.Press(mousePointerSlot, x, y, now, d.mods)
}

// Release ends the press and returns any terminal gesture (tap,
// long-press, swipe, drag-end) it produced.
func (d *Dispatcher) Release(button uint32, now time.Time) []GestureEvent {
	d.Seat.Pointer.Button(button, protocol.ButtonReleased)
	return d.Gestures.Release(mousePointerSlot, now)
}

// CancelFocus is called when pointer focus leaves a surface: it sends an
// explicit leave (concluding with a frame, per spec.md's v5 discipline)
// and cancels any in-flight gesture so a dragged window's drag ends
// cleanly rather than continuing against a surface that no longer has
// focus.
func (d *Dispatcher) CancelFocus() *protocol.Surface {
	d.Gestures.Cancel(mousePointerSlot)
	return d.Seat.Pointer.Leave()
}
