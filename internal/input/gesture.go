package input

import "time"

// GestureKind distinguishes the recognized gesture shapes from spec.md
// C7.
type GestureKind int

const (
	GestureTap GestureKind = iota
	GestureLongPress
	GestureSwipe
	GestureDragStart
	GestureDragMove
	GestureDragEnd
	GesturePinchScroll      // two-finger horizontal pinch -> workspace scroll
	GestureThreeFingerSwipe // three-finger horizontal swipe -> column switch
)

// DragKind distinguishes what a modifier-qualified drag initiates.
type DragKind int

const (
	DragNone DragKind = iota
	DragMoveWindow
	DragResizeWindow
)

// GestureEvent is one recognized gesture, emitted by Recognizer.
type GestureEvent struct {
	Kind      GestureKind
	TouchID   int
	X, Y      float64
	Dx, Dy    float64
	Direction Direction
	Drag      DragKind
}

// Config holds the configurable gesture-classification thresholds from
// spec.md C7.
type Config struct {
	TapMaxDuration       time.Duration
	LongPressMinDuration time.Duration
	SwipeMinDistance     float64
	DragThreshold        float64
	PinchGain            float64
	MoveModifier         Modifier // modifier that turns a drag into a window move
	ResizeModifier       Modifier // modifier that turns a drag into a window resize
}

// DefaultConfig returns spec.md C7's stated defaults.
func DefaultConfig() Config {
	return Config{
		TapMaxDuration:       200 * time.Millisecond,
		LongPressMinDuration: 500 * time.Millisecond,
		SwipeMinDistance:     50,
		DragThreshold:        12,
		PinchGain:            1.0,
		MoveModifier:         ModSuper,
		ResizeModifier:       ModAlt,
	}
}

// Recognizer tracks every active touch/pointer slot and emits gesture
// events as their motion crosses classification thresholds.
type Recognizer struct {
	cfg   Config
	slots map[int]*TouchSlot
	// order records slot-id insertion order, used to tell the first
	// pressed slot from later ones for multi-finger gestures.
	order []int
}

// NewRecognizer creates a gesture recognizer with the given thresholds.
func NewRecognizer(cfg Config) *Recognizer {
	return &Recognizer{cfg: cfg, slots: make(map[int]*TouchSlot)}
}

// Press begins tracking a new touch/pointer slot.
func (r *Recognizer) Press(id int, x, y float64, now time.Time, mods Modifier) {
	r.slots[id] = &TouchSlot{ID: id, StartX: x, StartY: y, StartTime: now, X: x, Y: y, LastMoveAt: now, Mods: mods}
	r.order = append(r.order, id)
}

// Move updates a slot's position and returns any gestures its motion
// (alone, or combined with sibling slots for multi-finger gestures)
// triggers.
func (r *Recognizer) Move(id int, x, y float64, now time.Time) []GestureEvent {
	s, ok := r.slots[id]
	if !ok {
		return nil
	}
	dx, dy := x-s.X, y-s.Y
	s.X, s.Y = x, y
	s.LastMoveAt = now

	var events []GestureEvent
	if n := len(r.slots); n == 2 {
		if e, ok := r.twoFingerPinch(dx, dy); ok {
			events = append(events, e)
		}
		return events
	} else if n == 3 {
		if e, ok := r.threeFingerSwipe(id); ok {
			events = append(events, e)
		}
		return events
	}

	if !s.Moved && s.distanceFromStart() >= r.cfg.DragThreshold {
		s.Moved = true
		drag := r.dragKindFor(s.Mods)
		if drag != DragNone {
			s.Dragging = true
			events = append(events, GestureEvent{Kind: GestureDragStart, TouchID: id, X: x, Y: y, Drag: drag})
		}
	} else if s.Dragging {
		events = append(events, GestureEvent{Kind: GestureDragMove, TouchID: id, X: x, Y: y, Dx: dx, Dy: dy, Drag: r.dragKindFor(s.Mods)})
	}
	return events
}

func (r *Recognizer) dragKindFor(mods Modifier) DragKind {
	switch {
	case mods.Has(r.cfg.MoveModifier):
		return DragMoveWindow
	case mods.Has(r.cfg.ResizeModifier):
		return DragResizeWindow
	default:
		return DragNone
	}
}

// twoFingerPinch treats a two-slot move as a combined horizontal
// workspace-scroll gesture, per spec.md C7's "horizontal two-finger
// pinch maps to workspace scroll at gain = 1" rule.
func (r *Recognizer) twoFingerPinch(dx, dy float64) (GestureEvent, bool) {
	if dx == 0 {
		return GestureEvent{}, false
	}
	return GestureEvent{Kind: GesturePinchScroll, Dx: dx * r.cfg.PinchGain}, true
}

// threeFingerSwipe fires once per three-finger slot set when the
// triggering slot has moved far enough horizontally, per spec.md C7's
// "three-finger horizontal swipe switches column by ±1" rule.
func (r *Recognizer) threeFingerSwipe(triggerID int) (GestureEvent, bool) {
	s, ok := r.slots[triggerID]
	if !ok {
		return GestureEvent{}, false
	}
	dx := s.X - s.StartX
	if s.Moved || absf(dx) < r.cfg.SwipeMinDistance {
		return GestureEvent{}, false
	}
	s.Moved = true // fire once per gesture, not once per pixel past threshold
	dir := DirE
	if dx < 0 {
		dir = DirW
	}
	return GestureEvent{Kind: GestureThreeFingerSwipe, TouchID: triggerID, Direction: dir}, true
}

// Release ends tracking for id and classifies the completed gesture as a
// tap, long-press, swipe, or drag-end.
func (r *Recognizer) Release(id int, now time.Time) []GestureEvent {
	s, ok := r.slots[id]
	if !ok {
		return nil
	}
	delete(r.slots, id)
	r.removeFromOrder(id)

	held := now.Sub(s.StartTime)
	var ev GestureEvent
	switch {
	case s.Dragging:
		ev = GestureEvent{Kind: GestureDragEnd, TouchID: id, X: s.X, Y: s.Y, Drag: r.dragKindFor(s.Mods)}
	case !s.Moved && held <= r.cfg.TapMaxDuration:
		ev = GestureEvent{Kind: GestureTap, TouchID: id, X: s.X, Y: s.Y}
	case !s.Moved && held >= r.cfg.LongPressMinDuration:
		ev = GestureEvent{Kind: GestureLongPress, TouchID: id, X: s.X, Y: s.Y}
	case s.distanceFromStart() >= r.cfg.SwipeMinDistance:
		dx, dy := s.X-s.StartX, s.Y-s.StartY
		ev = GestureEvent{Kind: GestureSwipe, TouchID: id, X: s.X, Y: s.Y, Dx: dx, Dy: dy, Direction: QuantizeDirection(dx, dy)}
	default:
		return nil
	}
	return []GestureEvent{ev}
}

// Cancel drops a slot without emitting a terminal gesture event, e.g.
// when focus leaves the surface that owned it (spec.md C7's cancellation
// rule).
func (r *Recognizer) Cancel(id int) {
	delete(r.slots, id)
	r.removeFromOrder(id)
}

func (r *Recognizer) removeFromOrder(id int) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
