package protocol

// KeyboardRepeatInfo carries the wl_keyboard repeat_info rate (chars/sec)
// and delay (ms), defaulting to spec.md's 30/500.
type KeyboardRepeatInfo struct {
	Rate  int32
	Delay int32
}

// DefaultKeyboardRepeatInfo returns Axiom's built-in repeat rate/delay.
func DefaultKeyboardRepeatInfo() KeyboardRepeatInfo {
	return KeyboardRepeatInfo{Rate: 30, Delay: 500}
}

// Keyboard is the wl_seat's keyboard capability state: the keymap fd
// handed to clients on bind, repeat info, modifier state, and focus.
type Keyboard struct {
	KeymapFd   int
	KeymapSize uint32
	Repeat     KeyboardRepeatInfo

	ModsDepressed, ModsLatched, ModsLocked, Group uint32

	Focused *Surface
}

// NewKeyboard creates keyboard state with the default repeat info; the
// keymap fd is populated by the caller once it has compiled/loaded the
// xkbcommon keymap (spec.md: "RW CLOEXEC memfd on Linux, temp file
// fallback elsewhere" — a concern of the platform layer, not this state
// machine).
func NewKeyboard() *Keyboard {
	return &Keyboard{Repeat: DefaultKeyboardRepeatInfo()}
}

// SetFocus updates keyboard focus, returning the previously-focused
// surface (for the caller to send a leave event to) if it changed.
func (k *Keyboard) SetFocus(surf *Surface) (previous *Surface, changed bool) {
	if k.Focused == surf {
		return nil, false
	}
	previous = k.Focused
	k.Focused = surf
	return previous, true
}

// SetModifiers updates modifier state, per the wl_keyboard.modifiers
// event sent whenever xkb state changes or focus changes.
func (k *Keyboard) SetModifiers(depressed, latched, locked, group uint32) {
	k.ModsDepressed, k.ModsLatched, k.ModsLocked, k.Group = depressed, latched, locked, group
}

// AxisSource identifies the physical input that produced a wl_pointer
// axis event.
type AxisSource int

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// PointerButtonState mirrors wl_pointer.button_state.
type PointerButtonState int

const (
	ButtonReleased PointerButtonState = iota
	ButtonPressed
)

// Pointer is the wl_seat's pointer capability state: position, focus,
// and the per-event-batch discipline that v5+ clients require (every
// logical group of pointer events concludes with a `frame`).
type Pointer struct {
	X, Y float64

	Focused         *Surface
	pendingFrame    bool
	PressedButtons  map[uint32]bool
}

// NewPointer creates empty pointer state.
func NewPointer() *Pointer {
	return &Pointer{PressedButtons: make(map[uint32]bool)}
}

// EnterResult describes the enter/leave pair a Motion call produces when
// the hit surface changes.
type EnterResult struct {
	Left    *Surface
	Entered *Surface
	Changed bool
}

// Motion updates the pointer position against the surface hit at (x, y),
// returning the leave/enter transition if focus changed. Per spec.md C6:
// "on motion, send enter to newly-hit surface (with leave to previous),
// then motion".
func (p *Pointer) Motion(hit *Surface, x, y float64) EnterResult {
	p.X, p.Y = x, y
	p.pendingFrame = true
	if hit == p.Focused {
		return EnterResult{}
	}
	left := p.Focused
	p.Focused = hit
	return EnterResult{Left: left, Entered: hit, Changed: true}
}

// Button records a button press/release against the currently-focused
// surface.
func (p *Pointer) Button(button uint32, state PointerButtonState) {
	p.pendingFrame = true
	if state == ButtonPressed {
		p.PressedButtons[button] = true
	} else {
		delete(p.PressedButtons, button)
	}
}

// AxisEvent is one wl_pointer.axis (+ optional axis_discrete) pair.
type AxisEvent struct {
	Horizontal, Vertical   float64
	DiscreteHorizontal     int32
	DiscreteVertical       int32
	Source                 AxisSource
}

// Axis records a scroll axis event; per spec.md, discrete and continuous
// components are both carried.
func (p *Pointer) Axis(ev AxisEvent) {
	p.pendingFrame = true
}

// NeedsFrame reports whether a wl_pointer.frame terminator is owed to
// conclude the current logical event batch (v5+ clients only).
func (p *Pointer) NeedsFrame() bool { return p.pendingFrame }

// FrameSent clears the pending-frame flag after the caller emits
// wl_pointer.frame.
func (p *Pointer) FrameSent() { p.pendingFrame = false }

// Leave unconditionally clears pointer focus, used when the dispatcher
// loses track of a surface (e.g. on client disconnect); always concludes
// with a frame per spec.md's cancellation semantics.
func (p *Pointer) Leave() (previous *Surface) {
	previous = p.Focused
	p.Focused = nil
	p.pendingFrame = true
	return previous
}

// Seat groups the pointer and keyboard capability state for one wl_seat
// global (touch is optional per spec.md and left for a future capability
// bit; Axiom doesn't yet model it).
type Seat struct {
	Name     string
	Pointer  *Pointer
	Keyboard *Keyboard
}

// NewSeat creates a seat with pointer and keyboard capabilities bound.
func NewSeat(name string) *Seat {
	return &Seat{Name: name, Pointer: NewPointer(), Keyboard: NewKeyboard()}
}
