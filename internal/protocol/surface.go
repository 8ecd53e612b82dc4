// Package protocol implements Axiom's Wayland protocol state machine
// (spec.md C6): surface double-buffering and commit discipline, role
// assignment, the xdg-shell configure/ack lifecycle, subsurface sync, the
// seat (pointer/keyboard) event sequencing, output advertisement, and
// presentation feedback — everything that sits on top of the raw wire
// codec in internal/wire.
//
// The wire codec is generic (it decodes any client), but this package's
// object model is hand-written for the fixed interface set Axiom needs,
// the same way the teacher's own client binding
// (app/internal/window/os_wayland.go) only binds the interfaces gio
// itself uses rather than code-generating the full upstream protocol
// corpus.
package protocol

import "axiom.land/axiom/internal/geom"

// Role identifies what a wl_surface has been promoted to.
type Role int

const (
	RoleNone Role = iota
	RoleToplevel
	RolePopup
	RoleLayerSurface
	RoleCursor
	RoleSubsurface
)

func (r Role) String() string {
	switch r {
	case RoleToplevel:
		return "xdg_toplevel"
	case RolePopup:
		return "xdg_popup"
	case RoleLayerSurface:
		return "layer_surface"
	case RoleCursor:
		return "cursor"
	case RoleSubsurface:
		return "subsurface"
	default:
		return "none"
	}
}

// ProtocolError is a Wayland protocol violation scoped to a single client;
// per spec.md C6 it must never terminate the compositor or other clients.
type ProtocolError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *ProtocolError) Error() string {
	return "protocol error on object " + itoa(e.ObjectID) + ": " + e.Message
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// BufferRef is an opaque reference to an attached wl_buffer (an SHM pool
// offset, width, height, stride and format); interpreting the backing
// bytes is internal/texture's job.
type BufferRef struct {
	PoolFd    int
	Offset    int
	Width     int
	Height    int
	Stride    int
	Format    uint32
}

// FrameCallback is one outstanding wl_callback registered via
// wl_surface.frame. Surface leaves FrameNumber zero; the pacer records
// the frame number a callback was queued under in its own queue.
type FrameCallback struct {
	ObjectID    uint32
	FrameNumber uint64
}

// pendingState is the not-yet-committed half of a surface's double
// buffer.
type pendingState struct {
	buffer        *BufferRef
	bufferOffsetX int
	bufferOffsetY int
	damage        []geom.Rect
	opaqueRegion  []geom.Rect
	inputRegion   []geom.Rect
	frameCallbacks []FrameCallback
	scale         int
	transform     int
	hasBuffer     bool
	bufferRemoved bool
}

// Surface is a wl_surface and its full double-buffered state, grounded on
// spec.md C6's attach/damage/frame/commit handler policy.
type Surface struct {
	ID uint64

	Role     Role
	RoleData any // *Toplevel, *Popup, *LayerSurface, *Subsurface

	pending   pendingState
	Buffer    *BufferRef
	Damage    []geom.Rect
	Scale     int
	Transform int

	ActiveCallbacks []FrameCallback

	mapped bool

	// xdg commit discipline: true once the surface has committed a buffer
	// after an ack_configure, per spec.md's "first commit may not present a
	// buffer until ack'd" rule.
	initialCommitDone bool
}

// NewSurface creates a surface with scale 1 and identity transform.
func NewSurface(id uint64) *Surface {
	return &Surface{ID: id, Scale: 1}
}

// Attach stores a pending buffer attachment (nil buffer = detach, which
// unmaps the surface on the next commit).
func (s *Surface) Attach(buf *BufferRef, dx, dy int) {
	s.pending.buffer = buf
	s.pending.bufferOffsetX = dx
	s.pending.bufferOffsetY = dy
	s.pending.hasBuffer = true
	s.pending.bufferRemoved = buf == nil
}

// DamageRegion appends a surface-local damage rectangle to the pending
// state (wl_surface.damage).
func (s *Surface) DamageRegion(r geom.Rect) {
	s.pending.damage = append(s.pending.damage, r)
}

// SetOpaqueRegion replaces the pending opaque region.
func (s *Surface) SetOpaqueRegion(rs []geom.Rect) { s.pending.opaqueRegion = rs }

// SetInputRegion replaces the pending input region.
func (s *Surface) SetInputRegion(rs []geom.Rect) { s.pending.inputRegion = rs }

// SetBufferScale records the pending output scale factor.
func (s *Surface) SetBufferScale(scale int) { s.pending.scale = scale }

// SetBufferTransform records the pending buffer transform.
func (s *Surface) SetBufferTransform(t int) { s.pending.transform = t }

// AddFrameCallback queues a wl_callback on the pending state, to fire
// after the next frame in which this surface's content is presented.
func (s *Surface) AddFrameCallback(objectID uint32) {
	s.pending.frameCallbacks = append(s.pending.frameCallbacks, FrameCallback{ObjectID: objectID})
}

// Commit atomically moves pending state to current, per spec.md's
// attach/damage/frame/commit policy. If the surface carries an xdg role
// with outstanding commit discipline (first commit not yet ack'd), Commit
// returns a ProtocolError instead of applying the pending state.
func (s *Surface) Commit() error {
	acked := false
	switch rd := s.RoleData.(type) {
	case *Toplevel:
		acked = rd.lastAckedSerial != 0
	case *Popup:
		acked = rd.lastAckedSerial != 0
	}
	if needsAckBeforeBuffer(s) && s.pending.hasBuffer && !s.pending.bufferRemoved && !s.initialCommitDone && !acked {
		return &ProtocolError{
			ObjectID: uint32(s.ID),
			Code:     0,
			Message:  "buffer committed before initial ack_configure",
		}
	}

	if s.pending.hasBuffer {
		s.Buffer = s.pending.buffer
		if s.pending.bufferRemoved {
			s.mapped = false
		} else {
			s.mapped = true
			if needsAckBeforeBuffer(s) {
				s.initialCommitDone = true
			}
		}
	}
	if s.pending.scale != 0 {
		s.Scale = s.pending.scale
	}
	s.Transform = s.pending.transform
	s.Damage = append(s.Damage, s.pending.damage...)
	s.ActiveCallbacks = append(s.ActiveCallbacks, s.pending.frameCallbacks...)

	s.pending = pendingState{}
	return nil
}

// needsAckBeforeBuffer reports whether s has an xdg role that requires an
// ack_configure before its first buffer commit.
func needsAckBeforeBuffer(s *Surface) bool {
	switch s.Role {
	case RoleToplevel, RolePopup:
		return true
	default:
		return false
	}
}

// Mapped reports whether the surface currently has content (a non-null
// attached buffer that has been committed).
func (s *Surface) Mapped() bool { return s.mapped }

// TakeCallbacks drains and returns all active frame callbacks queued for
// frameNumber-tagged firing by the pacer, clearing them from the surface.
func (s *Surface) TakeCallbacks() []FrameCallback {
	cbs := s.ActiveCallbacks
	s.ActiveCallbacks = nil
	return cbs
}

// TakeDamage drains and returns all accumulated damage regions.
func (s *Surface) TakeDamage() []geom.Rect {
	d := s.Damage
	s.Damage = nil
	return d
}
