package protocol

import (
	"fmt"

	"axiom.land/axiom/internal/geom"
	"axiom.land/axiom/internal/wire"
)

// The interface set Axiom binds, and the request opcodes within each,
// mirror the upstream Wayland core and xdg-shell protocols exactly (wire
// compatibility requires it) but only the subset gio's own client binding
// (app/internal/window/os_wayland.go) shows a reason to hand-bind: no
// cursor shapes, no drag-and-drop, no clipboard. Anything else a real
// client sends comes back as an unimplemented-request protocol error
// scoped to that client, per spec.md C6.
const (
	opDisplaySync        = 0
	opDisplayGetRegistry = 1

	opRegistryBind = 0

	opCompositorCreateSurface = 0

	opShmCreatePool = 0

	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1

	opSurfaceDestroy             = 0
	opSurfaceAttach              = 1
	opSurfaceDamage              = 2
	opSurfaceFrame               = 3
	opSurfaceSetOpaqueRegion     = 4
	opSurfaceSetInputRegion      = 5
	opSurfaceCommit              = 6
	opSurfaceSetBufferTransform  = 7
	opSurfaceSetBufferScale      = 8
	opSurfaceDamageBuffer        = 9

	opSubcompositorGetSubsurface = 1

	opXdgWmBaseDestroy        = 0
	opXdgWmBaseGetXdgSurface  = 2
	opXdgWmBasePong           = 3

	opXdgSurfaceDestroy            = 0
	opXdgSurfaceGetToplevel        = 1
	opXdgSurfaceGetPopup           = 2
	opXdgSurfaceSetWindowGeometry  = 3
	opXdgSurfaceAckConfigure       = 4

	opXdgToplevelDestroy         = 0
	opXdgToplevelSetParent       = 1
	opXdgToplevelSetTitle        = 2
	opXdgToplevelSetAppID        = 3
	opXdgToplevelShowWindowMenu  = 4
	opXdgToplevelMove            = 5
	opXdgToplevelResize          = 6
	opXdgToplevelSetMaxSize      = 7
	opXdgToplevelSetMinSize      = 8
	opXdgToplevelSetMaximized    = 9
	opXdgToplevelUnsetMaximized  = 10
	opXdgToplevelSetFullscreen   = 11
	opXdgToplevelUnsetFullscreen = 12
	opXdgToplevelSetMinimized    = 13

	opSeatGetPointer  = 0
	opSeatGetKeyboard = 1

	// Event opcodes the compositor sends.
	evDisplayError        = 0
	evCallbackDone         = 0
	evRegistryGlobal       = 0
	evXdgSurfaceConfigure  = 0
	evXdgToplevelConfigure = 0
	evXdgToplevelClose     = 1
	evXdgWmBasePing        = 0
)

// kind identifies an object's bound interface, for opcode routing.
type kind int

const (
	kindDisplay kind = iota
	kindRegistry
	kindCallback
	kindCompositor
	kindSubcompositor
	kindShm
	kindShmPool
	kindSurface
	kindXdgWmBase
	kindXdgSurface
	kindXdgToplevel
	kindXdgPopup
	kindSeat
	kindPointer
	kindKeyboard
	kindOutput
)

type object struct {
	kind    kind
	surface *Surface // kindSurface, kindXdgSurface, kindXdgToplevel, kindXdgPopup
	pool    *shmPool // kindShmPool
}

type shmPool struct {
	fd   int
	size int32
}

// EventSink delivers a compositor->client event: objectID, opcode, and
// pre-encoded argument bytes from a wire.Writer.
type EventSink func(objectID uint32, opcode uint16, args []byte)

// Session is one client connection's wire object table and request
// dispatcher, sitting on top of State (the shared surface/role model) and
// wire (the byte-level codec). Each accepted connection gets its own
// Session and its own wire object-id namespace, same as upstream Wayland,
// but every Session dispatches into the one process-wide State and Seat:
// surfaces from different clients still need to stack, scroll, and focus
// against each other.
type Session struct {
	state   *State
	seat    *Seat
	objects map[uint32]*object
	send    EventSink

	allocSurfaceID func() uint64
	pendingBuffers map[uint32]*BufferRef
	titles         map[uint64]string

	registryGlobals []RegistryGlobal

	ownedSurfaces map[uint64]*Surface

	// OnSurfaceCommit and OnSurfaceDestroy let a caller (cmd/axiomd's
	// window tracker) follow this session's surfaces into the domain
	// model — workspace placement, decoration state, damage and frame
	// callbacks — without Session itself knowing about any of that.
	// Both are optional; a Session with neither set still behaves
	// correctly, just inertly.
	OnSurfaceCommit  func(surf *Surface)
	OnSurfaceDestroy func(surfaceID uint64)
}

// RegistryGlobal is one name the compositor advertises through
// wl_registry.global, per spec.md C6's global set.
type RegistryGlobal struct {
	Name      uint32
	Interface string
	Version   uint32
}

// NewSession creates a client session bound to the shared protocol state
// and seat, advertising globals through send as wl_registry.global events
// once the client requests the registry. allocSurfaceID must draw from an
// id space shared across every concurrent session (multiple clients
// otherwise mint colliding surface ids), such as an *atomic.Uint64's
// Add(1) method.
func NewSession(state *State, seat *Seat, globals []RegistryGlobal, allocSurfaceID func() uint64, send EventSink) *Session {
	s := &Session{
		state:          state,
		seat:           seat,
		objects:        make(map[uint32]*object),
		pendingBuffers: make(map[uint32]*BufferRef),
		titles:         make(map[uint64]string),
		allocSurfaceID: allocSurfaceID,
		send:           send,
		registryGlobals: globals,
		ownedSurfaces:  make(map[uint64]*Surface),
	}
	s.objects[1] = &object{kind: kindDisplay} // wl_display is always object 1
	return s
}

// Dispatch routes one decoded wire message to its request handler. A
// ProtocolError is scoped to this client only (the caller must not tear
// down other sessions because of it), per spec.md C6.
func (s *Session) Dispatch(msg wire.Message) error {
	obj, ok := s.objects[msg.ObjectID]
	if !ok {
		return &ProtocolError{ObjectID: msg.ObjectID, Message: "request on unknown object"}
	}

	r := wire.NewReader(msg.Args)
	switch obj.kind {
	case kindDisplay:
		return s.dispatchDisplay(msg.Opcode, r)
	case kindRegistry:
		return s.dispatchRegistry(msg.Opcode, r)
	case kindCompositor:
		return s.dispatchCompositor(msg.Opcode, r)
	case kindSubcompositor:
		return s.dispatchSubcompositor(msg.Opcode, r)
	case kindShm:
		return s.dispatchShm(msg.Opcode, r, msg.Fds)
	case kindShmPool:
		return s.dispatchShmPool(obj, msg.Opcode, r)
	case kindSurface:
		return s.dispatchSurface(obj, msg.Opcode, r)
	case kindXdgWmBase:
		return s.dispatchXdgWmBase(msg.Opcode, r)
	case kindXdgSurface:
		return s.dispatchXdgSurface(obj, msg.Opcode, r)
	case kindXdgToplevel:
		return s.dispatchXdgToplevel(obj, msg.Opcode, r)
	case kindSeat:
		return s.dispatchSeat(msg.Opcode, r)
	case kindCallback, kindPointer, kindKeyboard, kindOutput, kindXdgPopup:
		// Destroy-only objects from the client's perspective; nothing to do.
		return nil
	default:
		return &ProtocolError{ObjectID: msg.ObjectID, Message: "unhandled interface"}
	}
}

func (s *Session) dispatchDisplay(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opDisplaySync:
		id, err := r.Object()
		if err != nil {
			return err
		}
		s.objects[id] = &object{kind: kindCallback}
		s.send(id, evCallbackDone, (&wire.Writer{}).PutUint32(0).Bytes())
		return nil
	case opDisplayGetRegistry:
		id, err := r.Object()
		if err != nil {
			return err
		}
		s.objects[id] = &object{kind: kindRegistry}
		for _, g := range s.registryGlobals {
			w := (&wire.Writer{}).PutUint32(g.Name).PutString(g.Interface).PutUint32(g.Version)
			s.send(id, evRegistryGlobal, w.Bytes())
		}
		return nil
	default:
		return unimplemented(1, opcode)
	}
}

func (s *Session) dispatchRegistry(opcode uint16, r *wire.Reader) error {
	if opcode != opRegistryBind {
		return unimplemented(0, opcode)
	}
	name, err := r.Uint32()
	if err != nil {
		return err
	}
	iface, err := r.String()
	if err != nil {
		return err
	}
	_, err = r.Uint32() // version
	if err != nil {
		return err
	}
	id, err := r.Object()
	if err != nil {
		return err
	}

	switch iface {
	case "wl_compositor":
		s.objects[id] = &object{kind: kindCompositor}
	case "wl_subcompositor":
		s.objects[id] = &object{kind: kindSubcompositor}
	case "wl_shm":
		s.objects[id] = &object{kind: kindShm}
	case "xdg_wm_base":
		s.objects[id] = &object{kind: kindXdgWmBase}
	case "wl_seat":
		s.objects[id] = &object{kind: kindSeat}
	case "wl_output":
		s.objects[id] = &object{kind: kindOutput}
	default:
		return &ProtocolError{ObjectID: id, Message: fmt.Sprintf("unknown global interface %q (name %d)", iface, name)}
	}
	return nil
}

func (s *Session) dispatchCompositor(opcode uint16, r *wire.Reader) error {
	if opcode != opCompositorCreateSurface {
		return unimplemented(0, opcode)
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	surf := s.state.CreateSurface(s.allocSurfaceID())
	s.objects[id] = &object{kind: kindSurface, surface: surf}
	s.ownedSurfaces[surf.ID] = surf
	return nil
}

func (s *Session) dispatchSubcompositor(opcode uint16, r *wire.Reader) error {
	if opcode != opSubcompositorGetSubsurface {
		return unimplemented(3, opcode)
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	surfID, err := r.Object()
	if err != nil {
		return err
	}
	parentID, err := r.Object()
	if err != nil {
		return err
	}
	childObj, ok := s.objects[surfID]
	parentObj, pok := s.objects[parentID]
	if !ok || !pok {
		return &ProtocolError{ObjectID: id, Message: "get_subsurface: unknown surface"}
	}
	if _, err := s.state.AssignSubsurface(childObj.surface, parentObj.surface); err != nil {
		return err
	}
	s.objects[id] = &object{kind: kindSurface, surface: childObj.surface}
	return nil
}

func (s *Session) dispatchShm(opcode uint16, r *wire.Reader, fds []int) error {
	if opcode != opShmCreatePool {
		return unimplemented(1, opcode)
	}
	id, err := r.Object()
	if err != nil {
		return err
	}
	size, err := r.Int32()
	if err != nil {
		return err
	}
	var fd int = -1
	if len(fds) > 0 {
		fd = fds[0]
	}
	s.objects[id] = &object{kind: kindShmPool, pool: &shmPool{fd: fd, size: size}}
	return nil
}

func (s *Session) dispatchShmPool(obj *object, opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opShmPoolCreateBuffer:
		id, err := r.Object()
		if err != nil {
			return err
		}
		offset, err := r.Int32()
		if err != nil {
			return err
		}
		width, err := r.Int32()
		if err != nil {
			return err
		}
		height, err := r.Int32()
		if err != nil {
			return err
		}
		stride, err := r.Int32()
		if err != nil {
			return err
		}
		format, err := r.Uint32()
		if err != nil {
			return err
		}
		buf := &BufferRef{
			PoolFd: obj.pool.fd, Offset: int(offset),
			Width: int(width), Height: int(height), Stride: int(stride), Format: format,
		}
		s.objects[id] = &object{kind: kindCallback} // buffer objects take no further requests Axiom needs
		s.pendingBuffers[id] = buf
		return nil
	case opShmPoolDestroy:
		return nil
	default:
		return unimplemented(2, opcode)
	}
}

func (s *Session) dispatchSurface(obj *object, opcode uint16, r *wire.Reader) error {
	surf := obj.surface
	switch opcode {
	case opSurfaceDestroy:
		s.state.DestroySurface(surf.ID)
		delete(s.ownedSurfaces, surf.ID)
		if s.OnSurfaceDestroy != nil {
			s.OnSurfaceDestroy(surf.ID)
		}
		return nil
	case opSurfaceAttach:
		bufID, err := r.Object()
		if err != nil {
			return err
		}
		dx, err := r.Int32()
		if err != nil {
			return err
		}
		dy, err := r.Int32()
		if err != nil {
			return err
		}
		if bufID == 0 {
			surf.Attach(nil, int(dx), int(dy))
			return nil
		}
		buf := s.pendingBuffers[bufID]
		surf.Attach(buf, int(dx), int(dy))
		return nil
	case opSurfaceDamage, opSurfaceDamageBuffer:
		x, err := r.Int32()
		if err != nil {
			return err
		}
		y, err := r.Int32()
		if err != nil {
			return err
		}
		w, err := r.Int32()
		if err != nil {
			return err
		}
		h, err := r.Int32()
		if err != nil {
			return err
		}
		surf.DamageRegion(geom.NewRect(int(x), int(y), int(w), int(h)))
		return nil
	case opSurfaceFrame:
		id, err := r.Object()
		if err != nil {
			return err
		}
		s.objects[id] = &object{kind: kindCallback}
		surf.AddFrameCallback(id)
		return nil
	case opSurfaceSetOpaqueRegion, opSurfaceSetInputRegion:
		_, err := r.Object() // region object id (or 0); region contents aren't tracked per-rect here
		return err
	case opSurfaceSetBufferScale:
		scale, err := r.Int32()
		if err != nil {
			return err
		}
		surf.SetBufferScale(int(scale))
		return nil
	case opSurfaceSetBufferTransform:
		t, err := r.Int32()
		if err != nil {
			return err
		}
		surf.SetBufferTransform(int(t))
		return nil
	case opSurfaceCommit:
		if err := s.state.CommitSurface(surf); err != nil {
			return err
		}
		if s.OnSurfaceCommit != nil {
			s.OnSurfaceCommit(surf)
		}
		return nil
	default:
		return unimplemented(uint32(surf.ID), opcode)
	}
}

func (s *Session) dispatchXdgWmBase(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opXdgWmBaseGetXdgSurface:
		id, err := r.Object()
		if err != nil {
			return err
		}
		surfWireID, err := r.Object()
		if err != nil {
			return err
		}
		surfObj, ok := s.objects[surfWireID]
		if !ok {
			return &ProtocolError{ObjectID: id, Message: "get_xdg_surface: unknown wl_surface"}
		}
		s.objects[id] = &object{kind: kindXdgSurface, surface: surfObj.surface}
		return nil
	case opXdgWmBasePong:
		_, err := r.Uint32()
		return err
	case opXdgWmBaseDestroy:
		return nil
	default:
		return unimplemented(0, opcode)
	}
}

func (s *Session) dispatchXdgSurface(obj *object, opcode uint16, r *wire.Reader) error {
	surf := obj.surface
	switch opcode {
	case opXdgSurfaceGetToplevel:
		id, err := r.Object()
		if err != nil {
			return err
		}
		if _, err := s.state.AssignToplevel(surf); err != nil {
			return err
		}
		s.objects[id] = &object{kind: kindXdgToplevel, surface: surf}
		return nil
	case opXdgSurfaceGetPopup:
		id, err := r.Object()
		if err != nil {
			return err
		}
		parentWireID, err := r.Object()
		if err != nil {
			return err
		}
		var parent *Surface
		if parentObj, ok := s.objects[parentWireID]; ok {
			parent = parentObj.surface
		}
		if _, err := s.state.AssignPopup(surf, parent); err != nil {
			return err
		}
		s.objects[id] = &object{kind: kindXdgPopup, surface: surf}
		return nil
	case opXdgSurfaceSetWindowGeometry:
		_, err := r.Int32()
		if err != nil {
			return err
		}
		_, err = r.Int32()
		if err != nil {
			return err
		}
		_, err = r.Int32()
		if err != nil {
			return err
		}
		_, err = r.Int32()
		return err
	case opXdgSurfaceAckConfigure:
		serial, err := r.Uint32()
		if err != nil {
			return err
		}
		if tl, ok := surf.RoleData.(*Toplevel); ok {
			if !tl.AckConfigure(serial) {
				return &ProtocolError{ObjectID: uint32(surf.ID), Message: "ack_configure: unknown serial"}
			}
		}
		return nil
	case opXdgSurfaceDestroy:
		return nil
	default:
		return unimplemented(uint32(surf.ID), opcode)
	}
}

func (s *Session) dispatchXdgToplevel(obj *object, opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opXdgToplevelSetTitle:
		title, err := r.String()
		if err != nil {
			return err
		}
		s.titles[obj.surface.ID] = title
		return nil
	case opXdgToplevelSetAppID:
		_, err := r.String()
		return err
	case opXdgToplevelSetMaximized, opXdgToplevelUnsetMaximized,
		opXdgToplevelSetFullscreen, opXdgToplevelUnsetFullscreen,
		opXdgToplevelSetMinimized, opXdgToplevelDestroy:
		return nil
	case opXdgToplevelMove, opXdgToplevelResize, opXdgToplevelShowWindowMenu:
		// Interactive move/resize is server/input-driven in Axiom (C7's
		// decoration hit-testing), so these client-initiated requests are
		// acknowledged as no-ops rather than rejected.
		return nil
	case opXdgToplevelSetMaxSize, opXdgToplevelSetMinSize:
		if _, err := r.Int32(); err != nil {
			return err
		}
		_, err := r.Int32()
		return err
	case opXdgToplevelSetParent:
		_, err := r.Object()
		return err
	default:
		return unimplemented(uint32(obj.surface.ID), opcode)
	}
}

func (s *Session) dispatchSeat(opcode uint16, r *wire.Reader) error {
	switch opcode {
	case opSeatGetPointer, opSeatGetKeyboard:
		id, err := r.Object()
		if err != nil {
			return err
		}
		k := kindPointer
		if opcode == opSeatGetKeyboard {
			k = kindKeyboard
		}
		s.objects[id] = &object{kind: k}
		return nil
	default:
		return unimplemented(0, opcode)
	}
}

func unimplemented(objectID uint32, opcode uint16) error {
	return &ProtocolError{ObjectID: objectID, Message: fmt.Sprintf("unimplemented request opcode %d", opcode)}
}

// SendConfigure emits xdg_surface.configure followed by
// xdg_toplevel.configure for surf's wire object, used by the caller (the
// workspace/window-manager layer) after a layout pass decides a window's
// new size.
func (s *Session) SendConfigure(xdgSurfaceObjectID, xdgToplevelObjectID uint32, serial uint32, width, height int) {
	s.send(xdgSurfaceObjectID, evXdgSurfaceConfigure, (&wire.Writer{}).PutUint32(serial).Bytes())
	w := (&wire.Writer{}).PutInt32(int32(width)).PutInt32(int32(height)).PutArray(nil)
	s.send(xdgToplevelObjectID, evXdgToplevelConfigure, w.Bytes())
}

// Title returns the last xdg_toplevel.set_title a client sent for surf,
// if any.
func (s *Session) Title(surf *Surface) (string, bool) {
	t, ok := s.titles[surf.ID]
	return t, ok
}

// Close releases every surface this session ever created, per spec.md
// §4.6/§7's disconnect rule: a dropped client releases all owned
// surfaces, pending callbacks, and texture entries. Pending frame
// callbacks are simply discarded here (drained by DestroySurface
// tearing the Surface out of State, never fired) rather than delivered,
// since the client is no longer listening. Safe to call once per
// session, typically deferred from the connection's read loop.
func (s *Session) Close() {
	for id := range s.ownedSurfaces {
		s.state.DestroySurface(id)
		if s.OnSurfaceDestroy != nil {
			s.OnSurfaceDestroy(id)
		}
	}
	s.ownedSurfaces = nil
}

// FireCallback emits a wl_callback.done event for objectID, the event a
// client's wl_surface.frame request is waiting on. Used by the pacer
// (internal/pacer) to deliver a callback it decided to fire this tick
// back out over this session's connection.
func (s *Session) FireCallback(objectID uint32, timestampMillis uint32) {
	s.send(objectID, evCallbackDone, (&wire.Writer{}).PutUint32(timestampMillis).Bytes())
}
