package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"

	"axiom.land/axiom/internal/protocol"
	"axiom.land/axiom/internal/wire"
)

// coreGlobals are the interfaces Axiom advertises to every client, per
// spec.md C6. Names are stable small integers; Axiom has no dynamic
// global add/remove beyond outputs, which waylandServer appends per
// connection from the live output registry.
var coreGlobals = []protocol.RegistryGlobal{
	{Name: 1, Interface: "wl_compositor", Version: 4},
	{Name: 2, Interface: "wl_subcompositor", Version: 1},
	{Name: 3, Interface: "wl_shm", Version: 1},
	{Name: 4, Interface: "xdg_wm_base", Version: 3},
	{Name: 5, Interface: "wl_seat", Version: 7},
}

// waylandServer accepts client connections on the compositor's Wayland
// display socket and spins up one protocol.Session per connection, all
// sharing a single protocol.State/Seat (spec.md C6's state machine is
// process-wide; only each client's wire object-id namespace is private).
type waylandServer struct {
	ln       *net.UnixListener
	path     string
	lockPath string

	state *protocol.State
	seat  *protocol.Seat
	log   sessionLogger

	nextSurfaceID atomic.Uint64

	// onSession, if set, is called with every newly-constructed Session
	// before it starts dispatching, so the caller (run(), via
	// windowTracker.bind) can install the surface lifecycle hooks that
	// wire this client's commits into the workspace/decoration/pacer
	// state.
	onSession func(*protocol.Session)
}

type sessionLogger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// newWaylandServer binds displayName (e.g. "wayland-1") under
// $XDG_RUNTIME_DIR, following the upstream convention of a sibling
// `<name>.lock` advisory lock file so clients and other compositors can
// detect a live display.
func newWaylandServer(runtimeDir, displayName string, state *protocol.State, seat *protocol.Seat, log sessionLogger) (*waylandServer, error) {
	socketPath := filepath.Join(runtimeDir, displayName)
	lockPath := socketPath + ".lock"

	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wayland: create lock file: %w", err)
	}
	lockFile.Close()

	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("wayland: remove stale socket: %w", err)
	}
	addr, err := net.ResolveUnixAddr("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("wayland: resolve socket addr: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("wayland: listen on %s: %w", socketPath, err)
	}

	return &waylandServer{
		ln: ln, path: socketPath, lockPath: lockPath,
		state: state, seat: seat, log: log,
	}, nil
}

func (s *waylandServer) Close() error {
	err := s.ln.Close()
	_ = os.Remove(s.path)
	_ = os.Remove(s.lockPath)
	return err
}

// Serve accepts connections until the listener is closed.
func (s *waylandServer) Serve(globals func() []protocol.RegistryGlobal) error {
	for {
		uc, err := s.ln.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleClient(uc, globals)
	}
}

func (s *waylandServer) handleClient(uc *net.UnixConn, globals func() []protocol.RegistryGlobal) {
	conn := wire.NewConn(uc)
	defer conn.Close()

	sess := protocol.NewSession(s.state, s.seat, globals(), s.nextSurfaceID.Add, func(objectID uint32, opcode uint16, args []byte) {
		data := append(wire.EncodeHeader(objectID, opcode, len(args)), args...)
		if err := conn.WriteMessage(data, nil); err != nil {
			s.log.Warn("client write failed", "error", err.Error())
		}
	})
	if s.onSession != nil {
		s.onSession(sess)
	}
	// On any read error (including a clean EOF on disconnect), release
	// every surface this client ever created: spec.md §4.6/§7 requires a
	// dropped client's owned surfaces, pending callbacks, and texture
	// entries to be released rather than leaked in the shared State.
	defer sess.Close()

	for {
		msgs, err := conn.ReadMessages()
		if err != nil {
			return
		}
		for _, msg := range msgs {
			if err := sess.Dispatch(msg); err != nil {
				s.log.Warn("client protocol error", "error", err.Error())
			}
		}
	}
}
