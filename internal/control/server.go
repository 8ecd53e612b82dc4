package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"axiom.land/axiom/internal/axlog"
)

// Mutator is whatever owns the live output topology. The control server
// only parses commands and forwards them here; topology.Reconcile (C3)
// picks up the resulting change on its next presenter iteration, per
// spec.md 4.10 ("effects are observable via topology changes on next
// presenter iteration").
type Mutator interface {
	AddOutput(spec OutputSpec) error
	RemoveOutput(index int) error
}

// SocketPath builds the control socket path spec.md 4.10/§6 mandates:
// $XDG_RUNTIME_DIR/axiom-control-<pid>.sock.
func SocketPath(xdgRuntimeDir string, pid int) string {
	return filepath.Join(xdgRuntimeDir, fmt.Sprintf("axiom-control-%d.sock", pid))
}

// Server is the control-socket listener: one goroutine per connection,
// line-oriented request/response, no authentication (socket permissions
// are the trust boundary, per spec.md 4.10).
type Server struct {
	path     string
	listener *net.UnixListener
	mutator  Mutator
	log      interface {
		Info(msg string, args ...any)
		Warn(msg string, args ...any)
	}
}

// NewServer binds the control socket at path, removing any stale socket
// file left behind by a previous instance of the same pid (which cannot
// happen under a live process, but can after an unclean exit with pid
// reuse). The socket is created with 0600 permissions.
func NewServer(path string, mutator Mutator) (*Server, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("control: remove stale socket: %w", err)
	}

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, fmt.Errorf("control: resolve socket addr: %w", err)
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, fmt.Errorf("control: listen on %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("control: chmod socket: %w", err)
	}

	return &Server{path: path, listener: ln, mutator: mutator, log: axlog.L("control")}, nil
}

// Path returns the socket path this server is bound to.
func (s *Server) Path() string { return s.path }

// Serve accepts connections until ctx is cancelled or the listener is
// closed. Each connection is handled on its own goroutine and may send
// multiple commands, one per line.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.AcceptUnix()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("control: accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// Close shuts down the listener and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn *net.UnixConn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		resp := s.dispatch(line)
		if _, err := conn.Write([]byte(resp + "\n")); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(line string) string {
	cmd, err := ParseCommand(line)
	if err != nil {
		s.log.Warn("rejected control command", "line", line, "error", err.Error())
		return "error: " + err.Error()
	}

	switch cmd.Kind {
	case CommandAdd:
		for _, spec := range cmd.Outputs {
			if err := s.mutator.AddOutput(spec); err != nil {
				s.log.Warn("add output failed", "error", err.Error())
				return "error: " + err.Error()
			}
		}
		s.log.Info("added outputs", "count", len(cmd.Outputs))
		return "ok"

	case CommandRemove:
		if err := s.mutator.RemoveOutput(cmd.RemoveIndex); err != nil {
			s.log.Warn("remove output failed", "error", err.Error())
			return "error: " + err.Error()
		}
		s.log.Info("removed output", "index", cmd.RemoveIndex)
		return "ok"

	default:
		return "error: unhandled command"
	}
}
