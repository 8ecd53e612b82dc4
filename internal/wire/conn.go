package wire

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

const maxMessageSize = 4096
const maxFdsPerRecv = 28 // matches libwayland's MAX_FDS_OUT

// Conn is one client's Wayland wire connection: a Unix domain socket with
// SCM_RIGHTS ancillary data carrying file descriptors (shared-memory pool
// fds, sync fds) alongside the regular byte stream.
type Conn struct {
	uc *net.UnixConn

	readBuf    []byte
	readFill   int
	pendingFds []int
}

// NewConn wraps an accepted Unix domain socket connection.
func NewConn(uc *net.UnixConn) *Conn {
	return &Conn{uc: uc, readBuf: make([]byte, maxMessageSize*4)}
}

// ReadMessages blocks until at least one complete message is available,
// returning every complete message currently buffered.
func (c *Conn) ReadMessages() ([]Message, error) {
	for {
		msgs, consumed, remainingFds, err := SplitMessages(c.readBuf[:c.readFill], c.pendingFds)
		if err != nil {
			return nil, err
		}
		c.pendingFds = remainingFds
		if len(msgs) > 0 {
			c.compact(consumed)
			return msgs, nil
		}
		if err := c.fill(); err != nil {
			return nil, err
		}
	}
}

func (c *Conn) compact(consumed int) {
	copy(c.readBuf, c.readBuf[consumed:c.readFill])
	c.readFill -= consumed
}

func (c *Conn) fill() error {
	if c.readFill == len(c.readBuf) {
		c.readBuf = append(c.readBuf, make([]byte, len(c.readBuf))...)
	}
	oob := make([]byte, unix.CmsgSpace(maxFdsPerRecv*4))
	n, oobn, _, _, err := c.uc.ReadMsgUnix(c.readBuf[c.readFill:], oob)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wire: connection closed")
	}
	c.readFill += n
	if oobn > 0 {
		fds, err := parseFds(oob[:oobn])
		if err != nil {
			return err
		}
		c.pendingFds = append(c.pendingFds, fds...)
	}
	return nil
}

func parseFds(oob []byte) ([]int, error) {
	cmsgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	var fds []int
	for _, cmsg := range cmsgs {
		parsed, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			continue
		}
		fds = append(fds, parsed...)
	}
	return fds, nil
}

// WriteMessage sends a fully-encoded message (header + args), optionally
// carrying file descriptors as SCM_RIGHTS ancillary data.
func (c *Conn) WriteMessage(data []byte, fds []int) error {
	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}
	_, _, err := c.uc.WriteMsgUnix(data, oob, nil)
	return err
}

// Close closes the underlying socket.
func (c *Conn) Close() error { return c.uc.Close() }
