package frontend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/gavioto/sysdb/internal/strbuf"
)

// readDeadline bounds each individual read so the connection's goroutine
// can periodically check for shutdown instead of blocking forever — the
// Go-idiomatic stand-in for the original's non-blocking socket plus
// EAGAIN/EWOULDBLOCK poll loop (§4.5.2, §5). A var, not a const, so
// tests can shrink the poll interval instead of running at wall-clock
// speed.
var readDeadline = 500 * time.Millisecond

// Handler processes one fully-received request frame and returns the
// reply to send back, or an error to translate into an ERROR frame.
type Handler func(code Code, payload []byte) (replyCode Code, replyPayload []byte, err error)

// conn owns one accepted connection: its socket, read buffer, and
// current command state. State starts at {IDLE, 0} and is reset to that
// after every dispatched command (§4.5.2).
type conn struct {
	id      string
	nc      net.Conn
	logger  *slog.Logger
	handler Handler

	buf *strbuf.Buffer

	haveHeader bool
	code       Code
	declared   uint32
}

func newConn(nc net.Conn, logger *slog.Logger, handler Handler) *conn {
	id := uuid.NewString()
	return &conn{
		id:      id,
		nc:      nc,
		logger:  logger.With("conn", id),
		handler: handler,
		buf:     strbuf.New(4096),
	}
}

// serve runs the per-connection read loop until EOF, a socket error, or
// stopCh closes. It owns nc and closes it on return.
func (c *conn) serve(stopCh <-chan struct{}) {
	defer c.nc.Close()
	c.logger.Debug("connection accepted", "remote", c.nc.RemoteAddr())

	for {
		select {
		case <-stopCh:
			c.logger.Debug("connection worker stopping")
			return
		default:
		}

		if err := c.readChunk(); err != nil {
			if errors.Is(err, io.EOF) {
				c.logger.Debug("connection closed by peer")
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				// Deadline elapsed with nothing to read; loop back to
				// recheck stopCh, same as the original's EAGAIN case.
			} else {
				c.logger.Debug("connection read error", "err", err)
				return
			}
		}

		if err := c.drainFrames(); err != nil {
			c.logger.Warn("frame dispatch failed", "err", err)
			return
		}
	}
}

func (c *conn) readChunk() error {
	c.nc.SetReadDeadline(time.Now().Add(readDeadline))
	_, eof, err := c.buf.ReadFrom(c.nc, 4096)
	if eof {
		return io.EOF
	}
	return err
}

// drainFrames applies §4.5.2 steps 2-4 repeatedly: as long as the buffer
// holds enough bytes to make progress, consume a header or a payload and
// dispatch. It returns nil once the buffer holds too few bytes to make
// progress, and an error only on a write failure to the peer; a single
// malformed/unknown code is reported as an ERROR reply and does not end
// the connection.
func (c *conn) drainFrames() error {
	for {
		if !c.haveHeader {
			if c.buf.Len() < headerSize {
				return nil
			}
			hdr := append([]byte(nil), c.buf.Bytes()[:headerSize]...)
			c.buf.Skip(headerSize)
			c.code, c.declared = decodeHeader(hdr)
			c.haveHeader = true
		}

		if c.buf.Len() < int(c.declared) {
			return nil
		}
		payload := append([]byte(nil), c.buf.Bytes()[:c.declared]...)
		c.buf.Skip(int(c.declared))
		code := c.code
		c.haveHeader = false

		if code == CodeIdle {
			// Keepalive: payload is consumed and discarded, no reply.
			continue
		}

		if err := c.dispatch(code, payload); err != nil {
			return err
		}
	}
}

func (c *conn) dispatch(code Code, payload []byte) error {
	if !knownRequestCode(code) {
		msg := fmt.Sprintf("Invalid command 0x%x", uint32(code))
		return c.writeFrame(CodeError, errorPayload(msg))
	}

	replyCode, replyPayload, err := c.handler(code, payload)
	if err != nil {
		return c.writeFrame(CodeError, errorPayload(err.Error()))
	}
	return c.writeFrame(replyCode, replyPayload)
}

// errorPayload builds an ERROR reply payload: msg followed by the
// trailing NUL byte §7 requires to terminate it.
func errorPayload(msg string) []byte {
	return append([]byte(msg), 0)
}

func knownRequestCode(code Code) bool {
	switch code {
	case CodeIdle, CodePing, CodeStartup, CodeList:
		return true
	default:
		return false
	}
}

func (c *conn) writeFrame(code Code, payload []byte) error {
	frame := encodeFrame(code, payload)
	c.nc.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := c.nc.Write(frame)
	return err
}
