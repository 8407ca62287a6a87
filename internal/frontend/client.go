package frontend

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

// Client is a thin synchronous client for the §4.5.1 wire protocol,
// used by sysdbctl to talk to a running daemon over its Unix socket.
// It does none of the split-read accumulation conn.go does server-side
// since a client only ever has one frame in flight at a time.
type Client struct {
	nc net.Conn
}

// Dial connects to the daemon's Unix-domain socket at path.
func Dial(path string) (*Client, error) {
	nc, err := net.Dial("unix", path)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.nc.Close()
}

// Call sends a request frame and blocks for exactly one reply frame.
func (c *Client) Call(code Code, payload []byte) (Code, []byte, error) {
	if _, err := c.nc.Write(encodeFrame(code, payload)); err != nil {
		return 0, nil, fmt.Errorf("frontend: write request: %w", err)
	}

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(c.nc, header); err != nil {
		return 0, nil, fmt.Errorf("frontend: read reply header: %w", err)
	}
	replyCode, length := decodeHeader(header)

	body := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(c.nc, body); err != nil {
			return 0, nil, fmt.Errorf("frontend: read reply payload: %w", err)
		}
	}
	return replyCode, body, nil
}

// Ping sends a PING request and returns an error unless the daemon
// replies OK.
func (c *Client) Ping() error {
	code, payload, err := c.Call(CodePing, nil)
	if err != nil {
		return err
	}
	return replyAsError(code, payload)
}

// List sends a LIST request and returns the DATA reply's subtype tag
// and JSON body.
func (c *Client) List() (Subtype, []byte, error) {
	code, payload, err := c.Call(CodeList, nil)
	if err != nil {
		return 0, nil, err
	}
	if err := replyAsError(code, payload); err != nil {
		return 0, nil, err
	}
	if code != CodeData {
		return 0, nil, fmt.Errorf("frontend: unexpected reply code 0x%x", uint32(code))
	}
	if len(payload) < 4 {
		return 0, nil, fmt.Errorf("frontend: DATA reply too short for subtype")
	}
	sub := Subtype(binary.BigEndian.Uint32(payload[0:4]))
	return sub, payload[4:], nil
}

func replyAsError(code Code, payload []byte) error {
	if code == CodeError {
		msg := payload
		if len(msg) > 0 && msg[len(msg)-1] == 0 {
			msg = msg[:len(msg)-1]
		}
		return fmt.Errorf("frontend: %s", string(msg))
	}
	return nil
}
