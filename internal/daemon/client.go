// Package daemon implements the client side of the daemon's control
// channel, used by `service status` to query the running process. The
// wire format is the daemon's own: a 4-byte big-endian length prefix
// followed by one JSON document, in both directions.
package daemon

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

// maxFrameSize caps a response frame so a misbehaving peer cannot make
// the CLI allocate unbounded memory
const maxFrameSize = 1 << 20

// ServiceStatus is the daemon's self-reported state. Produced
// transiently by a status query, never persisted.
type ServiceStatus struct {
	Running bool    `json:"running"`
	PID     *int    `json:"pid,omitempty"`
	Uptime  *string `json:"uptime,omitempty"`
	Version string  `json:"version"`
}

// ConnectError reports that the daemon could not be reached. Status
// handling treats it as "daemon not running", distinct from a malformed
// response.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connecting to daemon at %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Client queries a running daemon
type Client struct {
	// Host and Port locate the daemon's control listener
	Host string
	Port int
	// Timeout bounds the whole request, dial included
	Timeout time.Duration
	// Token is the optional auth token sent with each request
	Token string
}

type request struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params"`
	Auth   string `json:"auth,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetStatus asks the daemon for its status
func (c *Client) GetStatus(ctx context.Context) (*ServiceStatus, error) {
	raw, err := c.call(ctx, "status", nil)
	if err != nil {
		return nil, err
	}
	var status ServiceStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("decoding status response: %w", err)
	}
	return &status, nil
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	addr := net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	payload, err := json.Marshal(request{
		ID:     requestID(),
		Method: method,
		Params: params,
		Auth:   c.Token,
	})
	if err != nil {
		return nil, err
	}

	if err := writeFrame(conn, payload); err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}

	frame, err := readFrame(conn)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}

	var resp response
	if err := json.Unmarshal(frame, &resp); err != nil {
		return nil, fmt.Errorf("decoding daemon response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("daemon error: %s", resp.Error.Message)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("daemon response missing result")
	}
	return resp.Result, nil
}

// writeFrame writes one length-prefixed JSON frame
func writeFrame(w io.Writer, payload []byte) error {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame reads one length-prefixed JSON frame
func readFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(prefix[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("response frame too large: %d bytes", size)
	}
	frame := make([]byte, size)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// requestID generates a unique id for request/response correlation
func requestID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf[:])
}
