package client

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bancod/bancod/pkg/protocol"
)

// Client sends one-shot requests to a worker node. Each request opens
// its own connection, matching the protocol's one-request-per-connection
// contract.
type Client struct {
	addr    string
	timeout time.Duration
}

// NewClient creates a client for the given worker address.
func NewClient(addr string) *Client {
	return &Client{addr: addr, timeout: 10 * time.Second}
}

// WithTimeout returns a copy of the client using the given dial and I/O
// timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	return &Client{addr: c.addr, timeout: d}
}

// Execute sends a query with a fresh correlation id and returns the
// parsed response.
func (c *Client) Execute(queryType string, params ...string) (protocol.Response, error) {
	return c.ExecuteTx(uuid.NewString()[:8], queryType, params...)
}

// ExecuteTx sends a query under the caller's correlation id.
func (c *Client) ExecuteTx(txID, queryType string, params ...string) (protocol.Response, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	fields := append([]string{protocol.VerbExecute, txID, queryType}, params...)
	request := strings.Join(fields, "|") + "\n"
	if _, err := conn.Write([]byte(request)); err != nil {
		return protocol.Response{}, fmt.Errorf("failed to send request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return protocol.Response{}, fmt.Errorf("no response from %s: %w", c.addr, err)
	}

	resp, err := protocol.ParseResponse(line)
	if err != nil {
		// The worker answers framing rejections with a bare
		// ERROR|... line outside the RESULT framing.
		trimmed := strings.TrimRight(line, "\n")
		if reason, ok := strings.CutPrefix(trimmed, protocol.StatusError+"|"); ok {
			return protocol.Response{Status: protocol.StatusError, Payload: reason}, nil
		}
		return protocol.Response{}, err
	}
	return resp, nil
}
