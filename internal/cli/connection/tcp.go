package connection

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultCommandAddr is the default pumpd command address.
const DefaultCommandAddr = "127.0.0.1:6000"

// CommandClient sends one-shot commands to pumpd.
type CommandClient struct {
	addr    string
	timeout time.Duration
}

// NewCommandClient creates a client for addr. A zero timeout means 5s.
func NewCommandClient(addr string, timeout time.Duration) *CommandClient {
	if addr == "" {
		addr = DefaultCommandAddr
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CommandClient{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (c *CommandClient) Addr() string {
	return c.addr
}

// Send opens a connection, writes text with no terminator, and closes it.
func (c *CommandClient) Send(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("empty command")
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	if _, err := conn.Write([]byte(text)); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}
