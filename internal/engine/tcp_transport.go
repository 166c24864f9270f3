// internal/engine/tcp_transport.go
package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// TCPDialer reaches the scan daemon over its control socket
type TCPDialer struct {
	Address string
}

// Dial opens the TCP connection
func (d *TCPDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	dialer := &net.Dialer{
		KeepAlive: 30 * time.Second,
	}

	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.Address, err)
	}
	return conn, nil
}

func (d *TCPDialer) String() string {
	return "tcp://" + d.Address
}
