// Package beacon transmits the aggregate pin state as UDP broadcast
// datagrams on the local subnet.
package beacon

import (
	"context"
	"fmt"
	"net"

	"github.com/sweeney/gpio-beacon/internal/wire"
)

// DefaultPort is the broadcast destination port.
const DefaultPort = 12121

// Sender transmits beacon frames.
type Sender interface {
	// Send transmits the mask pair as a single best-effort datagram.
	// Errors should be logged by the caller; they never invalidate the
	// sender.
	Send(value, active uint64) error

	// Close releases the underlying socket.
	Close() error
}

// Broadcaster sends frames to the subnet broadcast address. The socket is
// created at most once per process and reused for every send.
type Broadcaster struct {
	conn net.PacketConn
	dst  *net.UDPAddr
}

// NewBroadcaster creates a Broadcaster targeting 255.255.255.255 on the
// given port (DefaultPort when 0). No socket is opened yet.
func NewBroadcaster(port int) *Broadcaster {
	if port == 0 {
		port = DefaultPort
	}
	return &Broadcaster{dst: &net.UDPAddr{IP: net.IPv4bcast, Port: port}}
}

// EnsureOpen creates and configures the socket if it does not exist yet.
// Safe to call every tick; only the first call does work.
func (b *Broadcaster) EnsureOpen() error {
	if b.conn != nil {
		return nil
	}
	lc := net.ListenConfig{Control: enableBroadcast}
	conn, err := lc.ListenPacket(context.Background(), "udp4", ":0")
	if err != nil {
		return fmt.Errorf("create broadcast socket: %w", err)
	}
	b.conn = conn
	return nil
}

// Send encodes the mask pair into a 16-byte frame and transmits it. The
// socket stays open whether or not the send succeeds.
func (b *Broadcaster) Send(value, active uint64) error {
	if err := b.EnsureOpen(); err != nil {
		return err
	}
	frame := wire.Packet{Value: value, Active: active}.Encode()
	if _, err := b.conn.WriteTo(frame[:], b.dst); err != nil {
		return fmt.Errorf("send to %v: %w", b.dst, err)
	}
	return nil
}

// Close shuts the socket down exactly once. No-op when it was never opened.
func (b *Broadcaster) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}
