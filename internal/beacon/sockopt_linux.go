//go:build linux

package beacon

import (
	"log"
	"syscall"

	"golang.org/x/sys/unix"
)

// enableBroadcast turns on SO_REUSEADDR and SO_BROADCAST before the socket
// is bound. Option failures are logged and the socket is used anyway; the
// send itself will report whether broadcast actually works.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	return c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			log.Printf("beacon: set SO_REUSEADDR: %v", err)
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			log.Printf("beacon: set SO_BROADCAST: %v", err)
		}
	})
}
