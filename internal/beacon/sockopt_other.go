//go:build !linux

package beacon

import "syscall"

// enableBroadcast is a no-op off Linux; the platform's defaults apply.
func enableBroadcast(network, address string, c syscall.RawConn) error {
	return nil
}
