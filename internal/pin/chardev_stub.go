//go:build !linux

package pin

import "errors"

// ChardevReader is not available on non-Linux platforms.
type ChardevReader struct{}

// NewChardevReader returns an error on non-Linux platforms.
func NewChardevReader(chip string, pins []int) (*ChardevReader, error) {
	return nil, errors.New("pin: chardev backend not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *ChardevReader) Read(pin int) (bool, error) {
	return false, errors.New("pin: chardev backend not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *ChardevReader) Close() error {
	return nil
}
