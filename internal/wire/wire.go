// Package wire defines the beacon's on-the-wire frame.
//
// A frame is exactly 16 bytes: the value mask followed by the active mask,
// both unsigned 64-bit in network byte order. Bit N of each mask corresponds
// to pin N; a value bit is only meaningful when the matching active bit is
// set.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Size is the exact length of an encoded frame in bytes.
const Size = 16

// Packet is one beacon frame: the current pin levels and the set of pins
// that carry meaning.
type Packet struct {
	Value  uint64
	Active uint64
}

// Encode serializes the frame in network byte order. The layout is fixed:
// value mask at offset 0, active mask at offset 8.
func (p Packet) Encode() [Size]byte {
	var b [Size]byte
	binary.BigEndian.PutUint64(b[0:8], p.Value)
	binary.BigEndian.PutUint64(b[8:16], p.Active)
	return b
}

// Decode parses a frame previously produced by Encode.
func Decode(b []byte) (Packet, error) {
	if len(b) != Size {
		return Packet{}, fmt.Errorf("wire: frame must be %d bytes, got %d", Size, len(b))
	}
	return Packet{
		Value:  binary.BigEndian.Uint64(b[0:8]),
		Active: binary.BigEndian.Uint64(b[8:16]),
	}, nil
}
