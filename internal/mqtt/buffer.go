package mqtt

import "log"

// frameBuffer is a fixed-capacity FIFO of encoded payloads held while the
// broker is unreachable. The oldest payload is dropped on overflow; stale
// beacon state is worthless once newer state exists.
// Not safe for concurrent use — RealPublisher guards it with its mutex.
type frameBuffer struct {
	buf      [][]byte
	capacity int
	head     int // next write position
	count    int
	overflow bool // a payload was dropped since the last drain
}

func newFrameBuffer(capacity int) *frameBuffer {
	return &frameBuffer{
		buf:      make([][]byte, capacity),
		capacity: capacity,
	}
}

func (b *frameBuffer) push(payload []byte) {
	if b.count == b.capacity {
		if !b.overflow {
			log.Printf("mqtt: buffer full (%d frames), dropping oldest", b.capacity)
			b.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		b.buf[b.head] = payload
		b.head = (b.head + 1) % b.capacity
		// count stays at capacity
		return
	}
	b.buf[b.head] = payload
	b.head = (b.head + 1) % b.capacity
	b.count++
}

func (b *frameBuffer) drainAll() [][]byte {
	if b.count == 0 {
		return nil
	}

	out := make([][]byte, b.count)
	// Oldest item is at (head - count) mod capacity
	start := (b.head - b.count + b.capacity) % b.capacity
	for i := 0; i < b.count; i++ {
		out[i] = b.buf[(start+i)%b.capacity]
	}

	b.count = 0
	b.head = 0
	b.overflow = false
	return out
}

func (b *frameBuffer) len() int {
	return b.count
}
