package beacon

// Frame is one recorded transmission.
type Frame struct {
	Value  uint64
	Active uint64
}

// FakeSender records transmitted frames for test assertions.
type FakeSender struct {
	// Frames contains every mask pair passed to Send.
	Frames []Frame

	// SendError, if set, will be returned by Send without recording.
	SendError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSender creates a FakeSender.
func NewFakeSender() *FakeSender {
	return &FakeSender{}
}

// Send records the mask pair.
func (f *FakeSender) Send(value, active uint64) error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Frames = append(f.Frames, Frame{Value: value, Active: active})
	return nil
}

// Close marks the sender as closed.
func (f *FakeSender) Close() error {
	f.Closed = true
	return nil
}
