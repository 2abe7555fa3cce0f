package mqtt

// FakePublisher records published frames for test assertions.
type FakePublisher struct {
	// Frames contains all frames that were published.
	Frames []Frame

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by PublishState.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishState records the frame and its payload.
func (f *FakePublisher) PublishState(fr Frame) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Frames = append(f.Frames, fr)

	payload, err := FormatPayload(fr)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded frames.
func (f *FakePublisher) Reset() {
	f.Frames = nil
	f.Payloads = nil
	f.PublishError = nil
	f.Closed = false
	f.Connected = false
}
