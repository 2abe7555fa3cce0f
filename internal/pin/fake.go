package pin

// FakeReader is a test double serving settable per-pin levels.
type FakeReader struct {
	// Levels maps pin number to its current level.
	Levels map[int]bool

	// Errors maps pin number to an error returned instead of a level.
	Errors map[int]error

	// Reads counts Read calls per pin.
	Reads map[int]int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeReader creates a FakeReader with all pins low.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		Levels: make(map[int]bool),
		Errors: make(map[int]error),
		Reads:  make(map[int]int),
	}
}

// Set assigns the level returned for a pin.
func (f *FakeReader) Set(pin int, high bool) {
	f.Levels[pin] = high
}

// Fail makes reads of the pin return err; a nil err clears the fault.
func (f *FakeReader) Fail(pin int, err error) {
	if err == nil {
		delete(f.Errors, pin)
		return
	}
	f.Errors[pin] = err
}

// Read returns the scripted level or fault for the pin.
func (f *FakeReader) Read(pin int) (bool, error) {
	f.Reads[pin]++
	if err := f.Errors[pin]; err != nil {
		return false, err
	}
	return f.Levels[pin], nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}
