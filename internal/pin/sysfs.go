package pin

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultBase is the sysfs GPIO control directory.
const DefaultBase = "/sys/class/gpio"

// DefaultSettle is how long Configure waits between exporting a pin and
// setting its direction. The kernel needs a moment to create the per-pin
// control files after an export; writing the direction too early fails.
const DefaultSettle = time.Second

// SysfsReader reads pin levels from the sysfs value files. A handle is
// opened lazily on first read of each pin and held for the life of the
// reader; the value files support repeated point-in-time reads via
// seek-to-start, so re-opening is never needed.
type SysfsReader struct {
	base    string
	handles map[int]*os.File
}

// NewSysfsReader creates a reader rooted at base (DefaultBase when empty).
func NewSysfsReader(base string) *SysfsReader {
	if base == "" {
		base = DefaultBase
	}
	return &SysfsReader{base: base, handles: make(map[int]*os.File)}
}

// Prime opens the value handle for every listed pin. Called once at startup
// so that open failures surface before the poll loop starts; a failure here
// means the pin was never configured as an input.
func (r *SysfsReader) Prime(pins []int) error {
	for _, p := range pins {
		if _, err := r.handle(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *SysfsReader) handle(pin int) (*os.File, error) {
	if f, ok := r.handles[pin]; ok {
		return f, nil
	}
	path := filepath.Join(r.base, fmt.Sprintf("gpio%d", pin), "value")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pin %d: %w", pin, err)
	}
	r.handles[pin] = f
	return f, nil
}

// Read returns the pin level: the least-significant bit of the first byte
// of the value file ('0' reads low, '1' reads high).
func (r *SysfsReader) Read(pin int) (bool, error) {
	f, err := r.handle(pin)
	if err != nil {
		return false, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek pin %d: %w", pin, err)
	}
	var b [1]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return b[0]&1 == 1, nil
}

// Close releases every open handle exactly once. Pins that were never read
// have no handle and cost nothing.
func (r *SysfsReader) Close() error {
	var firstErr error
	for p, f := range r.handles {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close pin %d: %w", p, err)
		}
		delete(r.handles, p)
	}
	return firstErr
}

// Configure exports a pin through the sysfs control interface and sets it
// as an input. Writing to the export file fails with EBUSY when the pin is
// already exported, so an export failure is tolerated as long as the
// per-pin directory exists afterwards. A direction failure is returned and
// should abort startup: the pin cannot be polled without it.
//
// settle is the delay between export and direction-set; sysfs needs it to
// finish creating the per-pin files. Pass DefaultSettle outside of tests.
func Configure(base string, pin int, settle time.Duration) error {
	if base == "" {
		base = DefaultBase
	}
	pinDir := filepath.Join(base, fmt.Sprintf("gpio%d", pin))

	id := []byte(strconv.Itoa(pin))
	if err := os.WriteFile(filepath.Join(base, "export"), id, 0644); err != nil {
		if _, statErr := os.Stat(pinDir); statErr != nil {
			return fmt.Errorf("export pin %d: %w", pin, err)
		}
	}

	time.Sleep(settle)

	if err := os.WriteFile(filepath.Join(pinDir, "direction"), []byte("in"), 0644); err != nil {
		return fmt.Errorf("set pin %d direction: %w", pin, err)
	}
	return nil
}
