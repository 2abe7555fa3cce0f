package pin

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// writeValue creates (or rewrites) the sysfs value file for a pin under base.
func writeValue(t *testing.T, base string, pin int, value string) {
	t.Helper()
	dir := filepath.Join(base, "gpio"+strconv.Itoa(pin))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "value"), []byte(value), 0644); err != nil {
		t.Fatalf("write value: %v", err)
	}
}

func TestSysfsReadLevels(t *testing.T) {
	base := t.TempDir()
	writeValue(t, base, 7, "1\n")
	writeValue(t, base, 9, "0\n")

	r := NewSysfsReader(base)
	defer r.Close()

	high, err := r.Read(7)
	if err != nil {
		t.Fatalf("Read(7): %v", err)
	}
	if !high {
		t.Error("pin 7: expected high")
	}

	high, err = r.Read(9)
	if err != nil {
		t.Fatalf("Read(9): %v", err)
	}
	if high {
		t.Error("pin 9: expected low")
	}
}

func TestSysfsReadReusesHandle(t *testing.T) {
	base := t.TempDir()
	writeValue(t, base, 3, "0\n")

	r := NewSysfsReader(base)
	defer r.Close()

	if high, _ := r.Read(3); high {
		t.Fatal("expected initial low")
	}

	// The level changes under the same open handle; the reader must pick it
	// up via seek-to-start, not by re-opening.
	writeValue(t, base, 3, "1\n")
	high, err := r.Read(3)
	if err != nil {
		t.Fatalf("Read after change: %v", err)
	}
	if !high {
		t.Error("expected high after value file changed")
	}
	if len(r.handles) != 1 {
		t.Errorf("expected 1 cached handle, got %d", len(r.handles))
	}
}

func TestSysfsPrimeOpensAllPins(t *testing.T) {
	base := t.TempDir()
	writeValue(t, base, 4, "0")
	writeValue(t, base, 17, "0")

	r := NewSysfsReader(base)
	defer r.Close()

	if err := r.Prime([]int{4, 17}); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	if len(r.handles) != 2 {
		t.Errorf("expected 2 handles after Prime, got %d", len(r.handles))
	}
}

func TestSysfsPrimeFailsForUnconfiguredPin(t *testing.T) {
	base := t.TempDir()
	writeValue(t, base, 4, "0")

	r := NewSysfsReader(base)
	defer r.Close()

	if err := r.Prime([]int{4, 5}); err == nil {
		t.Fatal("expected error priming a pin with no value file")
	}
}

func TestSysfsCloseReleasesHandles(t *testing.T) {
	base := t.TempDir()
	writeValue(t, base, 2, "1")

	r := NewSysfsReader(base)
	if _, err := r.Read(2); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(r.handles) != 0 {
		t.Errorf("expected no handles after Close, got %d", len(r.handles))
	}

	// Closing again, or closing a reader that never opened anything, is a
	// no-op.
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := NewSysfsReader(base).Close(); err != nil {
		t.Errorf("Close of unused reader: %v", err)
	}
}

func TestConfigureExportsAndSetsDirection(t *testing.T) {
	base := t.TempDir()
	// Pre-create the per-pin directory the kernel would create on export.
	if err := os.MkdirAll(filepath.Join(base, "gpio12"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Configure(base, 12, 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	exported, err := os.ReadFile(filepath.Join(base, "export"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(exported) != "12" {
		t.Errorf("export: got %q, want %q", exported, "12")
	}

	dir, err := os.ReadFile(filepath.Join(base, "gpio12", "direction"))
	if err != nil {
		t.Fatalf("read direction: %v", err)
	}
	if string(dir) != "in" {
		t.Errorf("direction: got %q, want %q", dir, "in")
	}
}

func TestConfigureToleratesBusyExport(t *testing.T) {
	base := t.TempDir()
	// Make the export write fail while the pin directory already exists:
	// the already-exported case.
	if err := os.MkdirAll(filepath.Join(base, "export"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(base, "gpio8"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Configure(base, 8, 0); err != nil {
		t.Fatalf("Configure should tolerate a busy export: %v", err)
	}

	dir, err := os.ReadFile(filepath.Join(base, "gpio8", "direction"))
	if err != nil {
		t.Fatalf("read direction: %v", err)
	}
	if string(dir) != "in" {
		t.Errorf("direction: got %q, want %q", dir, "in")
	}
}

func TestConfigureFailsWhenExportDidNothing(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "export"), 0755); err != nil {
		t.Fatal(err)
	}

	// Export write fails and no pin directory appeared: real failure.
	if err := Configure(base, 8, 0); err == nil {
		t.Fatal("expected error when export fails and pin dir is missing")
	}
}

func TestConfigureDirectionFailureIsReturned(t *testing.T) {
	base := t.TempDir()

	// Export "succeeds" (plain file write) but the pin directory never
	// appears, so the direction write must fail.
	if err := Configure(base, 30, 0); err == nil {
		t.Fatal("expected error when direction cannot be set")
	}
}
