// Package pin provides digital input reading through the Linux GPIO
// interfaces. The sysfs implementation reads the per-pin value files
// directly; the chardev implementation uses the GPIO character device.
// The fake implementation allows testing without hardware.
package pin

// Reader reads the current level of digital input pins.
type Reader interface {
	// Read returns true when the pin is high.
	Read(pin int) (bool, error)

	// Close releases all pin resources.
	Close() error
}
