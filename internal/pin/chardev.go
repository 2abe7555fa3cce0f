//go:build linux

package pin

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// ChardevReader reads pins through the Linux GPIO character device. Unlike
// the sysfs reader it requests every line up front, so there is nothing to
// prime and no export step.
type ChardevReader struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewChardevReader requests every pin as an input on the given chip
// ("gpiochip0" when empty).
func NewChardevReader(chip string, pins []int) (*ChardevReader, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	r := &ChardevReader{chip: c, lines: make(map[int]*gpiocdev.Line, len(pins))}
	for _, p := range pins {
		line, err := c.RequestLine(p, gpiocdev.AsInput)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request pin %d: %w", p, err)
		}
		r.lines[p] = line
	}
	return r, nil
}

// Read returns the pin level.
func (r *ChardevReader) Read(pin int) (bool, error) {
	line, ok := r.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not requested", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v != 0, nil
}

// Close releases every requested line and the chip.
func (r *ChardevReader) Close() error {
	var firstErr error
	for _, line := range r.lines {
		if err := line.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.lines = nil
	if r.chip != nil {
		if err := r.chip.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.chip = nil
	}
	return firstErr
}
