// Package mask contains pure state-aggregation logic for the beacon.
// This package has NO external dependencies (no sysfs, sockets, logging, or
// clocks). Pin access is injected through the Reader interface.
package mask

import "fmt"

// Reader supplies the current level of a single pin.
type Reader interface {
	Read(pin int) (bool, error)
}

// PinError records a failed read for one pin during a refresh.
type PinError struct {
	Pin int
	Err error
}

func (e PinError) Error() string { return fmt.Sprintf("pin %d: %v", e.Pin, e.Err) }

func (e PinError) Unwrap() error { return e.Err }

// Aggregator maintains the 64-bit value and active masks for a fixed,
// ordered pin set. The active mask is computed once at construction and
// never changes; the value mask is rebuilt on every Refresh.
type Aggregator struct {
	pins   []int
	active uint64
	value  uint64
}

// New validates the pin set and computes the active mask. Pins must be
// unique and within [0,63], the bit width of the masks.
func New(pins []int) (*Aggregator, error) {
	if len(pins) == 0 {
		return nil, fmt.Errorf("mask: empty pin set")
	}
	var active uint64
	for _, p := range pins {
		if p < 0 || p > 63 {
			return nil, fmt.Errorf("mask: pin %d out of range 0-63", p)
		}
		bit := uint64(1) << uint(p)
		if active&bit != 0 {
			return nil, fmt.Errorf("mask: duplicate pin %d", p)
		}
		active |= bit
	}
	return &Aggregator{pins: append([]int(nil), pins...), active: active}, nil
}

// Pins returns a copy of the configured pin set in its original order.
func (a *Aggregator) Pins() []int {
	return append([]int(nil), a.pins...)
}

// Active returns the active mask: bit N set iff pin N is configured.
func (a *Aggregator) Active() uint64 {
	return a.active
}

// Value returns the value mask from the most recent refresh.
func (a *Aggregator) Value() uint64 {
	return a.value
}

// Refresh reads every pin in order and rebuilds the value mask. A pin whose
// read fails keeps its bit from the previous tick and is reported in errs.
// changed is a bit-for-bit comparison of the full 64-bit mask against the
// previous refresh; since no pin outside the set ever writes a bit, it is
// true exactly when some polled pin flipped.
func (a *Aggregator) Refresh(r Reader) (value uint64, changed bool, errs []PinError) {
	value = a.value
	for _, p := range a.pins {
		high, err := r.Read(p)
		if err != nil {
			errs = append(errs, PinError{Pin: p, Err: err})
			continue
		}
		bit := uint64(1) << uint(p)
		if high {
			value |= bit
		} else {
			value &^= bit
		}
	}
	changed = value != a.value
	a.value = value
	return value, changed, errs
}
