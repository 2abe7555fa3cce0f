// Package mqtt mirrors transmitted beacon frames to an MQTT broker, with
// abstraction for testing. The mirror is optional; the UDP broadcast is the
// primary transport.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic is the MQTT topic for beacon state frames.
const Topic = "sensors/gpio-beacon/state"

// Publisher publishes beacon frames.
type Publisher interface {
	// PublishState mirrors one transmitted frame to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishState(f Frame) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Frame is one transmitted beacon frame together with its pin set.
type Frame struct {
	Timestamp time.Time
	Value     uint64
	Active    uint64
	Pins      []int
}

// Payload is the JSON envelope published for each frame.
type Payload struct {
	Beacon BeaconPayload `json:"beacon"`
}

// BeaconPayload carries the frame details.
type BeaconPayload struct {
	Timestamp  string     `json:"timestamp"`
	ValueMask  string     `json:"value_mask"`
	ActiveMask string     `json:"active_mask"`
	Pins       []PinState `json:"pins"`
}

// PinState is one pin's decoded level.
type PinState struct {
	Pin   int    `json:"pin"`
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a frame. Masks are rendered as
// fixed-width hex so consumers can compare them against the binary frame.
func FormatPayload(f Frame) ([]byte, error) {
	pins := make([]PinState, 0, len(f.Pins))
	for _, p := range f.Pins {
		state := "LOW"
		if f.Value&(1<<uint(p)) != 0 {
			state = "HIGH"
		}
		pins = append(pins, PinState{Pin: p, State: state})
	}
	payload := Payload{
		Beacon: BeaconPayload{
			Timestamp:  f.Timestamp.UTC().Format(time.RFC3339),
			ValueMask:  fmt.Sprintf("0x%016x", f.Value),
			ActiveMask: fmt.Sprintf("0x%016x", f.Active),
			Pins:       pins,
		},
	}
	return json.Marshal(payload)
}
