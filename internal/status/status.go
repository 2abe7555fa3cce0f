// Package status provides a thread-safe status tracker for the beacon
// daemon. It is read by the HTTP handlers while the poll loop writes it.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	Port           int
	IntervalMs     int64
	HeartbeatTicks int
	Backend        string
	Broker         string // empty = MQTT mirror disabled
	HTTPAddr       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Pins          []int
	ValueMask     uint64
	ActiveMask    uint64
	Transmits     int64
	SendErrors    int64
	ReadErrors    int64
	LastTransmit  time.Time
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// High reports whether the pin's bit is set in the value mask.
func (s Snapshot) High(pin int) bool {
	return s.ValueMask&(1<<uint(pin)) != 0
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker for the given pin set and config. The active
// mask never changes after construction.
func NewTracker(startTime time.Time, pins []int, activeMask uint64, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Pins:       append([]int(nil), pins...),
			ActiveMask: activeMask,
			StartTime:  startTime,
			Config:     cfg,
		},
	}
}

// Update records the value mask from the latest tick and, when a datagram
// went out, the transmission. Called from the poll loop on every tick.
func (t *Tracker) Update(valueMask uint64, transmitted bool, at time.Time) {
	t.mu.Lock()
	t.snap.ValueMask = valueMask
	if transmitted {
		t.snap.Transmits++
		t.snap.LastTransmit = at
	}
	t.mu.Unlock()
}

// AddSendError counts a failed datagram send.
func (t *Tracker) AddSendError() {
	t.mu.Lock()
	t.snap.SendErrors++
	t.mu.Unlock()
}

// AddReadErrors counts n failed pin reads from one tick.
func (t *Tracker) AddReadErrors(n int) {
	t.mu.Lock()
	t.snap.ReadErrors += int64(n)
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
