package web

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/gpio-beacon/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	ValueMask     string      `json:"value_mask"`
	ActiveMask    string      `json:"active_mask"`
	Pins          []PinJSON   `json:"pins"`
	Transmits     int64       `json:"transmits"`
	SendErrors    int64       `json:"send_errors"`
	ReadErrors    int64       `json:"read_errors"`
	LastTransmit  string      `json:"last_transmit,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	StartTime     string      `json:"start_time"`
	Timestamp     string      `json:"timestamp"`
	MQTT          *MQTTStatus `json:"mqtt,omitempty"`
	Config        ConfigJSON  `json:"config"`
}

// PinJSON is one pin's decoded level.
type PinJSON struct {
	Pin   int    `json:"pin"`
	State string `json:"state"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Port           int    `json:"port"`
	IntervalMs     int64  `json:"interval_ms"`
	HeartbeatTicks int    `json:"heartbeat_ticks"`
	Backend        string `json:"backend"`
	HTTPAddr       string `json:"http_addr"`
}

func formatJSON(snap status.Snapshot) []byte {
	pins := make([]PinJSON, 0, len(snap.Pins))
	for _, p := range snap.Pins {
		state := "LOW"
		if snap.High(p) {
			state = "HIGH"
		}
		pins = append(pins, PinJSON{Pin: p, State: state})
	}

	sj := StatusJSON{
		Status: StatusInner{
			ValueMask:     fmt.Sprintf("0x%016x", snap.ValueMask),
			ActiveMask:    fmt.Sprintf("0x%016x", snap.ActiveMask),
			Pins:          pins,
			Transmits:     snap.Transmits,
			SendErrors:    snap.SendErrors,
			ReadErrors:    snap.ReadErrors,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Config: ConfigJSON{
				Port:           snap.Config.Port,
				IntervalMs:     snap.Config.IntervalMs,
				HeartbeatTicks: snap.Config.HeartbeatTicks,
				Backend:        snap.Config.Backend,
				HTTPAddr:       snap.Config.HTTPAddr,
			},
		},
	}

	if !snap.LastTransmit.IsZero() {
		sj.Status.LastTransmit = snap.LastTransmit.UTC().Format(time.RFC3339)
	}
	if snap.Config.Broker != "" {
		sj.Status.MQTT = &MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker}
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
