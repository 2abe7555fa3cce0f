package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/gpio-beacon/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Port:           12121,
		IntervalMs:     1000,
		HeartbeatTicks: 30,
		Backend:        "sysfs",
		HTTPAddr:       ":8080",
	}
	tr := status.NewTracker(start, []int{4, 17}, (1<<4)|(1<<17), cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(1<<17, true, time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC))

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.ValueMask != "0x0000000000020000" {
		t.Errorf("value_mask: got %q", sj.Status.ValueMask)
	}
	if sj.Status.ActiveMask != "0x0000000000020010" {
		t.Errorf("active_mask: got %q", sj.Status.ActiveMask)
	}
	if len(sj.Status.Pins) != 2 {
		t.Fatalf("pins: got %v", sj.Status.Pins)
	}
	if sj.Status.Pins[0].Pin != 4 || sj.Status.Pins[0].State != "LOW" {
		t.Errorf("pin 4: got %+v", sj.Status.Pins[0])
	}
	if sj.Status.Pins[1].Pin != 17 || sj.Status.Pins[1].State != "HIGH" {
		t.Errorf("pin 17: got %+v", sj.Status.Pins[1])
	}
	if sj.Status.Transmits != 1 {
		t.Errorf("transmits: got %d, want 1", sj.Status.Transmits)
	}
	if sj.Status.LastTransmit != "2026-01-01T00:00:05Z" {
		t.Errorf("last_transmit: got %q", sj.Status.LastTransmit)
	}
	if sj.Status.MQTT != nil {
		t.Error("expected mqtt section omitted without a broker")
	}
	if sj.Status.Config.Port != 12121 {
		t.Errorf("config.port: got %d, want 12121", sj.Status.Config.Port)
	}
	if sj.Status.Config.HeartbeatTicks != 30 {
		t.Errorf("config.heartbeat_ticks: got %d, want 30", sj.Status.Config.HeartbeatTicks)
	}
}

func TestJSONMQTTSection(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Port:   12121,
		Broker: "tcp://192.168.1.200:1883",
	}
	tr := status.NewTracker(start, []int{7}, 1<<7, cfg)
	tr.SetMQTTConnected(true)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Status.MQTT == nil {
		t.Fatal("expected mqtt section")
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
}

func TestJSONOmitsLastTransmitBeforeFirstSend(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj StatusJSON
	json.NewDecoder(resp.Body).Decode(&sj)
	if sj.Status.LastTransmit != "" {
		t.Errorf("last_transmit: got %q, want empty", sj.Status.LastTransmit)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(1<<4, true, time.Now())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "GPIO 4") {
		t.Error("expected pin row for GPIO 4 in HTML")
	}
	if !strings.Contains(string(body), "0x0000000000000010") {
		t.Error("expected value mask in HTML")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	resp1, _ := http.Get(ts.URL + "/index.json")
	var sj1 StatusJSON
	json.NewDecoder(resp1.Body).Decode(&sj1)
	resp1.Body.Close()
	if sj1.Status.ValueMask != "0x0000000000000000" {
		t.Errorf("initial value_mask: got %q", sj1.Status.ValueMask)
	}

	tr.Update((1<<4)|(1<<17), true, time.Now())

	resp2, _ := http.Get(ts.URL + "/index.json")
	var sj2 StatusJSON
	json.NewDecoder(resp2.Body).Decode(&sj2)
	resp2.Body.Close()

	if sj2.Status.ValueMask != "0x0000000000020010" {
		t.Errorf("updated value_mask: got %q", sj2.Status.ValueMask)
	}
	if sj2.Status.Pins[0].State != "HIGH" || sj2.Status.Pins[1].State != "HIGH" {
		t.Errorf("expected both pins HIGH, got %+v", sj2.Status.Pins)
	}
}
