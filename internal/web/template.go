package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/gpio-beacon/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"mask": func(m uint64) string {
		return fmt.Sprintf("0x%016x", m)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>GPIO Beacon</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.high { color: green; font-weight: bold; }
.low { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>GPIO Beacon</h1>

<h2>Pins</h2>
<table>
<tr><th>Pin</th><th>State</th></tr>
{{$s := .Snapshot}}{{range .Snapshot.Pins}}<tr><th>GPIO {{.}}</th><td class="{{if $s.High .}}high{{else}}low{{end}}">{{if $s.High .}}HIGH{{else}}LOW{{end}}</td></tr>
{{end}}</table>

<h2>Masks</h2>
<table>
<tr><th>Value</th><td>{{mask .Snapshot.ValueMask}}</td></tr>
<tr><th>Active</th><td>{{mask .Snapshot.ActiveMask}}</td></tr>
</table>

<h2>Broadcast</h2>
<table>
<tr><th>Port</th><td>{{.Snapshot.Config.Port}}</td></tr>
<tr><th>Transmits</th><td>{{.Snapshot.Transmits}}</td></tr>
<tr><th>Send Errors</th><td>{{.Snapshot.SendErrors}}</td></tr>
<tr><th>Read Errors</th><td>{{.Snapshot.ReadErrors}}</td></tr>
{{if not .Snapshot.LastTransmit.IsZero}}<tr><th>Last Transmit</th><td>{{.Snapshot.LastTransmit.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{end}}</table>

{{if .Snapshot.Config.Broker}}<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .Snapshot.MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .Snapshot.MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Snapshot.Config.Broker}}</td></tr>
</table>
{{end}}
<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.Snapshot.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Interval</th><td>{{.Snapshot.Config.IntervalMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{.Snapshot.Config.HeartbeatTicks}} ticks</td></tr>
<tr><th>Backend</th><td>{{.Snapshot.Config.Backend}}</td></tr>
<tr><th>HTTP</th><td>{{.Snapshot.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template wants a Duration field.
	data := struct {
		Snapshot status.Snapshot
		Uptime   time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
