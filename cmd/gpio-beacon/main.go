// Command gpio-beacon polls GPIO inputs and broadcasts their aggregate
// state over UDP once per tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sweeney/gpio-beacon/internal/beacon"
	"github.com/sweeney/gpio-beacon/internal/mask"
	"github.com/sweeney/gpio-beacon/internal/mqtt"
	"github.com/sweeney/gpio-beacon/internal/pin"
	"github.com/sweeney/gpio-beacon/internal/status"
	"github.com/sweeney/gpio-beacon/internal/web"
)

// DefaultHeartbeatTicks is how many ticks pass between unconditional
// transmissions when no pin changes.
const DefaultHeartbeatTicks = 30

// Verbosity levels. -q selects quiet, -v raises the level, -d jumps
// straight to debug.
const (
	levelQuiet   = -1
	levelNormal  = 0
	levelVerbose = 1
	levelDebug   = 2
)

var verbosity = levelNormal

func infof(format string, v ...any) {
	if verbosity >= levelNormal {
		log.Printf(format, v...)
	}
}

func verbosef(format string, v ...any) {
	if verbosity >= levelVerbose {
		log.Printf(format, v...)
	}
}

func debugf(format string, v ...any) {
	if verbosity >= levelDebug {
		log.Printf(format, v...)
	}
}

// intList collects a repeatable integer flag.
type intList []int

func (l *intList) String() string {
	return fmt.Sprint([]int(*l))
}

func (l *intList) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a pin number: %q", s)
	}
	*l = append(*l, n)
	return nil
}

// counter counts occurrences of a repeatable boolean flag.
type counter int

func (c *counter) String() string {
	return strconv.Itoa(int(*c))
}

func (c *counter) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	}
	return nil
}

func (c *counter) IsBoolFlag() bool { return true }

type options struct {
	pins           []int // full poll set: positional args then -i pins
	initPins       []int // pins to configure via export/direction
	port           int
	interval       time.Duration
	heartbeatTicks int
	backend        string
	gpioBase       string
	chip           string
	broker         string
	httpAddr       string
}

func main() {
	opts, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// parseArgs parses flags and positional pin numbers into options, setting
// the package verbosity level as a side effect.
func parseArgs(fs *flag.FlagSet, args []string) (*options, error) {
	var initPins intList
	var verbose counter

	debug := fs.Bool("d", false, "Debug output (maximal verbosity)")
	quiet := fs.Bool("q", false, "Quiet (suppress routine output)")
	fs.Var(&verbose, "v", "Increase verbosity (repeatable)")
	fs.Var(&initPins, "i", "Poll this pin and configure it as an input first (repeatable)")
	port := fs.Int("p", beacon.DefaultPort, "UDP broadcast port")
	interval := fs.Duration("interval", time.Second, "Polling interval")
	heartbeat := fs.Int("heartbeat", DefaultHeartbeatTicks, "Ticks between unconditional transmissions")
	backend := fs.String("backend", "sysfs", "GPIO backend: sysfs or chardev")
	gpioBase := fs.String("gpio-base", pin.DefaultBase, "sysfs GPIO directory")
	chip := fs.String("chip", "gpiochip0", "GPIO chip name for the chardev backend")
	broker := fs.String("broker", "", "MQTT broker URL to mirror frames to (empty to disable)")
	httpAddr := fs.String("http", "", "HTTP status address (empty to disable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case *quiet:
		verbosity = levelQuiet
	case *debug:
		verbosity = levelDebug
	default:
		verbosity = levelNormal + int(verbose)
		if verbosity > levelDebug {
			verbosity = levelDebug
		}
	}

	pins, err := parsePins(fs.Args(), initPins)
	if err != nil {
		return nil, err
	}
	if *heartbeat < 1 {
		return nil, fmt.Errorf("heartbeat must be at least 1 tick, got %d", *heartbeat)
	}
	if *interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %v", *interval)
	}

	return &options{
		pins:           pins,
		initPins:       initPins,
		port:           *port,
		interval:       *interval,
		heartbeatTicks: *heartbeat,
		backend:        *backend,
		gpioBase:       *gpioBase,
		chip:           *chip,
		broker:         *broker,
		httpAddr:       *httpAddr,
	}, nil
}

// parsePins combines positional pin arguments with -i pins into the poll
// set. At least one pin must come from one of the two.
func parsePins(args []string, initPins []int) ([]int, error) {
	pins := make([]int, 0, len(args)+len(initPins))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("not a pin number: %q", a)
		}
		pins = append(pins, n)
	}
	pins = append(pins, initPins...)
	if len(pins) == 0 {
		return nil, fmt.Errorf("no pins given")
	}
	return pins, nil
}

func run(opts *options) error {
	// Configure -i pins as inputs before anything opens their value files.
	for _, p := range opts.initPins {
		if err := pin.Configure(opts.gpioBase, p, pin.DefaultSettle); err != nil {
			return fmt.Errorf("configure gpio %d: %w", p, err)
		}
		verbosef("configured gpio %d as input", p)
	}

	agg, err := mask.New(opts.pins)
	if err != nil {
		return err
	}

	reader, err := newReader(opts)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	tx := beacon.NewBroadcaster(opts.port)
	if err := tx.EnsureOpen(); err != nil {
		return fmt.Errorf("open broadcast socket: %w", err)
	}
	defer tx.Close()

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		rp, err := mqtt.NewRealPublisher(opts.broker)
		if err != nil {
			// The mirror is best-effort; the broadcast does not need it.
			log.Printf("mqtt mirror disabled: %v", err)
		} else {
			defer rp.Close()
			publisher = rp
			mqttStatus = rp
		}
	}

	tracker := status.NewTracker(time.Now(), agg.Pins(), agg.Active(), status.Config{
		Port:           opts.port,
		IntervalMs:     opts.interval.Milliseconds(),
		HeartbeatTicks: opts.heartbeatTicks,
		Backend:        opts.backend,
		Broker:         opts.broker,
		HTTPAddr:       opts.httpAddr,
	})

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		verbosef("http status server listening on %s", opts.httpAddr)
	}

	infof("started: pins=%v port=%d interval=%v heartbeat=%d backend=%s",
		agg.Pins(), opts.port, opts.interval, opts.heartbeatTicks, opts.backend)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	signal.Ignore(syscall.SIGHUP, syscall.SIGPIPE)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return runLoop(agg, reader, tx, publisher, mqttStatus, tracker, opts.heartbeatTicks, time.Now, ticker.C, sigCh)
}

// newReader builds the pin reader for the selected backend and fails fast
// if any pin cannot be opened.
func newReader(opts *options) (pin.Reader, error) {
	switch opts.backend {
	case "sysfs":
		r := pin.NewSysfsReader(opts.gpioBase)
		if err := r.Prime(opts.pins); err != nil {
			r.Close()
			return nil, err
		}
		return r, nil
	case "chardev":
		return pin.NewChardevReader(opts.chip, opts.pins)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}

func runLoop(agg *mask.Aggregator, reader pin.Reader, tx beacon.Sender, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeatTicks int, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	pins := agg.Pins()
	tickCount := 0

	for {
		select {
		case s := <-sig:
			infof("received %v, shutting down", s)
			return nil

		case <-tick:
			t := now()
			value, changed, errs := agg.Refresh(reader)
			for _, pe := range errs {
				log.Printf("gpio read error: %v", pe)
			}
			if tracker != nil && len(errs) > 0 {
				tracker.AddReadErrors(len(errs))
			}

			sent := false
			if changed || tickCount == 0 {
				if err := tx.Send(value, agg.Active()); err != nil {
					log.Printf("send error: %v", err)
					if tracker != nil {
						tracker.AddSendError()
					}
				} else {
					sent = true
					debugf("sent: value=0x%016x active=0x%016x changed=%v", value, agg.Active(), changed)
				}
			}

			if sent && publisher != nil {
				f := mqtt.Frame{Timestamp: t, Value: value, Active: agg.Active(), Pins: pins}
				if err := publisher.PublishState(f); err != nil {
					log.Printf("mqtt publish error: %v", err)
				}
			}

			if tracker != nil {
				tracker.Update(value, sent, t)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			tickCount++
			if tickCount >= heartbeatTicks {
				tickCount = 0
			}
		}
	}
}
