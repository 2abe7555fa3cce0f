package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// bufferCapacity bounds how many frames are held while the broker is
// unreachable.
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. Frames that fail to
// publish are buffered and replayed once the connection comes back.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *frameBuffer
}

// NewRealPublisher creates a publisher connected to the given broker. The
// client id carries a random suffix so two beacons on one broker do not
// evict each other's session.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newFrameBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("gpio-beacon-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// PublishState sends the frame at QoS 0 (at-most-once, matching the
// fire-and-forget UDP transport). On failure the payload is buffered for
// replay and the error is returned for logging.
func (p *RealPublisher) PublishState(f Frame) error {
	payload, err := FormatPayload(f)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	token := p.client.Publish(Topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		p.buffer(payload)
		return fmt.Errorf("publish timeout (frame buffered)")
	}
	if err := token.Error(); err != nil {
		p.buffer(payload)
		return fmt.Errorf("publish: %w (frame buffered)", err)
	}
	return nil
}

func (p *RealPublisher) buffer(payload []byte) {
	p.mu.Lock()
	p.buf.push(payload)
	p.mu.Unlock()
}

// onConnect replays frames buffered while the broker was unreachable.
// Runs on paho's connection goroutine.
func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	payloads := p.buf.drainAll()
	p.mu.Unlock()
	if len(payloads) == 0 {
		return
	}

	log.Printf("mqtt: reconnected, replaying %d buffered frames", len(payloads))
	for _, payload := range payloads {
		token := c.Publish(Topic, 0, false, payload)
		if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
			log.Printf("mqtt: replay failed, dropping remaining buffered frames")
			return
		}
	}
}

// IsConnected reports whether the broker connection is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
