package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/shockburst"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeToken is an already-completed paho token
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes instead of talking to a broker
type fakeClient struct {
	mu         sync.Mutex
	connected  bool
	connectErr error
	publishErr error
	messages   []published
}

func (c *fakeClient) IsConnected() bool      { return c.connected }
func (c *fakeClient) IsConnectionOpen() bool { return c.connected }
func (c *fakeClient) Connect() paho.Token {
	if c.connectErr == nil {
		c.connected = true
	}
	return newFakeToken(c.connectErr)
}
func (c *fakeClient) Disconnect(quiesce uint) { c.connected = false }
func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic, qos, retained, payload.([]byte)})
	return newFakeToken(c.publishErr)
}
func (c *fakeClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return newFakeToken(nil)
}
func (c *fakeClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return newFakeToken(nil)
}
func (c *fakeClient) Unsubscribe(...string) paho.Token        { return newFakeToken(nil) }
func (c *fakeClient) AddRoute(string, paho.MessageHandler)    {}
func (c *fakeClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }

func testSettings() config.MQTTSettings {
	return config.MQTTSettings{
		Broker:          "localhost",
		Port:            1883,
		ClientID:        "test",
		RetryDelay:      10 * time.Millisecond,
		QoS:             1,
		TopicPrefix:     "shockburst/packets",
		StatusTopic:     "shockburst/status",
		DiagnosticTopic: "shockburst/diagnostic",
	}
}

func testPacket(t *testing.T) *shockburst.Packet {
	t.Helper()
	p, err := shockburst.New(shockburst.Fields{
		AddressLength: 3,
		PayloadLength: 2,
		CRCLength:     2,
		Address:       []byte{0xE7, 0xE7, 0xE7},
		Payload:       []byte{0x01, 0x02},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestPublishPacket(t *testing.T) {
	client := &fakeClient{connected: true}
	pm := metrics.NewPrometheusMetrics()
	p := newPublisher(client, testSettings(), pm)
	p.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := p.PublishPacket(context.Background(), testPacket(t)); err != nil {
		t.Fatalf("PublishPacket() error = %v", err)
	}

	if len(client.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(client.messages))
	}
	msg := client.messages[0]
	if msg.topic != "shockburst/packets/e7e7e7" {
		t.Errorf("topic = %q", msg.topic)
	}
	if msg.qos != 1 || msg.retained {
		t.Errorf("qos/retained = %d/%v", msg.qos, msg.retained)
	}

	var decoded PacketMessage
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Address != "e7e7e7" || decoded.Payload != "0102" || decoded.CRC != "aec1" {
		t.Errorf("unexpected message: %+v", decoded)
	}
	if decoded.Frame != "aae7e7e70102aec1" {
		t.Errorf("frame = %q", decoded.Frame)
	}
	if decoded.PayloadLength != 2 || decoded.CRCLength != 2 || decoded.AddressLength != 3 {
		t.Errorf("lengths = %d/%d/%d", decoded.AddressLength, decoded.PayloadLength, decoded.CRCLength)
	}
	if !decoded.Timestamp.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("timestamp = %v", decoded.Timestamp)
	}

	if got := testutil.ToFloat64(pm.MQTTPublishes); got != 1 {
		t.Errorf("mqtt publishes = %v, want 1", got)
	}
}

func TestPublishWhileDisconnected(t *testing.T) {
	client := &fakeClient{}
	pm := metrics.NewPrometheusMetrics()
	p := newPublisher(client, testSettings(), pm)

	if err := p.PublishPacket(context.Background(), testPacket(t)); err == nil {
		t.Fatal("expected error while disconnected")
	}
	if len(client.messages) != 0 {
		t.Errorf("expected no messages, got %d", len(client.messages))
	}
	if got := testutil.ToFloat64(pm.MQTTErrors); got != 1 {
		t.Errorf("mqtt errors = %v, want 1", got)
	}
}

func TestPublishBrokerError(t *testing.T) {
	client := &fakeClient{connected: true, publishErr: errors.New("broker rejected")}
	p := newPublisher(client, testSettings(), nil)

	if err := p.PublishDiagnostic(context.Background(), 3, "boom"); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestPublishStatus(t *testing.T) {
	client := &fakeClient{connected: true}
	p := newPublisher(client, testSettings(), nil)

	if err := p.PublishStatusOnline(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.PublishStatusOffline(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := []string{StatusOnline, StatusOffline}
	for i, msg := range client.messages {
		if msg.topic != "shockburst/status" || !msg.retained || string(msg.payload) != want[i] {
			t.Errorf("message %d = %+v", i, msg)
		}
	}
}

func TestPublishDiagnosticAndMismatch(t *testing.T) {
	client := &fakeClient{connected: true}
	p := newPublisher(client, testSettings(), nil)

	if err := p.PublishDiagnostic(context.Background(), 3, "crc error"); err != nil {
		t.Fatal(err)
	}
	var diag DiagnosticMessage
	if err := json.Unmarshal(client.messages[0].payload, &diag); err != nil {
		t.Fatal(err)
	}
	if client.messages[0].topic != "shockburst/diagnostic" || diag.Code != 3 || diag.Message != "crc error" {
		t.Errorf("unexpected diagnostic %q: %+v", client.messages[0].topic, diag)
	}

	mismatch := shockburst.Mismatch{Address: []byte{0xE7, 0xE7}, PayloadLength: 4, Given: 0x1234, Calculated: 0xABCD}
	if err := p.PublishMismatch(context.Background(), mismatch); err != nil {
		t.Fatal(err)
	}
	var mm MismatchMessage
	if err := json.Unmarshal(client.messages[1].payload, &mm); err != nil {
		t.Fatal(err)
	}
	if client.messages[1].topic != "shockburst/packets/e7e7/crc_error" {
		t.Errorf("mismatch topic = %q", client.messages[1].topic)
	}
	if mm.Given != "1234" || mm.Calculated != "abcd" || mm.PayloadLength != 4 {
		t.Errorf("unexpected mismatch message: %+v", mm)
	}
}

func TestConnectRetriesUntilCancelled(t *testing.T) {
	client := &fakeClient{connectErr: errors.New("connection refused")}
	p := newPublisher(client, testSettings(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := p.Connect(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Connect() error = %v, expected deadline exceeded", err)
	}
}

func TestConnectAndDisconnect(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, testSettings(), nil)

	if err := p.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !p.IsConnected() {
		t.Error("expected connected")
	}
	p.Disconnect()
	if p.IsConnected() {
		t.Error("expected disconnected")
	}
}
