package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/shockburst"
	"shockburst-bridge/pkg/topics"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Status payloads
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Publisher publishes decoded packets, bridge status and diagnostics to an MQTT broker
type Publisher struct {
	client   paho.Client
	settings config.MQTTSettings
	metrics  metrics.MetricsCollector
	now      func() time.Time
}

// NewPublisher creates a publisher. m may be nil when metrics are disabled.
func NewPublisher(settings config.MQTTSettings, m metrics.MetricsCollector) *Publisher {
	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", settings.Broker, settings.Port))
	opts.SetClientID(settings.ClientID)
	opts.SetUsername(settings.Username)
	opts.SetPassword(settings.Password)
	opts.SetAutoReconnect(true)

	keepAlive := settings.KeepAlive
	if keepAlive == 0 {
		keepAlive = 60 * time.Second
	}
	opts.SetKeepAlive(keepAlive)
	opts.SetPingTimeout(10 * time.Second)

	// Broker marks the bridge offline if the connection drops
	opts.SetWill(settings.StatusTopic, StatusOffline, 1, true)

	opts.SetOnConnectHandler(func(client paho.Client) {
		logger.LogInfo("Publisher connected to MQTT broker")
		if token := client.Publish(settings.StatusTopic, 1, true, StatusOnline); token.Wait() && token.Error() != nil {
			logger.LogWarn("Error publishing online status on connect: %v", token.Error())
		}
	})

	opts.SetConnectionLostHandler(func(client paho.Client, err error) {
		logger.LogError("Publisher disconnected: %v", err)
	})

	return newPublisher(paho.NewClient(opts), settings, m)
}

func newPublisher(client paho.Client, settings config.MQTTSettings, m metrics.MetricsCollector) *Publisher {
	if m == nil {
		m = metrics.NewNullMetrics()
	}
	return &Publisher{
		client:   client,
		settings: settings,
		metrics:  m,
		now:      time.Now,
	}
}

// Connect connects the publisher to the broker, retrying until ctx is cancelled
func (p *Publisher) Connect(ctx context.Context) error {
	retryDelay := p.settings.RetryDelay
	if retryDelay == 0 {
		retryDelay = 5 * time.Second
	}

	attempt := 1
	for {
		logger.LogDebug("🔄 Attempting to connect to MQTT broker (attempt %d)...", attempt)

		token := p.client.Connect()
		if token.Wait() && token.Error() == nil && p.waitConnected(ctx) {
			logger.LogInfo("✅ Connected to MQTT broker after %d attempts", attempt)
			return nil
		}
		if token.Error() != nil {
			logger.LogError("❌ MQTT connection failed (attempt %d): %v", attempt, token.Error())
		} else {
			logger.LogWarn("⏰ MQTT connection establishment timeout (attempt %d)", attempt)
		}
		logger.LogInfo("⏳ Retrying in %.0f seconds...", retryDelay.Seconds())

		select {
		case <-ctx.Done():
			return fmt.Errorf("mqtt connection cancelled: %w", ctx.Err())
		case <-time.After(retryDelay):
			attempt++
		}
	}
}

// waitConnected polls the client for up to five seconds after a successful connect token
func (p *Publisher) waitConnected(ctx context.Context) bool {
	for i := 0; i < 50; i++ {
		if p.client.IsConnected() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
	return p.client.IsConnected()
}

// Disconnect disconnects the publisher
func (p *Publisher) Disconnect() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// IsConnected reports whether the broker connection is up
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}

// PublishPacket publishes a decoded packet as JSON on <topic_prefix>/<address>
func (p *Publisher) PublishPacket(ctx context.Context, packet *shockburst.Packet) error {
	body, err := json.Marshal(NewPacketMessage(packet, p.now()))
	if err != nil {
		return fmt.Errorf("error marshaling packet: %w", err)
	}

	topic := topics.BuildPacketTopic(p.settings.TopicPrefix, packet.Address())
	logger.LogDebug("📤 Publishing packet %s (%d bytes payload) → %s",
		topics.AddressKey(packet.Address()), packet.PayloadLength(), topic)

	return p.publish(ctx, topic, p.settings.QoS, false, body)
}

// PublishMismatch reports a CRC failure on a candidate address
func (p *Publisher) PublishMismatch(ctx context.Context, mismatch shockburst.Mismatch) error {
	body, err := json.Marshal(NewMismatchMessage(mismatch, p.now()))
	if err != nil {
		return fmt.Errorf("error marshaling mismatch: %w", err)
	}
	return p.publish(ctx, topics.BuildMismatchTopic(p.settings.TopicPrefix, mismatch.Address), 0, false, body)
}

// PublishDiagnostic publishes diagnostic information with code and message
func (p *Publisher) PublishDiagnostic(ctx context.Context, code int, message string) error {
	body, err := json.Marshal(DiagnosticMessage{
		Code:      code,
		Message:   message,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("error marshaling diagnostic: %w", err)
	}

	logger.LogDebug("🔧 📤 Publishing diagnostic to '%s': %s", p.settings.DiagnosticTopic, message)
	return p.publish(ctx, p.settings.DiagnosticTopic, 0, false, body)
}

// PublishStatusOnline publishes the retained "online" status
func (p *Publisher) PublishStatusOnline(ctx context.Context) error {
	return p.publish(ctx, p.settings.StatusTopic, 1, true, []byte(StatusOnline))
}

// PublishStatusOffline publishes the retained "offline" status
func (p *Publisher) PublishStatusOffline(ctx context.Context) error {
	return p.publish(ctx, p.settings.StatusTopic, 1, true, []byte(StatusOffline))
}

func (p *Publisher) publish(ctx context.Context, topic string, qos byte, retained bool, body []byte) error {
	if !p.client.IsConnected() {
		p.metrics.IncrementMQTTErrors()
		return fmt.Errorf("client not connected")
	}

	token := p.client.Publish(topic, qos, retained, body)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
		if token.Error() != nil {
			p.metrics.IncrementMQTTErrors()
			return fmt.Errorf("error publishing to %s: %w", topic, token.Error())
		}
	}

	p.metrics.IncrementMQTTPublishes()
	return nil
}
