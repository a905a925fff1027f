package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/shockburst"
)

// LogPublisher stands in for the broker when MQTT is disabled and writes packets to the log
type LogPublisher struct {
	log logger.ILogger
}

// NewLogPublisher creates a publisher that only logs
func NewLogPublisher(log logger.ILogger) *LogPublisher {
	if log == nil {
		log = logger.NewStandardLogger()
	}
	return &LogPublisher{log: log}
}

// PublishPacket logs the packet JSON
func (p *LogPublisher) PublishPacket(ctx context.Context, packet *shockburst.Packet) error {
	body, err := json.Marshal(NewPacketMessage(packet, time.Now()))
	if err != nil {
		return err
	}
	p.log.LogInfo("📦 %s", body)
	return nil
}

// PublishMismatch logs the CRC failure
func (p *LogPublisher) PublishMismatch(ctx context.Context, mismatch shockburst.Mismatch) error {
	p.log.LogWarn("⚠️ Possible packet with CRC error: address %x payload %d given %04x calculated %04x",
		mismatch.Address, mismatch.PayloadLength, mismatch.Given, mismatch.Calculated)
	return nil
}

func (p *LogPublisher) PublishStatusOnline(ctx context.Context) error  { return nil }
func (p *LogPublisher) PublishStatusOffline(ctx context.Context) error { return nil }

// PublishDiagnostic logs the diagnostic
func (p *LogPublisher) PublishDiagnostic(ctx context.Context, code int, message string) error {
	p.log.LogDebug("🔧 Diagnostic [%d] %s", code, message)
	return nil
}

var (
	_ PacketPublisher     = (*LogPublisher)(nil)
	_ StatusPublisher     = (*LogPublisher)(nil)
	_ DiagnosticPublisher = (*LogPublisher)(nil)
)
