package mqtt

import (
	"context"

	"shockburst-bridge/pkg/shockburst"
)

// PacketPublisher publishes decoded packets
type PacketPublisher interface {
	PublishPacket(ctx context.Context, packet *shockburst.Packet) error
	PublishMismatch(ctx context.Context, mismatch shockburst.Mismatch) error
}

// StatusPublisher publishes bridge availability
type StatusPublisher interface {
	PublishStatusOnline(ctx context.Context) error
	PublishStatusOffline(ctx context.Context) error
}

// DiagnosticPublisher publishes diagnostic codes and messages
type DiagnosticPublisher interface {
	PublishDiagnostic(ctx context.Context, code int, message string) error
}

// ConnectionManager handles the broker connection lifecycle
type ConnectionManager interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}

// BridgePublisher combines everything the bridge publishes
type BridgePublisher interface {
	PacketPublisher
	StatusPublisher
	DiagnosticPublisher
	ConnectionManager
}

// Compile-time verification that Publisher implements all interfaces
var (
	_ PacketPublisher     = (*Publisher)(nil)
	_ StatusPublisher     = (*Publisher)(nil)
	_ DiagnosticPublisher = (*Publisher)(nil)
	_ ConnectionManager   = (*Publisher)(nil)
	_ BridgePublisher     = (*Publisher)(nil)
)
