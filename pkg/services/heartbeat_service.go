package services

import (
	"context"
	"time"

	"shockburst-bridge/pkg/health"
	"shockburst-bridge/pkg/logger"
)

// HeartbeatService sends periodic online status while the source is readable
type HeartbeatService struct {
	publisher PublisherInterface
	monitor   *health.SourceMonitor
	interval  time.Duration
}

// NewHeartbeatService creates a new heartbeat service
func NewHeartbeatService(publisher PublisherInterface, monitor *health.SourceMonitor, interval time.Duration) *HeartbeatService {
	return &HeartbeatService{
		publisher: publisher,
		monitor:   monitor,
		interval:  interval,
	}
}

// Start begins the heartbeat loop
func (s *HeartbeatService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.LogInfo("💓 Heartbeat service started with interval: %v", s.interval)

	for {
		select {
		case <-ctx.Done():
			logger.LogDebug("🔇 Heartbeat service stopped")
			return
		case <-ticker.C:
			s.sendHeartbeat(ctx)
		}
	}
}

func (s *HeartbeatService) sendHeartbeat(ctx context.Context) {
	if !s.monitor.IsOnline() {
		logger.LogDebug("💔 Skipping heartbeat - source is offline")
		return
	}

	if err := s.publisher.PublishStatusOnline(ctx); err != nil {
		logger.LogError("⚠️ Heartbeat failed: %v", err)
		return
	}
	logger.LogDebug("💓 Heartbeat sent: online")

	if err := s.publisher.PublishDiagnostic(ctx, 0, "ShockBurst bridge running"); err != nil {
		logger.LogDebug("⚠️ Diagnostic heartbeat failed: %v", err)
	}
}

// SendImmediateHeartbeat sends a heartbeat immediately (useful for startup)
func (s *HeartbeatService) SendImmediateHeartbeat(ctx context.Context) {
	s.sendHeartbeat(ctx)
}
