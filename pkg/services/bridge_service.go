package services

import (
	"context"
	"fmt"
	"time"

	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/health"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/scanner"
	"shockburst-bridge/pkg/source"
)

// BridgeService scans captures and forwards decoded packets to the publisher
type BridgeService struct {
	settings     scanner.Settings
	publisher    PublisherInterface
	monitor      *health.SourceMonitor
	tracker      *metrics.PerformanceTracker
	metrics      metrics.MetricsCollector
	errorHandler *errors.ErrorHandler
	log          logger.ILogger

	maxSourceFailures int
	retryDelay        time.Duration
}

// NewBridgeService creates a bridge service. OnMismatch in settings is replaced.
func NewBridgeService(
	settings scanner.Settings,
	publisher PublisherInterface,
	monitor *health.SourceMonitor,
	tracker *metrics.PerformanceTracker,
	m metrics.MetricsCollector,
	errorHandler *errors.ErrorHandler,
	log logger.ILogger,
) *BridgeService {
	if log == nil {
		log = logger.NewStandardLogger()
	}
	return &BridgeService{
		settings:     settings,
		publisher:    publisher,
		monitor:      monitor,
		tracker:      tracker,
		metrics:      m,
		errorHandler: errorHandler,
		log:          log,

		maxSourceFailures: 3,
		retryDelay:        time.Second,
	}
}

// Run drains src until it is exhausted or ctx is cancelled. A recoverable source error is
// retried until it repeats maxSourceFailures times without a packet decoded in between.
func (s *BridgeService) Run(ctx context.Context, src source.Source) error {
	settings := s.settings
	settings.OnMismatch = func(e scanner.MismatchEvent) {
		s.handleMismatch(ctx, e)
	}
	sc := scanner.New(settings, s.log, s.metrics)

	s.monitor.MarkOnline()
	s.log.LogInfo("🔄 Bridge service started with %d framing hypotheses", len(settings.Hypotheses))

	failures := 0
	for {
		err := sc.Run(ctx, src, func(r scanner.Result) error {
			failures = 0
			s.handleResult(ctx, r)
			return nil
		})
		s.tracker.PrintSummaryIfNeeded()

		if err == nil || ctx.Err() != nil {
			s.log.LogDebug("🔄 Bridge service stopped")
			return nil
		}

		failures++
		s.monitor.MarkOffline(err)
		s.errorHandler.Handle(ctx, err)

		if errors.IsRecoverable(err) && failures < s.maxSourceFailures {
			s.log.LogWarn("🔁 Retrying capture source in %v (failure %d of %d)",
				s.retryDelay, failures, s.maxSourceFailures)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.retryDelay):
			}
			s.monitor.MarkOnline()
			continue
		}

		if pubErr := s.publisher.PublishStatusOffline(ctx); pubErr != nil {
			s.log.LogError("⚠️ Error publishing offline status: %v", pubErr)
		}
		return fmt.Errorf("bridge stopped: %w", err)
	}
}

func (s *BridgeService) handleResult(ctx context.Context, r scanner.Result) {
	s.tracker.RecordDecoded()
	logger.LogTrace("📦 %s", r.Packet)

	if err := s.publisher.PublishPacket(ctx, r.Packet); err != nil {
		s.errorHandler.Handle(ctx, errors.NewMQTTError("publish packet", err, ""))
	}

	s.tracker.PrintSummaryIfNeeded()
}

func (s *BridgeService) handleMismatch(ctx context.Context, e scanner.MismatchEvent) {
	s.tracker.RecordMismatch()
	s.errorHandler.Handle(ctx, e.Err())

	if err := s.publisher.PublishMismatch(ctx, e.Mismatch); err != nil {
		s.log.LogDebug("⚠️ Error publishing CRC mismatch: %v", err)
	}
}
