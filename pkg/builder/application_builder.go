package builder

import (
	"fmt"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/health"
	healthhttp "shockburst-bridge/pkg/http"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/metrics"
	"shockburst-bridge/pkg/mqtt"
	"shockburst-bridge/pkg/scanner"
	"shockburst-bridge/pkg/services"
	"shockburst-bridge/pkg/source"
)

// Version is reported on /health
const Version = "1.0.0"

// ApplicationBuilder provides a fluent interface for constructing Application instances
type ApplicationBuilder struct {
	config          *config.Config
	source          source.Source
	publisher       services.PublisherInterface
	connection      mqtt.ConnectionManager
	metrics         metrics.MetricsCollector
	log             logger.ILogger
	summaryInterval time.Duration
}

// NewApplicationBuilder creates a new builder with default configuration
func NewApplicationBuilder(cfg *config.Config) *ApplicationBuilder {
	return &ApplicationBuilder{
		config:          cfg,
		summaryInterval: 30 * time.Second,
	}
}

// WithSource sets a custom capture source
func (b *ApplicationBuilder) WithSource(src source.Source) *ApplicationBuilder {
	b.source = src
	return b
}

// WithPublisher sets a custom publisher implementation
func (b *ApplicationBuilder) WithPublisher(pub services.PublisherInterface) *ApplicationBuilder {
	b.publisher = pub
	return b
}

// WithMetrics sets a custom metrics collector
func (b *ApplicationBuilder) WithMetrics(m metrics.MetricsCollector) *ApplicationBuilder {
	b.metrics = m
	return b
}

// WithLogger sets the logger handed to the services
func (b *ApplicationBuilder) WithLogger(log logger.ILogger) *ApplicationBuilder {
	b.log = log
	return b
}

// WithSummaryInterval sets how often decode summaries are logged
func (b *ApplicationBuilder) WithSummaryInterval(interval time.Duration) *ApplicationBuilder {
	b.summaryInterval = interval
	return b
}

// Build constructs the Application with all dependencies.
// Default implementations are created for any missing dependency.
func (b *ApplicationBuilder) Build() (*Application, error) {
	if b.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := b.config

	if b.log == nil {
		b.log = logger.NewStandardLogger()
	}

	if b.metrics == nil {
		if cfg.MetricsPort > 0 {
			b.metrics = metrics.NewPrometheusMetrics()
		} else {
			b.metrics = metrics.NewNullMetrics()
		}
	}

	if b.publisher == nil {
		if cfg.MQTT.Enabled {
			pub := mqtt.NewPublisher(config.NewMQTTSettings(cfg), b.metrics)
			b.publisher = pub
			b.connection = pub
		} else {
			b.publisher = mqtt.NewLogPublisher(b.log)
		}
	}

	candidates, err := cfg.Radio.Candidates()
	if err != nil {
		return nil, errors.NewConfigError("parse candidate addresses", err, "radio.candidate_addresses")
	}

	if b.source == nil {
		src, err := source.Open(cfg)
		if err != nil {
			return nil, errors.NewSourceError("open source", err, sourceName(cfg))
		}
		b.source = src
	}

	tracker := metrics.NewPerformanceTracker(b.summaryInterval)
	monitor := health.NewSourceMonitor(tracker)
	errorHandler := errors.NewErrorHandler(b.publisher, b.log)

	settings := scanner.Settings{
		Hypotheses:         cfg.Radio.Hypotheses(),
		AlignmentOffset:    cfg.Radio.AlignmentOffset,
		CandidateAddresses: candidates,
	}

	app := &Application{
		config:       cfg,
		source:       b.source,
		publisher:    b.publisher,
		connection:   b.connection,
		metrics:      b.metrics,
		tracker:      tracker,
		monitor:      monitor,
		errorHandler: errorHandler,
		bridge: services.NewBridgeService(settings, b.publisher, monitor, tracker,
			b.metrics, errorHandler, b.log),
		log: b.log,
	}

	if interval := time.Duration(cfg.MQTT.HeartbeatInterval) * time.Second; cfg.MQTT.Enabled && interval > 0 {
		app.heartbeat = services.NewHeartbeatService(b.publisher, monitor, interval)
	}

	if cfg.MetricsPort > 0 {
		app.server = healthhttp.NewServer(cfg.MetricsPort,
			healthhttp.NewHealthHandler(monitor, Version), b.metrics.Handler())
	}

	return app, nil
}

// sourceName names the configured source for error messages
func sourceName(cfg *config.Config) string {
	switch cfg.Source.Type {
	case config.SourceSerial:
		return cfg.Source.Device
	case config.SourceFile:
		return cfg.Source.Path
	default:
		return cfg.Source.Type
	}
}
