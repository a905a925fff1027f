package metrics

import (
	"net/http"
	"time"
)

// MetricsCollector defines the interface for collecting application metrics.
//
// Implementations:
//   - PrometheusMetrics: Prometheus registry exposed over HTTP
//   - NullMetrics: no-op implementation when metrics are disabled
type MetricsCollector interface {
	// IncrementFramesScanned counts raw buffers taken from the byte source
	IncrementFramesScanned()

	// IncrementPacketsDecoded counts frames that passed the CRC check
	IncrementPacketsDecoded()

	// IncrementCRCMismatches counts CRC failures on frames carrying a known address
	IncrementCRCMismatches()

	IncrementMQTTPublishes()
	IncrementMQTTErrors()

	// SetSourceStatus records whether the byte source is currently readable
	SetSourceStatus(online bool)

	// ObserveScanDuration records how long one capture took to scan
	ObserveScanDuration(duration time.Duration)

	// Handler serves the metrics in the Prometheus text format
	Handler() http.Handler
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector
var _ MetricsCollector = (*PrometheusMetrics)(nil)
