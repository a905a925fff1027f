package metrics

import (
	"net/http"
	"time"
)

// NullMetrics is a no-op implementation of MetricsCollector.
// Use this when metrics are disabled (metrics_port = 0).
type NullMetrics struct{}

// NewNullMetrics creates a new NullMetrics instance
func NewNullMetrics() *NullMetrics {
	return &NullMetrics{}
}

func (nm *NullMetrics) IncrementFramesScanned()                    {}
func (nm *NullMetrics) IncrementPacketsDecoded()                   {}
func (nm *NullMetrics) IncrementCRCMismatches()                    {}
func (nm *NullMetrics) IncrementMQTTPublishes()                    {}
func (nm *NullMetrics) IncrementMQTTErrors()                       {}
func (nm *NullMetrics) SetSourceStatus(online bool)                {}
func (nm *NullMetrics) ObserveScanDuration(duration time.Duration) {}

// Handler always answers 404
func (nm *NullMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}

// Compile-time verification that NullMetrics implements MetricsCollector
var _ MetricsCollector = (*NullMetrics)(nil)
