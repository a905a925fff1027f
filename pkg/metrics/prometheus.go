package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics tracks application metrics in a private Prometheus registry
type PrometheusMetrics struct {
	registry *prometheus.Registry

	FramesScanned  prometheus.Counter
	PacketsDecoded prometheus.Counter
	CRCMismatches  prometheus.Counter
	MQTTPublishes  prometheus.Counter
	MQTTErrors     prometheus.Counter
	SourceStatus   prometheus.Gauge
	ScanDuration   prometheus.Histogram
}

// NewPrometheusMetrics creates and registers all metrics
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	pm := &PrometheusMetrics{
		registry: registry,
		FramesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shockburst_frames_scanned_total",
			Help: "Total number of raw captures read from the byte source",
		}),
		PacketsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shockburst_packets_decoded_total",
			Help: "Total number of frames that passed the CRC check",
		}),
		CRCMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shockburst_crc_mismatches_total",
			Help: "Total number of CRC failures on frames with a known address",
		}),
		MQTTPublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shockburst_mqtt_publishes_total",
			Help: "Total number of MQTT publish operations",
		}),
		MQTTErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shockburst_mqtt_errors_total",
			Help: "Total number of MQTT publish errors",
		}),
		SourceStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shockburst_source_status",
			Help: "Current byte source status (1 = online, 0 = offline)",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shockburst_scan_duration_seconds",
			Help:    "Time spent scanning one capture for frames",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}

	registry.MustRegister(
		pm.FramesScanned,
		pm.PacketsDecoded,
		pm.CRCMismatches,
		pm.MQTTPublishes,
		pm.MQTTErrors,
		pm.SourceStatus,
		pm.ScanDuration,
	)
	pm.SourceStatus.Set(1) // Start as online

	return pm
}

func (pm *PrometheusMetrics) IncrementFramesScanned()  { pm.FramesScanned.Inc() }
func (pm *PrometheusMetrics) IncrementPacketsDecoded() { pm.PacketsDecoded.Inc() }
func (pm *PrometheusMetrics) IncrementCRCMismatches()  { pm.CRCMismatches.Inc() }
func (pm *PrometheusMetrics) IncrementMQTTPublishes()  { pm.MQTTPublishes.Inc() }
func (pm *PrometheusMetrics) IncrementMQTTErrors()     { pm.MQTTErrors.Inc() }

// SetSourceStatus sets the source status (1 = online, 0 = offline)
func (pm *PrometheusMetrics) SetSourceStatus(online bool) {
	if online {
		pm.SourceStatus.Set(1)
	} else {
		pm.SourceStatus.Set(0)
	}
}

// ObserveScanDuration records a scan duration
func (pm *PrometheusMetrics) ObserveScanDuration(duration time.Duration) {
	pm.ScanDuration.Observe(duration.Seconds())
}

// Handler implements the /metrics endpoint
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}
