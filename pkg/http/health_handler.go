package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status        string    `json:"status"`            // "healthy", "degraded", "unhealthy"
	Timestamp     time.Time `json:"timestamp"`         // Current timestamp
	Uptime        string    `json:"uptime"`            // Application uptime
	SourceOnline  bool      `json:"source_online"`     // Byte source status
	LastPacket    string    `json:"last_packet"`       // Time since the last decoded packet
	CRCErrorCount int       `json:"crc_error_count"`   // CRC failures in the current window
	DecodedCount  int       `json:"decoded_count"`     // Decoded packets in the current window
	Version       string    `json:"version,omitempty"` // Application version (optional)
}

// HealthChecker provides health information
type HealthChecker interface {
	IsOnline() bool
	GetLastSuccessTime() time.Time
	GetErrorCount() int
	GetSuccessCount() int
}

// HealthHandler provides HTTP health check endpoint
type HealthHandler struct {
	startTime     time.Time
	healthChecker HealthChecker
	version       string
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(healthChecker HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		startTime:     time.Now(),
		healthChecker: healthChecker,
		version:       version,
	}
}

// ServeHTTP implements http.Handler interface for /health endpoint
func (hh *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := hh.getHealthStatus()

	w.Header().Set("Content-Type", "application/json")

	// Degraded still answers 200
	statusCode := http.StatusOK
	if status.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(status); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode health status: %v", err), http.StatusInternalServerError)
	}
}

func (hh *HealthHandler) getHealthStatus() HealthStatus {
	now := time.Now()

	isOnline := hh.healthChecker.IsOnline()
	lastSuccess := hh.healthChecker.GetLastSuccessTime()
	errorCount := hh.healthChecker.GetErrorCount()
	successCount := hh.healthChecker.GetSuccessCount()

	lastPacket := "never"
	if !lastSuccess.IsZero() {
		lastPacket = formatDuration(now.Sub(lastSuccess)) + " ago"
	}

	// A noisy channel shows up as a high CRC error rate
	status := "healthy"
	if !isOnline {
		status = "unhealthy"
	} else if total := errorCount + successCount; errorCount > 0 && total > 0 {
		errorRate := float64(errorCount) / float64(total) * 100.0
		if errorRate > 50.0 {
			status = "unhealthy"
		} else if errorRate > 20.0 {
			status = "degraded"
		}
	}

	return HealthStatus{
		Status:        status,
		Timestamp:     now,
		Uptime:        formatDuration(now.Sub(hh.startTime)),
		SourceOnline:  isOnline,
		LastPacket:    lastPacket,
		CRCErrorCount: errorCount,
		DecodedCount:  successCount,
		Version:       hh.version,
	}
}

// formatDuration formats a duration in human-readable form
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours %d minutes", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%d days %d hours", int(d.Hours())/24, int(d.Hours())%24)
	}
}

// NewServer builds the HTTP server exposing /health and /metrics.
// metrics may be nil when metrics are disabled.
func NewServer(port int, health *HealthHandler, metrics http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html>
<head><title>ShockBurst Bridge</title></head>
<body>
<h1>ShockBurst Bridge</h1>
<ul>
<li><a href="/health">Health Check</a></li>
<li><a href="/metrics">Metrics</a> (if enabled)</li>
</ul>
</body>
</html>`)
	})

	// Secure timeout settings (gosec G114)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
