package health

import (
	"sync"
	"time"

	"shockburst-bridge/pkg/metrics"
)

// SourceMonitor tracks whether the capture source is readable and exposes the decode
// counters behind the /health endpoint
type SourceMonitor struct {
	isOnline      bool
	lastError     error
	lastErrorTime time.Time
	tracker       *metrics.PerformanceTracker
	mu            sync.RWMutex
}

// NewSourceMonitor creates a monitor reading its counters from tracker
func NewSourceMonitor(tracker *metrics.PerformanceTracker) *SourceMonitor {
	return &SourceMonitor{tracker: tracker}
}

// IsOnline returns whether the source is currently marked as online
func (m *SourceMonitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isOnline
}

// MarkOnline marks the source as readable
func (m *SourceMonitor) MarkOnline() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isOnline = true
}

// MarkOffline marks the source as failed with err
func (m *SourceMonitor) MarkOffline(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isOnline = false
	m.lastError = err
	m.lastErrorTime = time.Now()
}

// LastError returns the error that took the source offline and when it happened
func (m *SourceMonitor) LastError() (error, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError, m.lastErrorTime
}

// GetLastSuccessTime returns when the last packet was decoded
func (m *SourceMonitor) GetLastSuccessTime() time.Time {
	return m.tracker.GetLastSuccessTime()
}

// GetErrorCount returns CRC failures in the current summary window
func (m *SourceMonitor) GetErrorCount() int {
	return m.tracker.GetErrorCount()
}

// GetSuccessCount returns decoded packets in the current summary window
func (m *SourceMonitor) GetSuccessCount() int {
	return m.tracker.GetSuccessCount()
}
