package metrics

import (
	"sync"
	"time"

	"shockburst-bridge/pkg/logger"
)

// PerformanceTracker counts decoded packets and CRC failures between periodic summaries
type PerformanceTracker struct {
	decoded         int
	mismatched      int
	captures        int
	lastDecodeTime  time.Time
	lastSummaryTime time.Time
	summaryInterval time.Duration
	mu              sync.RWMutex
}

// PerformanceStats represents performance statistics
type PerformanceStats struct {
	Captures     int
	Decoded      int
	Mismatched   int
	LastSummary  time.Time
	MismatchRate float64
}

// NewPerformanceTracker creates a new performance tracker
func NewPerformanceTracker(summaryInterval time.Duration) *PerformanceTracker {
	return &PerformanceTracker{
		lastSummaryTime: time.Now(),
		summaryInterval: summaryInterval,
	}
}

// RecordCapture records one scanned capture
func (pt *PerformanceTracker) RecordCapture() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.captures++
}

// RecordDecoded records a frame that passed the CRC check
func (pt *PerformanceTracker) RecordDecoded() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.decoded++
	pt.lastDecodeTime = time.Now()
}

// RecordMismatch records a CRC failure on a known address
func (pt *PerformanceTracker) RecordMismatch() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.mismatched++
}

// GetStats returns current performance statistics
func (pt *PerformanceTracker) GetStats() PerformanceStats {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	var rate float64
	if total := pt.decoded + pt.mismatched; total > 0 {
		rate = float64(pt.mismatched) / float64(total) * 100.0
	}

	return PerformanceStats{
		Captures:     pt.captures,
		Decoded:      pt.decoded,
		Mismatched:   pt.mismatched,
		LastSummary:  pt.lastSummaryTime,
		MismatchRate: rate,
	}
}

// PrintSummaryIfNeeded logs a summary and resets the window once the interval has passed
func (pt *PerformanceTracker) PrintSummaryIfNeeded() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if time.Since(pt.lastSummaryTime) < pt.summaryInterval {
		return
	}

	logger.LogInfo("📊 Summary - Captures: %d, Decoded: %d, CRC errors: %d, Last %v",
		pt.captures,
		pt.decoded,
		pt.mismatched,
		pt.summaryInterval,
	)

	pt.lastSummaryTime = time.Now()
	pt.captures = 0
	pt.decoded = 0
	pt.mismatched = 0
}

// GetLastSuccessTime returns when the last packet was decoded
func (pt *PerformanceTracker) GetLastSuccessTime() time.Time {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.lastDecodeTime
}

// GetSuccessCount returns decoded packets in the current window
func (pt *PerformanceTracker) GetSuccessCount() int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.decoded
}

// GetErrorCount returns CRC failures in the current window
func (pt *PerformanceTracker) GetErrorCount() int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.mismatched
}
