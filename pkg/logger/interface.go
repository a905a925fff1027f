package logger

import (
	"fmt"
	"sync"
)

// ILogger is an interface for dependency injection
// Allows testing with mock loggers and flexibility in log implementation
type ILogger interface {
	LogInfo(format string, args ...interface{})
	LogWarn(format string, args ...interface{})
	LogError(format string, args ...interface{})
	LogDebug(format string, args ...interface{})
}

// StandardLogger implements ILogger interface using the global logger functions
type StandardLogger struct{}

// NewStandardLogger creates a logger that uses global logger functions
func NewStandardLogger() ILogger {
	return &StandardLogger{}
}

func (l *StandardLogger) LogInfo(format string, args ...interface{})  { LogInfo(format, args...) }
func (l *StandardLogger) LogWarn(format string, args ...interface{})  { LogWarn(format, args...) }
func (l *StandardLogger) LogError(format string, args ...interface{}) { LogError(format, args...) }
func (l *StandardLogger) LogDebug(format string, args ...interface{}) { LogDebug(format, args...) }

// MockLogger is a logger for testing that records formatted log messages
type MockLogger struct {
	mu            sync.Mutex
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
	DebugMessages []string
}

// NewMockLogger creates a new mock logger for testing
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) record(dst *[]string, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

// LogInfo records an info message
func (l *MockLogger) LogInfo(format string, args ...interface{}) {
	l.record(&l.InfoMessages, format, args)
}

// LogWarn records a warning message
func (l *MockLogger) LogWarn(format string, args ...interface{}) {
	l.record(&l.WarnMessages, format, args)
}

// LogError records an error message
func (l *MockLogger) LogError(format string, args ...interface{}) {
	l.record(&l.ErrorMessages, format, args)
}

// LogDebug records a debug message
func (l *MockLogger) LogDebug(format string, args ...interface{}) {
	l.record(&l.DebugMessages, format, args)
}

// Reset clears all recorded messages
func (l *MockLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoMessages = l.InfoMessages[:0]
	l.WarnMessages = l.WarnMessages[:0]
	l.ErrorMessages = l.ErrorMessages[:0]
	l.DebugMessages = l.DebugMessages[:0]
}

func (l *MockLogger) HasInfoMessage() bool  { return l.count(&l.InfoMessages) > 0 }
func (l *MockLogger) HasWarnMessage() bool  { return l.count(&l.WarnMessages) > 0 }
func (l *MockLogger) HasErrorMessage() bool { return l.count(&l.ErrorMessages) > 0 }
func (l *MockLogger) HasDebugMessage() bool { return l.count(&l.DebugMessages) > 0 }

func (l *MockLogger) count(msgs *[]string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(*msgs)
}
