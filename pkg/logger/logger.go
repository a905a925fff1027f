package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel constants
const (
	LogLevelError = "error"
	LogLevelWarn  = "warn"
	LogLevelInfo  = "info"
	LogLevelDebug = "debug"
	LogLevelTrace = "trace"
)

// levels in increasing verbosity
var levels = []string{LogLevelError, LogLevelWarn, LogLevelInfo, LogLevelDebug, LogLevelTrace}

// LoggingConfig represents the logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

var (
	mu           sync.RWMutex
	globalLevel  = LogLevelInfo
	globalLogger = log.New(os.Stdout, "", log.LstdFlags)
	logFile      *os.File
)

// Configure installs config as the global logging setup. An unreadable log file falls back
// to stdout.
func Configure(config *LoggingConfig) {
	level := normalizeLevel(config.Level)

	var output io.Writer = os.Stdout
	var file *os.File
	if config.File != "" {
		var err error
		// Use 0600 permissions (owner read/write only) for security
		file, err = os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			log.Printf("Failed to open log file %s: %v", config.File, err)
			file = nil
		} else {
			output = file
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	globalLevel = level
	globalLogger = log.New(output, "", log.LstdFlags)
}

// SetOutput redirects global logging, mainly for tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger.SetOutput(w)
}

// ValidLevel reports whether level names a known verbosity
func ValidLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" || !ValidLevel(level) {
		return LogLevelInfo // Default to INFO
	}
	return level
}

// shouldLog checks if a message should be logged based on current level
func shouldLog(currentLevel, messageLevel string) bool {
	currentIndex := -1
	messageIndex := -1

	for i, level := range levels {
		if level == currentLevel {
			currentIndex = i
		}
		if level == messageLevel {
			messageIndex = i
		}
	}

	// If either level is not found, default to allowing the message
	if currentIndex == -1 || messageIndex == -1 {
		return true
	}

	return messageIndex <= currentIndex
}

func logAt(messageLevel, prefix, format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if shouldLog(globalLevel, messageLevel) {
		globalLogger.Output(3, prefix+fmt.Sprintf(format, args...))
	}
}

// LogStartup logs startup messages that should always be visible regardless of log level
func LogStartup(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Printf("🔧 "+format, args...)
}

func LogError(format string, args ...interface{}) {
	logAt(LogLevelError, "❌ ", format, args...)
}

func LogWarn(format string, args ...interface{}) {
	logAt(LogLevelWarn, "⚠️ ", format, args...)
}

func LogInfo(format string, args ...interface{}) {
	logAt(LogLevelInfo, "ℹ️ ", format, args...)
}

func LogDebug(format string, args ...interface{}) {
	logAt(LogLevelDebug, "🔧 ", format, args...)
}

func LogTrace(format string, args ...interface{}) {
	logAt(LogLevelTrace, "🔍 ", format, args...)
}

// IsDebugEnabled checks if debug logging is enabled
func IsDebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return shouldLog(globalLevel, LogLevelDebug)
}

// IsTraceEnabled checks if trace logging is enabled
func IsTraceEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return shouldLog(globalLevel, LogLevelTrace)
}
