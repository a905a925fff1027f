package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestShouldLog(t *testing.T) {
	tests := []struct {
		current  string
		message  string
		expected bool
	}{
		{LogLevelInfo, LogLevelError, true},
		{LogLevelInfo, LogLevelInfo, true},
		{LogLevelInfo, LogLevelDebug, false},
		{LogLevelError, LogLevelWarn, false},
		{LogLevelTrace, LogLevelTrace, true},
		{"bogus", LogLevelTrace, true},
	}

	for _, tt := range tests {
		if got := shouldLog(tt.current, tt.message); got != tt.expected {
			t.Errorf("shouldLog(%q, %q) = %v, expected %v", tt.current, tt.message, got, tt.expected)
		}
	}
}

func TestConfigureFiltersByLevel(t *testing.T) {
	Configure(&LoggingConfig{Level: "warn"})
	defer Configure(&LoggingConfig{Level: "info"})

	var buf bytes.Buffer
	SetOutput(&buf)

	LogInfo("hidden %d", 1)
	LogWarn("shown %d", 2)
	LogError("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, "shown 3") {
		t.Errorf("expected warn and error messages, got %q", out)
	}
	if IsDebugEnabled() {
		t.Error("debug should be disabled at warn level")
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range []string{"error", "WARN", " info ", "debug", "trace"} {
		if !ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = false", l)
		}
	}
	if ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true")
	}
}

func TestMockLoggerRecordsFormattedMessages(t *testing.T) {
	m := NewMockLogger()
	var l ILogger = m

	l.LogWarn("crc mismatch at %d", 7)
	if !m.HasWarnMessage() {
		t.Fatal("expected a warn message")
	}
	if m.WarnMessages[0] != "crc mismatch at 7" {
		t.Errorf("WarnMessages[0] = %q", m.WarnMessages[0])
	}

	m.Reset()
	if m.HasWarnMessage() {
		t.Error("Reset() did not clear messages")
	}
}
