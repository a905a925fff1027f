package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/shockburst"
)

// TestFrameErrorCreation tests creating FrameError
func TestFrameErrorCreation(t *testing.T) {
	frameErr := NewFrameError("parse", shockburst.ErrCRCMismatch, "E7E7E7", 2)
	frameErr.Offset = 12

	if frameErr.Severity != SeverityWarning {
		t.Errorf("Expected SeverityWarning, got %s", frameErr.Severity)
	}
	if frameErr.Code != CodeFrame {
		t.Errorf("Expected Code %d, got %d", CodeFrame, frameErr.Code)
	}
	if !errors.Is(frameErr, shockburst.ErrCRCMismatch) {
		t.Error("Expected FrameError to wrap ErrCRCMismatch")
	}

	errMsg := frameErr.Error()
	if errMsg == "" {
		t.Error("Expected non-empty error message")
	}
	t.Logf("FrameError message: %s", errMsg)
}

// TestMQTTErrorCreation tests creating MQTTError
func TestMQTTErrorCreation(t *testing.T) {
	baseErr := fmt.Errorf("connection timeout")
	mqttErr := NewMQTTError("connect", baseErr, "localhost:1883")
	mqttErr.Topic = "shockburst/packets/E7E7E7"
	mqttErr.QoS = 1

	if mqttErr.Broker != "localhost:1883" {
		t.Errorf("Expected Broker 'localhost:1883', got '%s'", mqttErr.Broker)
	}
	if mqttErr.QoS != 1 {
		t.Errorf("Expected QoS 1, got %d", mqttErr.QoS)
	}
	if mqttErr.Error() == "" {
		t.Error("Expected non-empty error message")
	}
}

// TestErrorUnwrapping tests error unwrapping
func TestErrorUnwrapping(t *testing.T) {
	baseErr := fmt.Errorf("base error")
	sourceErr := NewSourceError("read", baseErr, "/dev/ttyACM0")

	if errors.Unwrap(sourceErr) != baseErr {
		t.Error("Expected to unwrap to base error")
	}
}

// TestErrorSeverity tests error severity levels
func TestErrorSeverity(t *testing.T) {
	sourceErr := NewSourceError("test", fmt.Errorf("test error"), "device")
	if sourceErr.Severity != SeverityError {
		t.Errorf("Expected SeverityError, got %s", sourceErr.Severity)
	}

	configErr := NewConfigError("test", fmt.Errorf("test error"), "field")
	if configErr.Severity != SeverityCritical {
		t.Errorf("Expected SeverityCritical, got %s", configErr.Severity)
	}

	validationErr := NewValidationError("field", "expected", "actual")
	if validationErr.Severity != SeverityWarning {
		t.Errorf("Expected SeverityWarning, got %s", validationErr.Severity)
	}
}

// TestRecoverabilityAndCodes tests IsRecoverable and GetDiagnosticCode
func TestRecoverabilityAndCodes(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		recoverable bool
		code        int
	}{
		{"nil", nil, true, 0},
		{"config", NewConfigError("load", fmt.Errorf("x"), "radio.crc_length"), false, CodeConfig},
		{"source", NewSourceError("read", fmt.Errorf("x"), "stdin"), true, CodeSource},
		{"frame", NewFrameError("parse", shockburst.ErrCRCMismatch, "E7", 1), true, CodeFrame},
		{"mqtt", NewMQTTError("publish", fmt.Errorf("x"), "broker"), true, CodeMQTT},
		{"validation", NewValidationError("f", 1, 2), true, CodeValidation},
		{"untyped", fmt.Errorf("plain"), true, CodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.err); got != tt.recoverable {
				t.Errorf("IsRecoverable() = %v, expected %v", got, tt.recoverable)
			}
			if got := GetDiagnosticCode(tt.err); got != tt.code {
				t.Errorf("GetDiagnosticCode() = %d, expected %d", got, tt.code)
			}
		})
	}
}

type recordingPublisher struct {
	codes    []int
	messages []string
}

func (r *recordingPublisher) PublishDiagnostic(ctx context.Context, code int, message string) error {
	r.codes = append(r.codes, code)
	r.messages = append(r.messages, message)
	return nil
}

// TestErrorHandlerRouting tests that errors are logged by severity and published
func TestErrorHandlerRouting(t *testing.T) {
	pub := &recordingPublisher{}
	log := logger.NewMockLogger()
	h := NewErrorHandler(pub, log)
	ctx := context.Background()

	h.Handle(ctx, NewFrameError("parse", shockburst.ErrCRCMismatch, "E7E7E7", 2))
	if !log.HasWarnMessage() {
		t.Error("Expected frame error to be logged as warning")
	}

	h.Handle(ctx, NewSourceError("read", fmt.Errorf("eof"), "stdin"))
	if !log.HasErrorMessage() {
		t.Error("Expected source error to be logged as error")
	}

	h.Handle(ctx, NewMQTTError("publish", fmt.Errorf("down"), "broker"))
	h.Handle(ctx, nil)

	if len(pub.codes) != 2 || pub.codes[0] != CodeFrame || pub.codes[1] != CodeSource {
		t.Errorf("Unexpected published codes: %v", pub.codes)
	}
}
