package errors

import (
	"fmt"
)

// ErrorSeverity defines the severity level of an error
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

// Diagnostic codes published alongside errors
const (
	CodeConfig     = 1
	CodeSource     = 2
	CodeFrame      = 3
	CodeMQTT       = 4
	CodeValidation = 5
	CodeGeneric    = 99
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// BridgeError is the base error type for all bridge errors
type BridgeError struct {
	Op       string        // Operation that failed
	Err      error         // Underlying error
	Severity ErrorSeverity // Error severity
	Code     int           // Diagnostic code for MQTT
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Severity, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Severity, e.Op)
}

// Unwrap returns the underlying error
func (e *BridgeError) Unwrap() error {
	return e.Err
}

// SourceError represents failures reading captures or writing frames to a device
type SourceError struct {
	BridgeError
	Device string
}

// NewSourceError creates a new source error
func NewSourceError(op string, err error, device string) *SourceError {
	return &SourceError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityError,
			Code:     CodeSource,
		},
		Device: device,
	}
}

// Error implements the error interface
func (e *SourceError) Error() string {
	return fmt.Sprintf("[%s] Source '%s': %s: %v", e.Severity, e.Device, e.Op, e.Err)
}

// FrameError describes a frame that was recognised but could not be decoded, typically a
// known address with a bad CRC
type FrameError struct {
	BridgeError
	Address       string // hex
	PayloadLength uint8
	Offset        int // byte offset inside the capture
}

// NewFrameError creates a new frame error. Frame errors are expected on a noisy channel and
// are reported as warnings.
func NewFrameError(op string, err error, address string, payloadLength uint8) *FrameError {
	return &FrameError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityWarning,
			Code:     CodeFrame,
		},
		Address:       address,
		PayloadLength: payloadLength,
	}
}

// Error implements the error interface
func (e *FrameError) Error() string {
	return fmt.Sprintf("[%s] Frame address %s (payload %d, offset %d): %s: %v",
		e.Severity, e.Address, e.PayloadLength, e.Offset, e.Op, e.Err)
}

// MQTTError represents errors from MQTT operations
type MQTTError struct {
	BridgeError
	Broker string
	Topic  string
	QoS    byte
}

// NewMQTTError creates a new MQTT error
func NewMQTTError(op string, err error, broker string) *MQTTError {
	return &MQTTError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityError,
			Code:     CodeMQTT,
		},
		Broker: broker,
	}
}

// Error implements the error interface
func (e *MQTTError) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("[%s] MQTT broker '%s' (topic: %s): %s: %v",
			e.Severity, e.Broker, e.Topic, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] MQTT broker '%s': %s: %v",
		e.Severity, e.Broker, e.Op, e.Err)
}

// ConfigError represents configuration errors
type ConfigError struct {
	BridgeError
	Field string
	Value interface{}
}

// NewConfigError creates a new configuration error
func NewConfigError(op string, err error, field string) *ConfigError {
	return &ConfigError{
		BridgeError: BridgeError{
			Op:       op,
			Err:      err,
			Severity: SeverityCritical, // Config errors are critical
			Code:     CodeConfig,
		},
		Field: field,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] Configuration field '%s': %s: %v",
			e.Severity, e.Field, e.Op, e.Err)
	}
	return fmt.Sprintf("[%s] Configuration: %s: %v",
		e.Severity, e.Op, e.Err)
}

// ValidationError represents validation errors
type ValidationError struct {
	BridgeError
	Field    string
	Expected interface{}
	Actual   interface{}
}

// NewValidationError creates a new validation error
func NewValidationError(field string, expected, actual interface{}) *ValidationError {
	return &ValidationError{
		BridgeError: BridgeError{
			Op:       "validation",
			Err:      fmt.Errorf("validation failed"),
			Severity: SeverityWarning,
			Code:     CodeValidation,
		},
		Field:    field,
		Expected: expected,
		Actual:   actual,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Field '%s': expected %v, got %v",
		e.Severity, e.Field, e.Expected, e.Actual)
}
