package errors

import (
	"context"
	"fmt"
	"shockburst-bridge/pkg/logger"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	diagnosticPublisher DiagnosticPublisher
	log                 logger.ILogger
}

// DiagnosticPublisher interface for publishing diagnostics
type DiagnosticPublisher interface {
	PublishDiagnostic(ctx context.Context, code int, message string) error
}

// NewErrorHandler creates a new error handler. publisher may be nil.
func NewErrorHandler(publisher DiagnosticPublisher, log logger.ILogger) *ErrorHandler {
	if log == nil {
		log = logger.NewStandardLogger()
	}
	return &ErrorHandler{
		diagnosticPublisher: publisher,
		log:                 log,
	}
}

// Handle processes an error with appropriate logging and diagnostics
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	code := GetDiagnosticCode(err)
	switch e := err.(type) {
	case *SourceError:
		h.logBySeverity("Source", e.Severity, e.Error())
		h.publish(ctx, code, fmt.Sprintf("Source '%s': %s", e.Device, e.Op))
	case *FrameError:
		h.logBySeverity("Frame", e.Severity, e.Error())
		h.publish(ctx, code, fmt.Sprintf("Frame %s (payload %d): %s", e.Address, e.PayloadLength, e.Op))
	case *MQTTError:
		// Publishing the failure over the broker that just failed is pointless
		h.logBySeverity("MQTT", e.Severity, e.Error())
	case *ConfigError:
		// Config errors are always critical
		h.log.LogError("🔴 CRITICAL Configuration Error: %s", e.Error())
		h.publish(ctx, code, fmt.Sprintf("Config field '%s': %s", e.Field, e.Op))
	case *ValidationError:
		h.log.LogWarn("⚠️ Validation Error: %s", e.Error())
		h.publish(ctx, code, fmt.Sprintf("Validation failed for '%s'", e.Field))
	case *BridgeError:
		h.logBySeverity("", e.Severity, e.Error())
		h.publish(ctx, code, e.Op)
	default:
		h.log.LogError("❌ Untyped Error: %v", err)
		h.publish(ctx, code, err.Error())
	}
}

func (h *ErrorHandler) logBySeverity(kind string, severity ErrorSeverity, message string) {
	if kind != "" {
		kind += " "
	}
	switch severity {
	case SeverityCritical:
		h.log.LogError("🔴 CRITICAL %sError: %s", kind, message)
	case SeverityError:
		h.log.LogError("❌ %sError: %s", kind, message)
	case SeverityWarning:
		h.log.LogWarn("⚠️ %sWarning: %s", kind, message)
	default:
		h.log.LogInfo("ℹ️ %sInfo: %s", kind, message)
	}
}

func (h *ErrorHandler) publish(ctx context.Context, code int, message string) {
	if h.diagnosticPublisher == nil {
		return
	}
	if err := h.diagnosticPublisher.PublishDiagnostic(ctx, code, message); err != nil {
		h.log.LogDebug("Failed to publish diagnostic %d: %v", code, err)
	}
}

// IsRecoverable returns true if the error is recoverable
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	switch e := err.(type) {
	case *ConfigError:
		return false // Config errors are not recoverable
	case *BridgeError:
		return e.Severity != SeverityCritical
	case *SourceError:
		return e.Severity != SeverityCritical
	case *FrameError:
		return true
	case *MQTTError:
		return e.Severity != SeverityCritical
	default:
		return true // Unknown errors are assumed recoverable
	}
}

// GetDiagnosticCode extracts the diagnostic code from an error
func GetDiagnosticCode(err error) int {
	if err == nil {
		return 0
	}

	switch e := err.(type) {
	case *SourceError:
		return e.Code
	case *FrameError:
		return e.Code
	case *MQTTError:
		return e.Code
	case *ConfigError:
		return e.Code
	case *ValidationError:
		return e.Code
	case *BridgeError:
		return e.Code
	default:
		return CodeGeneric
	}
}
