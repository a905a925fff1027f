package shockburst

import "errors"

var (
	// ErrCRCMismatch is the expected outcome for most framing hypotheses tried against a
	// capture; callers retry with another hypothesis or buffer position.
	ErrCRCMismatch    = errors.New("shockburst: crc mismatch")
	ErrPayloadTooLong = errors.New("shockburst: payload too long")
	ErrTruncated      = errors.New("shockburst: raw buffer shorter than frame")
	ErrShortField     = errors.New("shockburst: field shorter than declared length")
)
