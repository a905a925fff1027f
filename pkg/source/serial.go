package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"shockburst-bridge/pkg/config"

	"github.com/tarm/serial"
)

// Port is a serial port as seen by sources and transmitters
type Port interface {
	io.ReadWriteCloser

	// Flush discards buffered input and output
	Flush() error
}

// OpenSerial opens a serial-attached sniffer or radio dongle
func OpenSerial(settings config.SerialSettings) (Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        settings.Device,
		Baud:        settings.Baud,
		ReadTimeout: settings.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", settings.Device, err)
	}
	return port, nil
}

// SerialSource turns a raw byte stream into captures. A capture ends when the chunk
// buffer is full or the port goes quiet for one read timeout. Captures are consecutive
// pieces of the same stream, so a frame may straddle two of them.
type SerialSource struct {
	port        io.ReadCloser
	chunkSize   int
	readTimeout time.Duration
}

// NewSerialSource reads captures of at most chunkSize bytes from port. readTimeout is the
// timeout the port was opened with: when it is zero an empty read means the stream has
// ended, otherwise it means the line was quiet for that long.
func NewSerialSource(port io.ReadCloser, chunkSize int, readTimeout time.Duration) *SerialSource {
	if chunkSize <= 0 {
		chunkSize = 64
	}
	return &SerialSource{port: port, chunkSize: chunkSize, readTimeout: readTimeout}
}

// Next blocks until a non-empty capture is available or ctx is cancelled. It returns
// io.EOF once the stream has ended and everything read has been handed out.
func (s *SerialSource) Next(ctx context.Context) ([]byte, error) {
	buf := make([]byte, s.chunkSize)
	filled := 0

	for filled < len(buf) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := s.port.Read(buf[filled:])
		filled += n
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("serial read failed: %w", err)
		}
		if n > 0 {
			continue
		}

		// tarm/serial reports a read timeout as an empty read with io.EOF
		if filled > 0 {
			break
		}
		if s.readTimeout == 0 {
			return nil, io.EOF
		}
	}

	return buf[:filled], nil
}

// Contiguous reports that captures are consecutive slices of one byte stream
func (s *SerialSource) Contiguous() bool { return true }

// Close closes the port
func (s *SerialSource) Close() error {
	return s.port.Close()
}
