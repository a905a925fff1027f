package source

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"shockburst-bridge/pkg/shockburst"
)

// Transmitter sends assembled frames toward the air
type Transmitter interface {
	Transmit(ctx context.Context, packet *shockburst.Packet) error
}

// WriterTransmitter writes each frame as one line of hex, the format HexLineSource reads back
type WriterTransmitter struct {
	w io.Writer
}

// NewWriterTransmitter creates a transmitter writing to w
func NewWriterTransmitter(w io.Writer) *WriterTransmitter {
	return &WriterTransmitter{w: w}
}

// Transmit writes the frame bytes as a hex line
func (t *WriterTransmitter) Transmit(ctx context.Context, packet *shockburst.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.w, hex.EncodeToString(packet.Bytes()))
	return err
}

// SerialTransmitter writes raw frame bytes to a serial radio dongle
type SerialTransmitter struct {
	port Port
}

// NewSerialTransmitter creates a transmitter on an open port
func NewSerialTransmitter(port Port) *SerialTransmitter {
	return &SerialTransmitter{port: port}
}

// Transmit writes the frame and flushes the port
func (t *SerialTransmitter) Transmit(ctx context.Context, packet *shockburst.Packet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	frame := packet.Bytes()
	n, err := t.port.Write(frame)
	if err != nil {
		return fmt.Errorf("serial write failed: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("serial write short: %d of %d bytes", n, len(frame))
	}
	return t.port.Flush()
}

// Close closes the port
func (t *SerialTransmitter) Close() error {
	return t.port.Close()
}
