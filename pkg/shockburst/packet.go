// Package shockburst assembles and validates Enhanced ShockBurst link-layer frames.
//
// Wire layout, MSB first:
//
//	[preamble:1][address:N][payload:M][crc:1-2]
//
// The CRC is CRC-16/CCITT over address and payload, seeded with 0xFFFF.
package shockburst

import (
	"fmt"
	"strings"
)

// Protocol constants
const (
	MaxPayloadLength = 32

	PreambleHigh byte = 0xAA // first address bit set
	PreambleLow  byte = 0x55
)

// Packet is one assembled frame together with its decoded fields.
// A Packet never changes after construction; accessors return copies.
type Packet struct {
	addressLength uint8
	payloadLength uint8
	crcLength     uint8

	// Reserved for the ESB variant with packet control fields. Not part of framing or CRC.
	sequenceNumber uint8
	noAck          bool
	bigPacket      bool

	address []byte
	payload []byte
	crc     []byte
	crcReg  uint16
	frame   []byte

	lengthBytes int
	lengthBits  int
}

// AddressLength returns the address size in bytes
func (p *Packet) AddressLength() uint8 { return p.addressLength }

// PayloadLength returns the payload size in bytes
func (p *Packet) PayloadLength() uint8 { return p.payloadLength }

// CRCLength returns the number of CRC bytes carried by the frame
func (p *Packet) CRCLength() uint8 { return p.crcLength }

// SequenceNumber returns the reserved packet-control sequence number
func (p *Packet) SequenceNumber() uint8 { return p.sequenceNumber }

// NoAck returns the reserved no-acknowledge flag
func (p *Packet) NoAck() bool { return p.noAck }

// BigPacket returns the reserved big-packet flag
func (p *Packet) BigPacket() bool { return p.bigPacket }

// LengthBytes returns the assembled frame size: preamble + address + payload + crc
func (p *Packet) LengthBytes() int { return p.lengthBytes }

// LengthBits returns LengthBytes in bits
func (p *Packet) LengthBits() int { return p.lengthBits }

// Address returns a copy of the address bytes
func (p *Packet) Address() []byte { return clone(p.address) }

// Payload returns a copy of the payload bytes
func (p *Packet) Payload() []byte { return clone(p.payload) }

// CRC returns the CRC bytes as sent on the wire (high byte first)
func (p *Packet) CRC() []byte { return clone(p.crc) }

// CRCValue returns the full 16-bit CRC register the embedded bytes were taken from
func (p *Packet) CRCValue() uint16 { return p.crcReg }

// Bytes returns a copy of the assembled frame, ready for transmission
func (p *Packet) Bytes() []byte { return clone(p.frame) }

// String renders the packet as a multi-line hex dump
func (p *Packet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Address: %s\n", hexBytes(p.address))
	fmt.Fprintf(&b, "Payload: %s\n", hexBytes(p.payload))
	fmt.Fprintf(&b, "CRC:     %s\n", hexBytes(p.crc))
	fmt.Fprintf(&b, "Bytes:   %s\n", hexBytes(p.frame))
	fmt.Fprintf(&b, "BP:      %t\n", p.bigPacket)
	fmt.Fprintf(&b, "NoACK:   %t\n", p.noAck)
	return b.String()
}

func hexBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, v := range data {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
