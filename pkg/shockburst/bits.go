package shockburst

import "shockburst-bridge/pkg/crc"

// layout locates the frame fields for one set of lengths and an alignment offset.
// Payload and CRC are shifted right by offset bits; address and preamble never are.
type layout struct {
	addressLength int
	payloadLength int
	crcLength     int
	offset        uint8
}

func (l layout) frameLength() int {
	return 1 + l.addressLength + l.payloadLength + l.crcLength
}

func (l layout) payloadBit() int {
	return 8*(1+l.addressLength) + int(l.offset)
}

// crcStart is the first frame byte touched by the CRC field
func (l layout) crcStart() int {
	return 1 + l.addressLength + l.payloadLength
}

func (l layout) crcBit() int {
	return 8*l.crcStart() + int(l.offset)
}

// crcBits is the width of the embedded CRC; only the top bits of the 16-bit register are sent
func (l layout) crcBits() int {
	n := 8 * l.crcLength
	if n > 16 {
		n = 16
	}
	return n
}

// embedded returns the part of a 16-bit CRC that goes on the wire
func (l layout) embedded(c uint16) uint32 {
	return uint32(c) >> uint(16-l.crcBits())
}

// frameCRC runs the CRC over address and payload as they sit in the frame. With a non-zero
// offset the payload spills offset bits into the first CRC byte; those are folded in as a
// partial byte.
func frameCRC(frame []byte, l layout) uint16 {
	end := l.crcStart()

	c := crc.UpdateBytes(crc.Init, frame[1:end])
	if l.offset > 0 && end < len(frame) {
		c = crc.Update(c, frame[end]&crc.HighMask(l.offset), l.offset)
	}
	return c
}

// orBits ORs the low n bits of v, MSB first, into buf starting at bit position pos.
// Bits past the end of buf are dropped.
func orBits(buf []byte, pos int, v uint32, n int) {
	for i := 0; i < n; i++ {
		p := pos + i
		idx := p / 8
		if idx >= len(buf) {
			return
		}
		if (v>>uint(n-1-i))&1 != 0 {
			buf[idx] |= 0x80 >> uint(p%8)
		}
	}
}

// readBits reads n bits, MSB first, starting at bit position pos. Bits past the end of buf
// read as zero.
func readBits(buf []byte, pos int, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		p := pos + i
		idx := p / 8
		v <<= 1
		if idx < len(buf) && buf[idx]&(0x80>>uint(p%8)) != 0 {
			v |= 1
		}
	}
	return v
}

// visibleBits is how many of n bits starting at pos fit inside a buffer of size bytes
func visibleBits(size, pos, n int) int {
	left := 8*size - pos
	if left < 0 {
		return 0
	}
	if left < n {
		return left
	}
	return n
}
