package shockburst

import "fmt"

// Fields are the inputs for assembling a frame.
// Lengths are trusted: apart from the payload limit no consistency checks are made, so a
// CRC length outside {1,2} or an address longer than the radio supports is assembled as given.
type Fields struct {
	AddressLength uint8
	PayloadLength uint8
	CRCLength     uint8

	SequenceNumber uint8
	NoAck          bool
	BigPacket      bool

	Address []byte
	Payload []byte
}

// New assembles a transmit-ready frame from f
func New(f Fields, opts ...Option) (*Packet, error) {
	if f.PayloadLength > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLong, f.PayloadLength, MaxPayloadLength)
	}
	if len(f.Address) < int(f.AddressLength) {
		return nil, fmt.Errorf("%w: address has %d bytes, need %d", ErrShortField, len(f.Address), f.AddressLength)
	}
	if len(f.Payload) < int(f.PayloadLength) {
		return nil, fmt.Errorf("%w: payload has %d bytes, need %d", ErrShortField, len(f.Payload), f.PayloadLength)
	}

	o := buildOptions(opts)
	l := layout{
		addressLength: int(f.AddressLength),
		payloadLength: int(f.PayloadLength),
		crcLength:     int(f.CRCLength),
		offset:        o.alignmentOffset,
	}

	address := clone(f.Address[:f.AddressLength])
	payload := clone(f.Payload[:f.PayloadLength])

	// Zeroed so that fields sharing a byte can be OR'ed in
	frame := make([]byte, l.frameLength())

	frame[0] = PreambleFor(address)
	copy(frame[1:], address)

	for i, b := range payload {
		orBits(frame, l.payloadBit()+8*i, uint32(b), 8)
	}

	c := frameCRC(frame, l)
	orBits(frame, l.crcBit(), l.embedded(c), l.crcBits())

	return &Packet{
		addressLength:  f.AddressLength,
		payloadLength:  f.PayloadLength,
		crcLength:      f.CRCLength,
		sequenceNumber: f.SequenceNumber,
		noAck:          f.NoAck,
		bigPacket:      f.BigPacket,
		address:        address,
		payload:        payload,
		crc:            crcBytes(c, l.crcLength),
		crcReg:         c,
		frame:          frame,
		lengthBytes:    len(frame),
		lengthBits:     8 * len(frame),
	}, nil
}

// PreambleFor picks the preamble whose last bit differs from the first address bit, so the
// receiver sees alternating bits up to the address.
func PreambleFor(address []byte) byte {
	if len(address) > 0 && address[0]&0x80 != 0 {
		return PreambleHigh
	}
	return PreambleLow
}

// crcBytes returns the first n bytes of c in wire order; bytes beyond the 16-bit register
// are zero.
func crcBytes(c uint16, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n && i < 2; i++ {
		out[i] = byte(c >> uint(8-8*i))
	}
	return out
}
