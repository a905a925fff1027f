package shockburst

import (
	"bytes"
	"fmt"
)

// Hypothesis is one guess at how a captured frame is laid out.
// CRCLength must be 1 or 2: a frame without CRC bytes cannot be validated, so TryParse
// rejects every buffer for it.
type Hypothesis struct {
	AddressLength uint8
	PayloadLength uint8
	CRCLength     uint8
}

// FrameLength returns the frame size in bytes the hypothesis implies
func (h Hypothesis) FrameLength() int {
	return 1 + int(h.AddressLength) + int(h.PayloadLength) + int(h.CRCLength)
}

func (h Hypothesis) String() string {
	return fmt.Sprintf("addr=%d payload=%d crc=%d", h.AddressLength, h.PayloadLength, h.CRCLength)
}

// Mismatch describes a frame that failed its CRC check while carrying a known address
type Mismatch struct {
	Address       []byte
	PayloadLength uint8
	Given         uint16
	Calculated    uint16
}

// TryParse decodes raw as a single frame laid out according to h. raw must start at the
// preamble byte; trailing bytes past the frame are ignored.
//
// The embedded CRC is compared with one recomputed over the raw address and payload bits.
// On mismatch ErrCRCMismatch is returned and no Packet is produced. The reserved sequence
// number, no-ACK and big-packet fields of a decoded Packet are always zero.
func TryParse(raw []byte, h Hypothesis, opts ...Option) (*Packet, error) {
	if h.PayloadLength > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLong, h.PayloadLength, MaxPayloadLength)
	}

	o := buildOptions(opts)
	l := layout{
		addressLength: int(h.AddressLength),
		payloadLength: int(h.PayloadLength),
		crcLength:     int(h.CRCLength),
		offset:        o.alignmentOffset,
	}

	if l.crcBits() == 0 {
		return nil, ErrCRCMismatch
	}
	if len(raw) < l.frameLength() {
		return nil, ErrTruncated
	}
	frame := raw[:l.frameLength()]

	address := frame[1 : 1+l.addressLength]

	payload := make([]byte, l.payloadLength)
	for i := range payload {
		payload[i] = byte(readBits(frame, l.payloadBit()+8*i, 8))
	}

	// CRC bits pushed past the frame end by the offset are not on the wire
	n := l.crcBits()
	drop := n - visibleBits(len(frame), l.crcBit(), n)
	given := readBits(frame, l.crcBit(), n) >> uint(drop)
	calculated := frameCRC(frame, l)

	if given != l.embedded(calculated)>>uint(drop) {
		if o.report != nil {
			reportCandidates(o, address, h.PayloadLength, uint16(given<<uint(drop)), l.embedded(calculated))
		}
		return nil, ErrCRCMismatch
	}

	return New(Fields{
		AddressLength: h.AddressLength,
		PayloadLength: h.PayloadLength,
		CRCLength:     h.CRCLength,
		Address:       address,
		Payload:       payload,
	}, opts...)
}

func reportCandidates(o options, address []byte, payloadLength uint8, given uint16, calculated uint32) {
	for _, candidate := range o.candidates {
		if len(candidate) == 0 || len(candidate) > len(address) {
			continue
		}
		if bytes.Equal(address[:len(candidate)], candidate) {
			o.report(Mismatch{
				Address:       clone(address),
				PayloadLength: payloadLength,
				Given:         given,
				Calculated:    uint16(calculated),
			})
			return
		}
	}
}
