package mqtt

import (
	"encoding/hex"
	"fmt"
	"time"

	"shockburst-bridge/pkg/shockburst"
)

// PacketMessage is the JSON document published for every decoded packet
type PacketMessage struct {
	Address        string    `json:"address"`
	Payload        string    `json:"payload"`
	CRC            string    `json:"crc"`
	Frame          string    `json:"frame"`
	AddressLength  int       `json:"address_length"`
	PayloadLength  int       `json:"payload_length"`
	CRCLength      int       `json:"crc_length"`
	SequenceNumber uint8     `json:"sequence_number"`
	NoAck          bool      `json:"no_ack"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewPacketMessage renders a packet for publishing
func NewPacketMessage(p *shockburst.Packet, now time.Time) PacketMessage {
	return PacketMessage{
		Address:        hex.EncodeToString(p.Address()),
		Payload:        hex.EncodeToString(p.Payload()),
		CRC:            hex.EncodeToString(p.CRC()),
		Frame:          hex.EncodeToString(p.Bytes()),
		AddressLength:  int(p.AddressLength()),
		PayloadLength:  int(p.PayloadLength()),
		CRCLength:      int(p.CRCLength()),
		SequenceNumber: p.SequenceNumber(),
		NoAck:          p.NoAck(),
		Timestamp:      now.UTC(),
	}
}

// MismatchMessage reports a frame on a known address that failed its CRC check
type MismatchMessage struct {
	Address       string    `json:"address"`
	PayloadLength int       `json:"payload_length"`
	Given         string    `json:"given"`
	Calculated    string    `json:"calculated"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewMismatchMessage renders a CRC mismatch for publishing
func NewMismatchMessage(m shockburst.Mismatch, now time.Time) MismatchMessage {
	return MismatchMessage{
		Address:       hex.EncodeToString(m.Address),
		PayloadLength: int(m.PayloadLength),
		Given:         fmt.Sprintf("%04x", m.Given),
		Calculated:    fmt.Sprintf("%04x", m.Calculated),
		Timestamp:     now.UTC(),
	}
}

// DiagnosticMessage is the JSON document published on the diagnostic topic
type DiagnosticMessage struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
