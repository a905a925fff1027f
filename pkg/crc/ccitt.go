package crc

import "github.com/sigurn/crc16"

// CRC-16/CCITT parameters used by Enhanced ShockBurst frames
const (
	Poly uint16 = 0x1021
	Init uint16 = 0xFFFF
)

var ccittTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Update folds the top bits of data into crc, one polynomial step per bit.
// bits is the number of significant high-order bits of data (1..8); values above 8 are
// treated as 8. Callers folding a partial byte must clear the low (8 - bits) bits of data
// first, otherwise they leak into the register.
func Update(crc uint16, data byte, bits uint8) uint16 {
	if bits > 8 {
		bits = 8
	}

	crc ^= uint16(data) << 8
	for i := uint8(0); i < bits; i++ {
		if crc&0x8000 != 0 {
			crc = (crc << 1) ^ Poly
		} else {
			crc <<= 1
		}
	}

	return crc
}

// UpdateByte folds a whole byte into crc
func UpdateByte(crc uint16, data byte) uint16 {
	return Update(crc, data, 8)
}

// UpdateBytes folds whole bytes into crc through the CCITT lookup table
func UpdateBytes(crc uint16, data []byte) uint16 {
	return crc16.Update(crc, data, ccittTable)
}

// Checksum calculates the byte-wise CRC-16/CCITT (CCITT-FALSE variant) of data
func Checksum(data []byte) uint16 {
	return crc16.Checksum(data, ccittTable)
}

// ChecksumBits calculates the CRC of data where only the top lastBits bits of the final
// byte are significant. lastBits of 8 gives the same result as Checksum.
func ChecksumBits(data []byte, lastBits uint8) uint16 {
	if len(data) == 0 {
		return Init
	}

	crc := UpdateBytes(Init, data[:len(data)-1])

	if lastBits == 0 {
		return crc
	}
	return Update(crc, data[len(data)-1]&HighMask(lastBits), lastBits)
}

// HighMask returns a byte mask selecting the top n bits (n in 0..8)
func HighMask(n uint8) byte {
	if n >= 8 {
		return 0xFF
	}
	return ^byte(0xFF >> n)
}
