package topics

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressKey renders a pipe address as the lowercase hex string used in topics and logs
func AddressKey(address []byte) string {
	return hex.EncodeToString(address)
}

// BuildPacketTopic constructs the topic decoded packets for one address are published on
// Pattern: {prefix}/{address_hex}
func BuildPacketTopic(prefix string, address []byte) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(prefix, "/"), AddressKey(address))
}

// BuildMismatchTopic constructs the topic CRC failures on a known address are reported on
// Pattern: {prefix}/{address_hex}/crc_error
func BuildMismatchTopic(prefix string, address []byte) string {
	return BuildPacketTopic(prefix, address) + "/crc_error"
}
