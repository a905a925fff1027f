package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"shockburst-bridge/pkg/errors"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/shockburst"

	"gopkg.in/yaml.v3"
)

// Source types
const (
	SourceFile   = "file"
	SourceStdin  = "stdin"
	SourceSerial = "serial"
)

// Config represents the complete application configuration
type Config struct {
	Version     string               `yaml:"version,omitempty"` // Configuration version (optional, default 1.0)
	Radio       RadioConfig          `yaml:"radio"`
	Source      SourceConfig         `yaml:"source"`
	MQTT        MQTTConfig           `yaml:"mqtt"`
	MetricsPort int                  `yaml:"metrics_port"` // 0 disables /metrics and /health
	Logging     logger.LoggingConfig `yaml:"logging"`
}

// RadioConfig describes the framing hypotheses tried against every capture
type RadioConfig struct {
	AddressLength      uint8    `yaml:"address_length"`
	PayloadLengths     []uint8  `yaml:"payload_lengths"` // Tried in order
	CRCLength          uint8    `yaml:"crc_length"`
	AlignmentOffset    uint8    `yaml:"alignment_offset"`    // Bits; only 0 is verified
	CandidateAddresses []string `yaml:"candidate_addresses"` // Hex, reported on CRC errors
}

// SourceConfig selects where raw captures come from
type SourceConfig struct {
	Type        string `yaml:"type"`         // file, stdin or serial
	Path        string `yaml:"path"`         // Hex capture file for type=file
	Device      string `yaml:"device"`       // Serial device for type=serial
	Baud        int    `yaml:"baud"`         // Serial baud rate
	ReadTimeout int    `yaml:"read_timeout"` // Serial read timeout in milliseconds
	ChunkSize   int    `yaml:"chunk_size"`   // Bytes per serial capture
}

// MQTTConfig contains MQTT broker and topic settings
type MQTTConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Broker            string `yaml:"broker"`
	Port              int    `yaml:"port"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	ClientID          string `yaml:"client_id"`
	RetryDelay        int    `yaml:"retry_delay"`        // Delay between connection retries in milliseconds
	KeepAlive         int    `yaml:"keep_alive"`         // Seconds
	HeartbeatInterval int    `yaml:"heartbeat_interval"` // Seconds, 0 disables
	QoS               byte   `yaml:"qos"`
	TopicPrefix       string `yaml:"topic_prefix"`     // Packets go to <prefix>/<address>
	StatusTopic       string `yaml:"status_topic"`     // Bridge availability topic
	DiagnosticTopic   string `yaml:"diagnostic_topic"` // Bridge diagnostics topic
}

// LoadConfig loads configuration from specified file with version detection
func LoadConfig(configPath string) (*Config, error) {
	// Try to find configuration file in different locations
	paths := []string{
		configPath,
		"/etc/shockburst-bridge/config.yaml",
		"/etc/shockburst-bridge.yaml",
		"./config.yaml",
	}

	var data []byte
	var err error
	var usedPath string

	for _, path := range paths {
		if path == "" {
			continue
		}
		// #nosec G304 - Paths are from a hardcoded list of safe configuration file locations
		data, err = os.ReadFile(path)
		if err == nil {
			usedPath = path
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("cannot read configuration file from any of the locations: %v. Last error: %w", paths, err)
	}

	config, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", usedPath, err)
	}

	logger.LogInfo("✅ Configuration loaded successfully from %s (version: %s)", usedPath, config.Version)
	return config, nil
}

// LoadConfigFromString loads configuration from a YAML string (for testing)
func LoadConfigFromString(yamlContent string) (*Config, error) {
	return parse([]byte(yamlContent))
}

func parse(data []byte) (*Config, error) {
	// First, parse just the version to validate compatibility
	var versionCheck VersionInfo
	if err := yaml.Unmarshal(data, &versionCheck); err != nil {
		return nil, fmt.Errorf("error parsing configuration version: %w", err)
	}

	if versionCheck.Version == "" {
		logger.LogWarn("⚠️  No 'version' field in configuration, assuming %s", CurrentVersion)
		versionCheck.Version = CurrentVersion
	}
	if err := ValidateVersion(versionCheck.Version); err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	config.Version = versionCheck.Version

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns a configuration with every optional field filled in. YAML values are
// decoded on top of it.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Radio: RadioConfig{
			AddressLength:  5,
			PayloadLengths: []uint8{32},
			CRCLength:      2,
		},
		Source: SourceConfig{
			Type:        SourceStdin,
			Baud:        115200,
			ReadTimeout: 100,
			ChunkSize:   64,
		},
		MQTT: MQTTConfig{
			Port:              1883,
			ClientID:          "shockburst-bridge",
			RetryDelay:        5000,
			KeepAlive:         60,
			HeartbeatInterval: 30,
			TopicPrefix:       "shockburst/packets",
			StatusTopic:       "shockburst/status",
			DiagnosticTopic:   "shockburst/diagnostics",
		},
		Logging: logger.LoggingConfig{Level: logger.LogLevelInfo},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	r := c.Radio
	if r.AddressLength < 1 || r.AddressLength > 5 {
		return errors.NewValidationError("radio.address_length", "1 to 5", r.AddressLength)
	}
	if r.CRCLength != 1 && r.CRCLength != 2 {
		return errors.NewValidationError("radio.crc_length", "1 or 2", r.CRCLength)
	}
	if len(r.PayloadLengths) == 0 {
		return errors.NewValidationError("radio.payload_lengths", "at least one length", "none")
	}
	for _, n := range r.PayloadLengths {
		if n > shockburst.MaxPayloadLength {
			return errors.NewValidationError("radio.payload_lengths",
				fmt.Sprintf("at most %d", shockburst.MaxPayloadLength), n)
		}
	}
	if r.AlignmentOffset > 7 {
		return errors.NewValidationError("radio.alignment_offset", "0 to 7", r.AlignmentOffset)
	}
	if r.AlignmentOffset != 0 {
		logger.LogWarn("⚠️  radio.alignment_offset %d is not verified against real captures", r.AlignmentOffset)
	}
	if _, err := r.Candidates(); err != nil {
		return err
	}

	switch c.Source.Type {
	case SourceStdin:
	case SourceFile:
		if c.Source.Path == "" {
			return errors.NewValidationError("source.path", "a capture file", "empty")
		}
	case SourceSerial:
		if c.Source.Device == "" {
			return errors.NewValidationError("source.device", "a serial device", "empty")
		}
		if c.Source.Baud <= 0 {
			return errors.NewValidationError("source.baud", "a positive rate", c.Source.Baud)
		}
		if c.Source.ChunkSize <= 0 {
			return errors.NewValidationError("source.chunk_size", "a positive size", c.Source.ChunkSize)
		}
	default:
		return errors.NewValidationError("source.type", "file, stdin or serial", c.Source.Type)
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return errors.NewValidationError("mqtt.broker", "a host name", "empty")
		}
		if c.MQTT.Port <= 0 {
			return errors.NewValidationError("mqtt.port", "a positive port", c.MQTT.Port)
		}
		if c.MQTT.QoS > 2 {
			return errors.NewValidationError("mqtt.qos", "0, 1 or 2", c.MQTT.QoS)
		}
		if c.MQTT.TopicPrefix == "" {
			return errors.NewValidationError("mqtt.topic_prefix", "a topic", "empty")
		}
	}

	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return errors.NewValidationError("metrics_port", "0 to 65535", c.MetricsPort)
	}
	if c.Logging.Level != "" && !logger.ValidLevel(c.Logging.Level) {
		return errors.NewValidationError("logging.level", "error, warn, info, debug or trace", c.Logging.Level)
	}

	return nil
}

// Candidates decodes the hex candidate addresses
func (r RadioConfig) Candidates() ([][]byte, error) {
	out := make([][]byte, 0, len(r.CandidateAddresses))
	for _, s := range r.CandidateAddresses {
		s = strings.NewReplacer(" ", "", ":", "", "-", "").Replace(s)
		addr, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("radio.candidate_addresses: %q is not hex: %w", s, err)
		}
		if len(addr) == 0 || len(addr) > int(r.AddressLength) {
			return nil, fmt.Errorf("radio.candidate_addresses: %q must be 1 to %d bytes", s, r.AddressLength)
		}
		out = append(out, addr)
	}
	return out, nil
}

// Hypotheses expands the radio section into the framing hypotheses to try, in order
func (r RadioConfig) Hypotheses() []shockburst.Hypothesis {
	out := make([]shockburst.Hypothesis, 0, len(r.PayloadLengths))
	for _, n := range r.PayloadLengths {
		out = append(out, shockburst.Hypothesis{
			AddressLength: r.AddressLength,
			PayloadLength: n,
			CRCLength:     r.CRCLength,
		})
	}
	return out
}
