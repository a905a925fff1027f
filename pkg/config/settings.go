package config

import "time"

// MQTTSettings contains only MQTT-specific configuration
// Used for dependency injection to avoid coupling to full Config
type MQTTSettings struct {
	Broker            string
	Port              int
	Username          string
	Password          string
	ClientID          string
	RetryDelay        time.Duration
	KeepAlive         time.Duration
	HeartbeatInterval time.Duration
	QoS               byte
	TopicPrefix       string
	StatusTopic       string
	DiagnosticTopic   string
}

// NewMQTTSettings extracts MQTT settings from full config
func NewMQTTSettings(cfg *Config) MQTTSettings {
	return MQTTSettings{
		Broker:            cfg.MQTT.Broker,
		Port:              cfg.MQTT.Port,
		Username:          cfg.MQTT.Username,
		Password:          cfg.MQTT.Password,
		ClientID:          cfg.MQTT.ClientID,
		RetryDelay:        time.Duration(cfg.MQTT.RetryDelay) * time.Millisecond,
		KeepAlive:         time.Duration(cfg.MQTT.KeepAlive) * time.Second,
		HeartbeatInterval: time.Duration(cfg.MQTT.HeartbeatInterval) * time.Second,
		QoS:               cfg.MQTT.QoS,
		TopicPrefix:       cfg.MQTT.TopicPrefix,
		StatusTopic:       cfg.MQTT.StatusTopic,
		DiagnosticTopic:   cfg.MQTT.DiagnosticTopic,
	}
}

// SerialSettings contains serial port configuration
type SerialSettings struct {
	Device      string
	Baud        int
	ReadTimeout time.Duration
	ChunkSize   int
}

// NewSerialSettings extracts serial settings from full config
func NewSerialSettings(cfg *Config) SerialSettings {
	return SerialSettings{
		Device:      cfg.Source.Device,
		Baud:        cfg.Source.Baud,
		ReadTimeout: time.Duration(cfg.Source.ReadTimeout) * time.Millisecond,
		ChunkSize:   cfg.Source.ChunkSize,
	}
}
