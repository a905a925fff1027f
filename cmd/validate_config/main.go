package main

import (
	"fmt"
	"os"

	"shockburst-bridge/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate_config <config-file>")
		os.Exit(1)
	}

	configPath := os.Args[1]
	fmt.Printf("📄 Loading config from: %s\n", configPath)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		os.Exit(1)
	}

	candidates, err := cfg.Radio.Candidates()
	if err != nil {
		fmt.Printf("❌ Error in candidate addresses: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Version: %s\n", cfg.Version)

	fmt.Printf("\n📻 Radio\n")
	fmt.Printf("   Address length: %d bytes\n", cfg.Radio.AddressLength)
	fmt.Printf("   CRC length: %d bytes\n", cfg.Radio.CRCLength)
	fmt.Printf("   Alignment offset: %d bits\n", cfg.Radio.AlignmentOffset)
	fmt.Printf("   Framing hypotheses: %d\n", len(cfg.Radio.PayloadLengths))
	for _, h := range cfg.Radio.Hypotheses() {
		fmt.Printf("     - %s (%d bytes on air)\n", h, h.FrameLength())
	}
	if len(candidates) > 0 {
		fmt.Printf("   Candidate addresses:\n")
		for _, c := range candidates {
			fmt.Printf("     - % X\n", c)
		}
	}

	fmt.Printf("\n📥 Source: %s\n", cfg.Source.Type)
	switch cfg.Source.Type {
	case config.SourceFile:
		fmt.Printf("   Path: %s\n", cfg.Source.Path)
	case config.SourceSerial:
		fmt.Printf("   Device: %s @ %d baud (timeout %d ms, chunk %d bytes)\n",
			cfg.Source.Device, cfg.Source.Baud, cfg.Source.ReadTimeout, cfg.Source.ChunkSize)
	}

	if cfg.MQTT.Enabled {
		fmt.Printf("\n📡 MQTT Broker: %s:%d\n", cfg.MQTT.Broker, cfg.MQTT.Port)
		fmt.Printf("   Packet topics: %s/<address>\n", cfg.MQTT.TopicPrefix)
		fmt.Printf("   Status topic: %s\n", cfg.MQTT.StatusTopic)
	} else {
		fmt.Printf("\n📡 MQTT disabled, packets are logged\n")
	}

	if cfg.MetricsPort > 0 {
		fmt.Printf("\n📈 /health and /metrics on port %d\n", cfg.MetricsPort)
	}

	fmt.Println("\n✅ Configuration is valid!")
}
