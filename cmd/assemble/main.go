package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"shockburst-bridge/pkg/config"
	"shockburst-bridge/pkg/logger"
	"shockburst-bridge/pkg/shockburst"
	"shockburst-bridge/pkg/source"
)

func main() {
	address := flag.String("address", "", "pipe address in hex, e.g. E7E7E7E7E7")
	payload := flag.String("payload", "", "payload in hex (up to 32 bytes)")
	crcLength := flag.Uint("crc-length", 2, "CRC length in bytes (1 or 2)")
	offset := flag.Uint("offset", 0, "alignment offset in bits")
	device := flag.String("device", "", "serial device to transmit on; prints hex when empty")
	baud := flag.Int("baud", 115200, "serial baud rate")
	verbose := flag.Bool("v", false, "print the decoded fields")
	flag.Parse()

	addr, err := source.DecodeHex(*address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ invalid -address: %v\n", err)
		os.Exit(2)
	}
	if len(addr) == 0 {
		fmt.Fprintln(os.Stderr, "❌ -address is required")
		flag.Usage()
		os.Exit(2)
	}
	data, err := source.DecodeHex(*payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ invalid -payload: %v\n", err)
		os.Exit(2)
	}
	if len(data) > shockburst.MaxPayloadLength {
		fmt.Fprintf(os.Stderr, "❌ payload has %d bytes, at most %d allowed\n", len(data), shockburst.MaxPayloadLength)
		os.Exit(2)
	}

	packet, err := shockburst.New(shockburst.Fields{
		AddressLength: uint8(len(addr)),
		PayloadLength: uint8(len(data)),
		CRCLength:     uint8(*crcLength),
		Address:       addr,
		Payload:       data,
	}, shockburst.WithAlignmentOffset(uint8(*offset)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintln(os.Stderr, packet.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var tx source.Transmitter = source.NewWriterTransmitter(os.Stdout)
	if *device != "" {
		port, err := source.OpenSerial(config.SerialSettings{
			Device:      *device,
			Baud:        *baud,
			ReadTimeout: 100 * time.Millisecond,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		serialTx := source.NewSerialTransmitter(port)
		defer serialTx.Close()
		tx = serialTx
	}

	if err := tx.Transmit(ctx, packet); err != nil {
		fmt.Fprintf(os.Stderr, "❌ transmit failed: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		logger.LogInfo("📤 Sent %d bytes on %s", packet.LengthBytes(), *device)
	}
}
