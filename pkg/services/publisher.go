package services

import "shockburst-bridge/pkg/mqtt"

// PublisherInterface is everything the services publish
type PublisherInterface interface {
	mqtt.PacketPublisher
	mqtt.StatusPublisher
	mqtt.DiagnosticPublisher
}
