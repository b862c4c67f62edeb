package messaging

import (
	"context"

	"ticketsplus/events"

	log "github.com/sirupsen/logrus"
)

// Bridge mirrors every event emitted on the in-process bus onto NATS so bot
// frontends can react without sharing the database.
type Bridge struct {
	publisher *NATSEventPublisher
}

// NewBridge creates a bridge that forwards bus events through the given publisher
func NewBridge(publisher *NATSEventPublisher) *Bridge {
	return &Bridge{publisher: publisher}
}

// Attach subscribes the bridge to every event type on the bus
func (b *Bridge) Attach(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes() {
		bus.Subscribe(eventType, b.forward)
	}
	log.WithField("eventTypes", len(events.AllEventTypes())).Info("Attached NATS bridge to event bus")
}

func (b *Bridge) forward(ctx context.Context, event events.Event) {
	if err := b.publisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event to NATS")
	}
}
