package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ticketsplus/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventEnvelope wraps a serialized event with delivery metadata so consumers
// can route and deduplicate without parsing the payload first.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher forwards domain events to NATS for bot frontends and
// other consumers
type NATSEventPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()

	subject := p.subjectMapper.MapEventToSubject(event)

	envelopeData, err := EncodeEnvelope(event)
	if err != nil {
		return err
	}

	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// EnsureTicketEventStream ensures the ticket_events stream exists with the
// correct subjects. Call after the client connects.
func (p *NATSEventPublisher) EnsureTicketEventStream() error {
	subjects := p.subjectMapper.GetAllSubjects()
	return p.natsClient.ensureStream("ticket_events", subjects)
}

// EncodeEnvelope serializes an event inside a fresh envelope
func EncodeEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: "ticketsplus",
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return envelopeData, nil
}

// DecodeEnvelope deserializes envelope bytes back into the domain event they
// carry. Consumers use this to route NATS messages to typed handlers.
func DecodeEnvelope(data []byte) (events.Event, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	return decodeEvent(events.EventType(envelope.EventType), envelope.Payload)
}

// decodeEvent deserializes the event payload based on event type
func decodeEvent(eventType events.EventType, payload []byte) (events.Event, error) {
	var event events.Event

	switch eventType {
	case events.EventTypeGuildConfigUpdated:
		event = &events.GuildConfigUpdatedEvent{}
	case events.EventTypeRoleListChanged:
		event = &events.RoleListChangedEvent{}
	case events.EventTypeTrackedUserChanged:
		event = &events.TrackedUserChangedEvent{}
	case events.EventTypeTicketCreated:
		event = &events.TicketCreatedEvent{}
	case events.EventTypeTicketStale:
		event = &events.TicketStaleEvent{}
	case events.EventTypeMemberStatusChanged:
		event = &events.MemberStatusChangedEvent{}
	case events.EventTypeMemberStatusExpired:
		event = &events.MemberStatusExpiredEvent{}
	case events.EventTypeOutboundMessage:
		event = &events.OutboundMessageEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}

	return event, nil
}
