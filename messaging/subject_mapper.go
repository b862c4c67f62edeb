package messaging

import (
	"fmt"

	"ticketsplus/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.MapEventTypeToSubject(event.Type())
}

// MapEventTypeToSubject converts an event type to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventTypeToSubject(eventType events.EventType) string {
	switch eventType {
	case events.EventTypeGuildConfigUpdated:
		return "guilds.config_updated"
	case events.EventTypeRoleListChanged:
		return "guilds.roles_changed"
	case events.EventTypeTrackedUserChanged:
		return "guilds.tracked_users_changed"
	case events.EventTypeTicketCreated:
		return "tickets.created"
	case events.EventTypeTicketStale:
		return "tickets.stale"
	case events.EventTypeMemberStatusChanged:
		return "members.status_changed"
	case events.EventTypeMemberStatusExpired:
		return "members.status_expired"
	case events.EventTypeOutboundMessage:
		return "discord.outbound"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", eventType)
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "guilds.config_updated":
		return events.EventTypeGuildConfigUpdated
	case "guilds.roles_changed":
		return events.EventTypeRoleListChanged
	case "guilds.tracked_users_changed":
		return events.EventTypeTrackedUserChanged
	case "tickets.created":
		return events.EventTypeTicketCreated
	case "tickets.stale":
		return events.EventTypeTicketStale
	case "members.status_changed":
		return events.EventTypeMemberStatusChanged
	case "members.status_expired":
		return events.EventTypeMemberStatusExpired
	case "discord.outbound":
		return events.EventTypeOutboundMessage
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"guilds.config_updated",
		"guilds.roles_changed",
		"guilds.tracked_users_changed",
		"tickets.created",
		"tickets.stale",
		"members.status_changed",
		"members.status_expired",
		"discord.outbound",
	}
}
