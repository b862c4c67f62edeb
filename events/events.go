package events

import (
	"context"
	"sync"
	"time"

	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGuildConfigUpdated  EventType = "guild_config_updated"
	EventTypeRoleListChanged     EventType = "role_list_changed"
	EventTypeTrackedUserChanged  EventType = "tracked_user_changed"
	EventTypeTicketCreated       EventType = "ticket_created"
	EventTypeTicketStale         EventType = "ticket_stale"
	EventTypeMemberStatusChanged EventType = "member_status_changed"
	EventTypeMemberStatusExpired EventType = "member_status_expired"
	EventTypeOutboundMessage     EventType = "outbound_message"
)

// AllEventTypes lists every event type the service emits, in a stable order.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeGuildConfigUpdated,
		EventTypeRoleListChanged,
		EventTypeTrackedUserChanged,
		EventTypeTicketCreated,
		EventTypeTicketStale,
		EventTypeMemberStatusChanged,
		EventTypeMemberStatusExpired,
		EventTypeOutboundMessage,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GuildConfigUpdatedEvent represents a change to a guild's configuration
type GuildConfigUpdatedEvent struct {
	GuildID  int64
	Setting  string
	NewValue string
}

func (e GuildConfigUpdatedEvent) Type() EventType {
	return EventTypeGuildConfigUpdated
}

// RoleListChangedEvent represents a role added to or removed from one of
// a guild's role lists
type RoleListChangedEvent struct {
	GuildID int64
	Kind    models.RoleKind
	RoleID  int64
	Added   bool
}

func (e RoleListChangedEvent) Type() EventType {
	return EventTypeRoleListChanged
}

// TrackedUserChangedEvent represents a ticket bot registered or unregistered
// for a guild
type TrackedUserChangedEvent struct {
	GuildID int64
	UserID  int64
	Added   bool
}

func (e TrackedUserChangedEvent) Type() EventType {
	return EventTypeTrackedUserChanged
}

// TicketCreatedEvent represents a channel registered as a new ticket
type TicketCreatedEvent struct {
	ChannelID  int64
	GuildID    int64
	UserID     int64 // zero when the opener is unknown
	NoteThread int64 // zero when no staff-note thread was created
	Anonymous  bool
}

func (e TicketCreatedEvent) Type() EventType {
	return EventTypeTicketCreated
}

// TicketStaleEvent represents a ticket that exceeded the guild's autoclose
// window without a user response
type TicketStaleEvent struct {
	ChannelID    int64
	GuildID      int64
	LastResponse time.Time
	RespondBy    time.Time
}

func (e TicketStaleEvent) Type() EventType {
	return EventTypeTicketStale
}

// MemberStatusChangedEvent represents a member moved between block statuses
type MemberStatusChangedEvent struct {
	GuildID   int64
	UserID    int64
	OldStatus models.MemberStatus
	NewStatus models.MemberStatus
	Until     *time.Time
}

func (e MemberStatusChangedEvent) Type() EventType {
	return EventTypeMemberStatusChanged
}

// MemberStatusExpiredEvent represents a timed block status that lapsed and
// was reset by the sweep
type MemberStatusExpiredEvent struct {
	GuildID   int64
	UserID    int64
	OldStatus models.MemberStatus
}

func (e MemberStatusExpiredEvent) Type() EventType {
	return EventTypeMemberStatusExpired
}

// OutboundMessageEvent represents a message the service asked the bot
// frontend to deliver to a channel
type OutboundMessageEvent struct {
	GuildID   int64
	ChannelID int64
	Content   string
	Embed     *discordgo.MessageEmbed
}

func (e OutboundMessageEvent) Type() EventType {
	return EventTypeOutboundMessage
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
			}).Debug("Calling event handler")
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// Use background context for event emission to avoid issues with transaction context expiration
	// Events should be processed independently of the transaction lifecycle
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event to main event bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	log.Debug("All pending events flushed, transactional bus cleared")
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
