package service

import (
	"context"
	"time"

	"ticketsplus/events"
	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
)

// GuildConfigRepository defines the interface for guild configuration data access
type GuildConfigRepository interface {
	// GetByGuildID retrieves a guild's configuration, or nil when none exists
	GetByGuildID(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// GetOrCreate retrieves a guild's configuration, inserting a row with
	// defaults when none exists. The second return reports whether a row
	// was created.
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, bool, error)

	// Update persists all mutable configuration fields
	Update(ctx context.Context, config *models.GuildConfig) error

	// Delete removes a guild's configuration and all dependent rows
	Delete(ctx context.Context, guildID int64) error

	// ListAutoCloseEnabled returns configurations with a response deadline set
	ListAutoCloseEnabled(ctx context.Context) ([]*models.GuildConfig, error)
}

// GuildRoleRepository defines the interface for the per-guild role lists
type GuildRoleRepository interface {
	// Add inserts a role into the list of the given kind. Returns false
	// when the role was already present.
	Add(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error)

	// Remove deletes a role from the list of the given kind
	Remove(ctx context.Context, kind models.RoleKind, guildID, roleID int64) error

	// List returns all role IDs of the given kind for a guild
	List(ctx context.Context, kind models.RoleKind, guildID int64) ([]int64, error)

	// Has reports whether a role is in the list of the given kind
	Has(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error)
}

// TrackedUserRepository defines the interface for ticket bot registrations
type TrackedUserRepository interface {
	// Add registers a ticket bot for a guild. Returns false when the user
	// was already registered.
	Add(ctx context.Context, guildID, userID int64) (bool, error)

	// Remove unregisters a ticket bot
	Remove(ctx context.Context, guildID, userID int64) error

	// List returns all registered ticket bot user IDs for a guild
	List(ctx context.Context, guildID int64) ([]int64, error)

	// IsTracked reports whether a user is registered as a ticket bot
	IsTracked(ctx context.Context, guildID, userID int64) (bool, error)
}

// MemberRepository defines the interface for per-guild member data access
type MemberRepository interface {
	// GetOrCreate retrieves a member record, inserting one when none
	// exists. The second return reports whether a row was created.
	GetOrCreate(ctx context.Context, userID, guildID int64) (*models.Member, bool, error)

	// GetByUserGuild retrieves a member record, or nil when none exists
	GetByUserGuild(ctx context.Context, userID, guildID int64) (*models.Member, error)

	// SetOwner updates a member's owner flag
	SetOwner(ctx context.Context, userID, guildID int64, isOwner bool) error

	// UpdateStatus updates a member's block status and its expiry
	UpdateStatus(ctx context.Context, userID, guildID int64, status models.MemberStatus, till *time.Time) error

	// ListExpiredStatuses returns members whose timed status lapsed before now
	ListExpiredStatuses(ctx context.Context, now time.Time) ([]*models.Member, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a new ticket record
	Create(ctx context.Context, ticket *models.Ticket) error

	// GetByChannelID retrieves a ticket, or nil when none exists
	GetByChannelID(ctx context.Context, channelID int64) (*models.Ticket, error)

	// GetByNoteThread retrieves the ticket owning a staff-note thread
	GetByNoteThread(ctx context.Context, threadID int64) (*models.Ticket, error)

	// SetNoteThread links a staff-note thread to a ticket. Nil unlinks it.
	SetNoteThread(ctx context.Context, channelID int64, threadID *int64) error

	// SetAnonymous updates a ticket's anonymous response mode
	SetAnonymous(ctx context.Context, channelID int64, anonymous bool) error

	// UpdateLastResponse moves the response clock and clears the staff warning
	UpdateLastResponse(ctx context.Context, channelID int64, at time.Time) error

	// MarkNotified records that staff were warned about a stale ticket
	MarkNotified(ctx context.Context, channelID int64) error

	// ListPendingNotify returns unwarned tickets without a response since cutoff
	ListPendingNotify(ctx context.Context, guildID int64, cutoff time.Time) ([]*models.Ticket, error)

	// Delete removes a ticket record
	Delete(ctx context.Context, channelID int64) error
}

// TagRepository defines the interface for guild tag data access
type TagRepository interface {
	// Get retrieves a tag by its normalized name, or nil when none exists
	Get(ctx context.Context, guildID int64, name string) (*models.Tag, error)

	// Create inserts a new tag
	Create(ctx context.Context, tag *models.Tag) error

	// Update replaces the content and embed of an existing tag
	Update(ctx context.Context, tag *models.Tag) error

	// Delete removes a tag
	Delete(ctx context.Context, guildID int64, name string) error

	// List returns all tags for a guild sorted by name
	List(ctx context.Context, guildID int64) ([]*models.Tag, error)
}

// GuildConfigService defines the interface for guild configuration operations
type GuildConfigService interface {
	// GetOrCreateConfig retrieves a guild's configuration, creating
	// defaults when absent
	GetOrCreateConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// GetConfig retrieves a guild's configuration without creating one
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// GetConfigDetail returns a guild's configuration together with all
	// role lists and tracked users
	GetConfigDetail(ctx context.Context, guildID int64) (*models.GuildConfigDetail, error)

	// IsStaff reports whether any of the given roles is on the guild's
	// staff list
	IsStaff(ctx context.Context, guildID int64, roleIDs []int64) (bool, error)

	// SetOpenMessage updates the staff-note opening message template
	SetOpenMessage(ctx context.Context, guildID int64, message string) error

	// SetStaffTeamName updates the display name for the guild's staff team
	SetStaffTeamName(ctx context.Context, guildID int64, name string) error

	// SetAutoClose updates the response deadline in minutes; zero disables it
	SetAutoClose(ctx context.Context, guildID int64, minutes int) error

	// ToggleMessageDiscovery flips message link expansion and returns the new value
	ToggleMessageDiscovery(ctx context.Context, guildID int64) (bool, error)

	// ToggleButtonStripping flips button removal and returns the new value
	ToggleButtonStripping(ctx context.Context, guildID int64) (bool, error)

	// SetIntegrated marks whether the guild completed API integration
	SetIntegrated(ctx context.Context, guildID int64, integrated bool) error

	// SetBlockRole updates the role granted by a block status; nil unsets it
	SetBlockRole(ctx context.Context, guildID int64, status models.MemberStatus, roleID *int64) error

	// AddRole adds a role to one of the guild's role lists. Returns false
	// when the role was already present.
	AddRole(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error)

	// RemoveRole removes a role from one of the guild's role lists
	RemoveRole(ctx context.Context, kind models.RoleKind, guildID, roleID int64) error

	// ListRoles returns the guild's role list of the given kind
	ListRoles(ctx context.Context, kind models.RoleKind, guildID int64) ([]int64, error)

	// TrackUser registers a ticket bot for the guild. Returns false when
	// the user was already registered.
	TrackUser(ctx context.Context, guildID, userID int64) (bool, error)

	// UntrackUser unregisters a ticket bot
	UntrackUser(ctx context.Context, guildID, userID int64) error

	// ListTrackedUsers returns the guild's registered ticket bots
	ListTrackedUsers(ctx context.Context, guildID int64) ([]int64, error)

	// DeleteGuildData removes everything stored for a guild
	DeleteGuildData(ctx context.Context, guildID int64) error

	// PublishOverride asks the bot frontend to deliver a message to a channel
	PublishOverride(ctx context.Context, guildID, channelID int64, content string) error
}

// TicketService defines the interface for ticket operations
type TicketService interface {
	// CreateTicket records a channel opened inside Discord as a new
	// ticket, provisioning the guild configuration if none exists yet.
	// It returns the rendered staff-note opener for the channel.
	CreateTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error)

	// RegisterTicket records a channel reported over the integration API
	// as a new ticket. Unlike CreateTicket it requires the guild to be
	// configured and integrated. It returns the rendered staff-note
	// opener, which is also announced in the note thread when one is
	// supplied.
	RegisterTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error)

	// GetTicket returns the ticket for a channel, or nil when the channel
	// is not a ticket
	GetTicket(ctx context.Context, channelID int64) (*models.Ticket, error)

	// GetTicketByNoteThread returns the ticket owning a staff-note thread
	GetTicketByNoteThread(ctx context.Context, threadID int64) (*models.Ticket, error)

	// SetNoteThread links a staff-note thread to an existing ticket, or
	// unlinks it when threadID is nil
	SetNoteThread(ctx context.Context, channelID int64, threadID *int64) error

	// ToggleAnonymous flips anonymous staff responses for a ticket and
	// returns the new state
	ToggleAnonymous(ctx context.Context, channelID int64) (bool, error)

	// RecordUserResponse updates the response clock after a user message
	RecordUserResponse(ctx context.Context, channelID int64, at time.Time) error

	// CloseTicket removes a ticket once its channel is gone
	CloseTicket(ctx context.Context, channelID int64) error

	// SweepStaleTickets warns staff about tickets past the response
	// deadline and reports how many warnings went out
	SweepStaleTickets(ctx context.Context) (int, error)
}

// MemberService defines the interface for guild member operations
type MemberService interface {
	// EnsureMember retrieves a guild member record, creating one when absent
	EnsureMember(ctx context.Context, guildID, userID int64) (*models.Member, error)

	// SetOwner flags a member as a guild owner
	SetOwner(ctx context.Context, guildID, userID int64, isOwner bool) error

	// ApplyStatus places a member under a block status until the given
	// time; nil means indefinitely. The matching block role must be
	// configured for the guild.
	ApplyStatus(ctx context.Context, guildID, userID int64, status models.MemberStatus, until *time.Time) (*models.Member, error)

	// ClearStatus lifts a member's block status
	ClearStatus(ctx context.Context, guildID, userID int64) error

	// SweepExpiredStatuses resets statuses whose expiry passed and reports
	// how many members were reset
	SweepExpiredStatuses(ctx context.Context) (int, error)
}

// TagService defines the interface for guild tag operations
type TagService interface {
	// CreateTag stores a new tag for a guild
	CreateTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (*models.Tag, error)

	// EditTag replaces the content and embed of an existing tag
	EditTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (*models.Tag, error)

	// DeleteTag removes a tag
	DeleteTag(ctx context.Context, guildID int64, name string) error

	// ToggleTag creates the tag when absent and deletes it when present.
	// Returns true when the tag was created.
	ToggleTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (bool, error)

	// GetTag retrieves a tag by name. Returns ErrTagNotFound when absent.
	GetTag(ctx context.Context, guildID int64, name string) (*models.Tag, error)

	// ListTags returns all tags for a guild sorted by name
	ListTags(ctx context.Context, guildID int64) ([]*models.Tag, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	GuildConfigRepository() GuildConfigRepository
	GuildRoleRepository() GuildRoleRepository
	TrackedUserRepository() TrackedUserRepository
	MemberRepository() MemberRepository
	TicketRepository() TicketRepository
	TagRepository() TagRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
