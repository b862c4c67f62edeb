package service

import (
	"context"
	"fmt"
	"time"

	"ticketsplus/events"
	"ticketsplus/models"
)

// ticketService implements the TicketService interface
type ticketService struct {
	uowFactory UnitOfWorkFactory
}

// NewTicketService creates a new ticket service
func NewTicketService(uowFactory UnitOfWorkFactory) TicketService {
	return &ticketService{
		uowFactory: uowFactory,
	}
}

// CreateTicket records a channel opened inside Discord as a new ticket,
// provisioning the guild configuration if none exists yet. The rendered open
// message plus any community pings is returned, and announced into the
// staff-note thread when one is supplied.
func (s *ticketService) CreateTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get guild config: %w", err)
	}

	ticket, notice, err := recordTicket(ctx, uow, config, channelID, userID, noteThread)
	if err != nil {
		return nil, "", err
	}

	if err := uow.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ticket, notice, nil
}

// RegisterTicket records a channel reported over the integration API as a
// new ticket. The guild must already be configured and integrated.
func (s *ticketService) RegisterTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return nil, "", models.ErrGuildNotFound
	}
	// API callers only get in once the guild opted into the integration
	if !config.Integrated {
		return nil, "", models.ErrNotIntegrated
	}

	ticket, notice, err := recordTicket(ctx, uow, config, channelID, userID, noteThread)
	if err != nil {
		return nil, "", err
	}

	if err := uow.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ticket, notice, nil
}

// recordTicket persists a new ticket inside an open unit of work, publishes
// its events and renders the staff-note opener
func recordTicket(ctx context.Context, uow UnitOfWork, config *models.GuildConfig, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error) {
	// Make sure the opener has a member record
	if userID != nil {
		if _, _, err := uow.MemberRepository().GetOrCreate(ctx, *userID, config.GuildID); err != nil {
			return nil, "", fmt.Errorf("failed to ensure member: %w", err)
		}
	}

	ticket := &models.Ticket{
		ChannelID:       channelID,
		GuildID:         config.GuildID,
		UserID:          userID,
		StaffNoteThread: noteThread,
	}
	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return nil, "", fmt.Errorf("failed to create ticket: %w", err)
	}

	event := events.TicketCreatedEvent{
		ChannelID: channelID,
		GuildID:   config.GuildID,
	}
	if userID != nil {
		event.UserID = *userID
	}
	if noteThread != nil {
		event.NoteThread = *noteThread
	}
	uow.EventBus().Publish(event)

	notice := config.RenderOpenMessage(ChannelMention(channelID))

	pings, err := uow.GuildRoleRepository().List(ctx, models.RoleKindPing, config.GuildID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list community pings: %w", err)
	}
	if len(pings) > 0 {
		notice += "\n" + RoleMentions(pings)
	}

	if noteThread != nil {
		uow.EventBus().Publish(events.OutboundMessageEvent{
			GuildID:   config.GuildID,
			ChannelID: *noteThread,
			Content:   notice,
		})
	}

	return ticket, notice, nil
}

// GetTicket returns the ticket for a channel, or nil when the channel is
// not a ticket
func (s *ticketService) GetTicket(ctx context.Context, channelID int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ticket, nil
}

// GetTicketByNoteThread returns the ticket owning a staff-note thread
func (s *ticketService) GetTicketByNoteThread(ctx context.Context, threadID int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetByNoteThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by note thread: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return ticket, nil
}

// SetNoteThread links a staff-note thread to an existing ticket, or unlinks
// it when threadID is nil
func (s *ticketService) SetNoteThread(ctx context.Context, channelID int64, threadID *int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().SetNoteThread(ctx, channelID, threadID); err != nil {
		return fmt.Errorf("failed to set note thread: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ToggleAnonymous flips anonymous staff responses for a ticket and returns
// the new state
func (s *ticketService) ToggleAnonymous(ctx context.Context, channelID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetByChannelID(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return false, models.ErrTicketNotFound
	}

	anonymous := !ticket.Anonymous
	if err := uow.TicketRepository().SetAnonymous(ctx, channelID, anonymous); err != nil {
		return false, fmt.Errorf("failed to set anonymous mode: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return anonymous, nil
}

// RecordUserResponse updates the response clock after a user message
func (s *ticketService) RecordUserResponse(ctx context.Context, channelID int64, at time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().UpdateLastResponse(ctx, channelID, at); err != nil {
		return fmt.Errorf("failed to record user response: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CloseTicket removes a ticket once its channel is gone
func (s *ticketService) CloseTicket(ctx context.Context, channelID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().Delete(ctx, channelID); err != nil {
		return fmt.Errorf("failed to close ticket: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SweepStaleTickets walks every guild with a response deadline, warns staff
// about tickets past it, and reports how many warnings went out. Each ticket
// is warned at most once until its user responds again.
func (s *ticketService) SweepStaleTickets(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	configs, err := uow.GuildConfigRepository().ListAutoCloseEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list autoclose guilds: %w", err)
	}

	now := time.Now().UTC()
	warned := 0

	for _, config := range configs {
		cutoff := now.Add(-config.AutoCloseDuration())

		tickets, err := uow.TicketRepository().ListPendingNotify(ctx, config.GuildID, cutoff)
		if err != nil {
			return 0, fmt.Errorf("failed to list stale tickets for guild %d: %w", config.GuildID, err)
		}

		for _, ticket := range tickets {
			if err := uow.TicketRepository().MarkNotified(ctx, ticket.ChannelID); err != nil {
				return 0, fmt.Errorf("failed to mark ticket %d notified: %w", ticket.ChannelID, err)
			}

			uow.EventBus().Publish(events.TicketStaleEvent{
				ChannelID:    ticket.ChannelID,
				GuildID:      ticket.GuildID,
				LastResponse: ticket.LastResponse,
				RespondBy:    ticket.RespondBy(config.AutoCloseDuration()),
			})

			// Warn in the staff-note thread when there is one
			target := ticket.ChannelID
			if ticket.StaffNoteThread != nil {
				target = *ticket.StaffNoteThread
			}
			uow.EventBus().Publish(events.OutboundMessageEvent{
				GuildID:   ticket.GuildID,
				ChannelID: target,
				Embed:     CreateStaleTicketEmbed(config, ticket),
			})

			warned++
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return warned, nil
}
