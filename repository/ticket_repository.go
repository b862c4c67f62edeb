package repository

import (
	"context"
	"fmt"
	"time"

	"ticketsplus/database"
	"ticketsplus/models"

	"github.com/jackc/pgx/v5"
)

// TicketRepository implements the TicketRepository interface
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create inserts a new ticket record
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (channel_id, guild_id, user_id, staff_note_thread, anonymous)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (channel_id) DO NOTHING
		RETURNING date_created, last_response, notified
	`

	err := r.q.QueryRow(ctx, query,
		ticket.ChannelID,
		ticket.GuildID,
		ticket.UserID,
		ticket.StaffNoteThread,
		ticket.Anonymous,
	).Scan(
		&ticket.DateCreated,
		&ticket.LastResponse,
		&ticket.Notified,
	)

	if err == pgx.ErrNoRows {
		return models.ErrTicketExists
	}
	if err != nil {
		return fmt.Errorf("failed to create ticket for channel %d: %w", ticket.ChannelID, err)
	}

	return nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var ticket models.Ticket
	err := row.Scan(
		&ticket.ChannelID,
		&ticket.GuildID,
		&ticket.UserID,
		&ticket.DateCreated,
		&ticket.LastResponse,
		&ticket.StaffNoteThread,
		&ticket.Anonymous,
		&ticket.Notified,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetByChannelID retrieves a ticket by its channel ID
func (r *TicketRepository) GetByChannelID(ctx context.Context, channelID int64) (*models.Ticket, error) {
	query := `
		SELECT channel_id, guild_id, user_id, date_created, last_response, staff_note_thread, anonymous, notified
		FROM tickets
		WHERE channel_id = $1
	`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, channelID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket for channel %d: %w", channelID, err)
	}

	return ticket, nil
}

// GetByNoteThread retrieves the ticket owning a staff-note thread
func (r *TicketRepository) GetByNoteThread(ctx context.Context, threadID int64) (*models.Ticket, error) {
	query := `
		SELECT channel_id, guild_id, user_id, date_created, last_response, staff_note_thread, anonymous, notified
		FROM tickets
		WHERE staff_note_thread = $1
	`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, threadID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket for note thread %d: %w", threadID, err)
	}

	return ticket, nil
}

// SetNoteThread links a staff-note thread to a ticket. Nil unlinks it.
func (r *TicketRepository) SetNoteThread(ctx context.Context, channelID int64, threadID *int64) error {
	query := `
		UPDATE tickets
		SET staff_note_thread = $1
		WHERE channel_id = $2
	`

	result, err := r.q.Exec(ctx, query, threadID, channelID)
	if err != nil {
		return fmt.Errorf("failed to set note thread for ticket %d: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// SetAnonymous updates a ticket's anonymous response mode
func (r *TicketRepository) SetAnonymous(ctx context.Context, channelID int64, anonymous bool) error {
	query := `
		UPDATE tickets
		SET anonymous = $1
		WHERE channel_id = $2
	`

	result, err := r.q.Exec(ctx, query, anonymous, channelID)
	if err != nil {
		return fmt.Errorf("failed to set anonymous mode for ticket %d: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// UpdateLastResponse moves the response clock and clears the staff warning
// so the ticket can be warned about again
func (r *TicketRepository) UpdateLastResponse(ctx context.Context, channelID int64, at time.Time) error {
	query := `
		UPDATE tickets
		SET last_response = $1, notified = FALSE
		WHERE channel_id = $2
	`

	result, err := r.q.Exec(ctx, query, at, channelID)
	if err != nil {
		return fmt.Errorf("failed to update last response for ticket %d: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// MarkNotified records that staff were warned about a stale ticket
func (r *TicketRepository) MarkNotified(ctx context.Context, channelID int64) error {
	query := `
		UPDATE tickets
		SET notified = TRUE
		WHERE channel_id = $1
	`

	result, err := r.q.Exec(ctx, query, channelID)
	if err != nil {
		return fmt.Errorf("failed to mark ticket %d notified: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}

// ListPendingNotify returns unwarned tickets whose last response is at or
// before the cutoff
func (r *TicketRepository) ListPendingNotify(ctx context.Context, guildID int64, cutoff time.Time) ([]*models.Ticket, error) {
	query := `
		SELECT channel_id, guild_id, user_id, date_created, last_response, staff_note_thread, anonymous, notified
		FROM tickets
		WHERE guild_id = $1 AND NOT notified AND last_response <= $2
		ORDER BY last_response
	`

	rows, err := r.q.Query(ctx, query, guildID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tickets for guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// Delete removes a ticket record
func (r *TicketRepository) Delete(ctx context.Context, channelID int64) error {
	query := `
		DELETE FROM tickets
		WHERE channel_id = $1
	`

	result, err := r.q.Exec(ctx, query, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete ticket %d: %w", channelID, err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}
