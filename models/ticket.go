package models

import "time"

// Ticket represents a channel registered as a support ticket
type Ticket struct {
	ChannelID int64 `db:"channel_id"`
	GuildID   int64 `db:"guild_id"`
	// UserID is the ticket opener. Nil when the opener could not be resolved.
	UserID          *int64    `db:"user_id"`
	DateCreated     time.Time `db:"date_created"`
	LastResponse    time.Time `db:"last_response"`
	StaffNoteThread *int64    `db:"staff_note_thread"` // Nullable - unique per thread
	Anonymous       bool      `db:"anonymous"`
	Notified        bool      `db:"notified"`
}

// RespondBy returns the deadline implied by a guild's autoclose window,
// measured from the last response.
func (t *Ticket) RespondBy(autoClose time.Duration) time.Time {
	return t.LastResponse.Add(autoClose)
}

// StaleSince reports whether the ticket has gone unanswered past the given
// autoclose window as of now.
func (t *Ticket) StaleSince(autoClose time.Duration, now time.Time) bool {
	if autoClose <= 0 {
		return false
	}
	return t.RespondBy(autoClose).Before(now)
}
