package models

import "time"

// MemberStatus is a staff-applied penalty state for a member.
type MemberStatus int

const (
	// StatusNone means no penalty applies.
	StatusNone MemberStatus = 0
	// StatusSupportBlocked members cannot open tickets.
	StatusSupportBlocked MemberStatus = 1
	// StatusCommunityBlocked members lose community-role access.
	StatusCommunityBlocked MemberStatus = 2
)

// Valid reports whether the status is a known penalty state.
func (s MemberStatus) Valid() bool {
	return s == StatusNone || s == StatusSupportBlocked || s == StatusCommunityBlocked
}

// Member represents a user's per-guild record
type Member struct {
	ID      int64        `db:"id"`
	UserID  int64        `db:"user_id"`
	GuildID int64        `db:"guild_id"`
	IsOwner bool         `db:"is_owner"`
	Status  MemberStatus `db:"status"`
	// StatusTill is when the penalty lapses. Nil with a nonzero status
	// means the penalty is indefinite.
	StatusTill *time.Time `db:"status_till"`
}

// Penalized reports whether any penalty status is set.
func (m *Member) Penalized() bool {
	return m.Status != StatusNone
}

// StatusExpired reports whether a timed penalty has lapsed as of now.
func (m *Member) StatusExpired(now time.Time) bool {
	return m.Status != StatusNone && m.StatusTill != nil && m.StatusTill.Before(now)
}
