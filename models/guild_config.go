package models

import (
	"os"
	"strings"
	"time"
)

const (
	// DefaultOpenMessage is the staff-notes opener for new guilds. The
	// $channel placeholder is substituted with the ticket channel mention.
	DefaultOpenMessage = "Staff notes for Ticket $channel."

	// DefaultStaffTeamName is the staff team display name for new guilds.
	DefaultStaffTeamName = "Staff Team."

	// MaxOpenMessageLength caps the open message column.
	MaxOpenMessageLength = 200

	// MaxStaffTeamNameLength caps the staff team name column.
	MaxStaffTeamNameLength = 40
)

// GuildConfig represents per-guild configuration settings
type GuildConfig struct {
	GuildID       int64  `db:"guild_id"`
	OpenMessage   string `db:"open_message"`
	StaffTeamName string `db:"staff_team_name"`
	// FirstAutoClose is the number of minutes a ticket may sit without a
	// response before staff are warned. Nil disables the sweep for the guild.
	FirstAutoClose   *int      `db:"first_autoclose"`
	MsgDiscovery     bool      `db:"msg_discovery"`
	StripButtons     bool      `db:"strip_buttons"`
	Integrated       bool      `db:"integrated"`
	SupportBlockRole *int64    `db:"support_block"` // Nullable - role applied to support-blocked members
	HelpingBlockRole *int64    `db:"helping_block"` // Nullable - role applied to community-support-blocked members
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// RenderOpenMessage expands the $channel placeholder with the given channel
// mention. Unknown placeholders are left as written so admin-provided
// templates never lose text.
func (g *GuildConfig) RenderOpenMessage(channelMention string) string {
	return os.Expand(g.OpenMessage, func(name string) string {
		if name == "channel" {
			return channelMention
		}
		return "$" + name
	})
}

// AutoCloseEnabled reports whether the stale-ticket sweep applies to this guild.
func (g *GuildConfig) AutoCloseEnabled() bool {
	return g.FirstAutoClose != nil && *g.FirstAutoClose > 0
}

// AutoCloseDuration returns the configured autoclose window, or zero when disabled.
func (g *GuildConfig) AutoCloseDuration() time.Duration {
	if !g.AutoCloseEnabled() {
		return 0
	}
	return time.Duration(*g.FirstAutoClose) * time.Minute
}

// GuildConfigDetail is a guild's full configuration: the config row plus
// every child list attached to it.
type GuildConfigDetail struct {
	Config         *GuildConfig
	StaffRoles     []int64
	ObserverRoles  []int64
	CommunityRoles []int64
	CommunityPings []int64
	TrackedUsers   []int64
}

// ValidateOpenMessage checks an open message against the column cap.
func ValidateOpenMessage(message string) error {
	if len(message) > MaxOpenMessageLength {
		return ErrOpenMessageTooLong
	}
	if strings.TrimSpace(message) == "" {
		return ErrOpenMessageEmpty
	}
	return nil
}

// ValidateStaffTeamName checks a staff team name against the column cap.
func ValidateStaffTeamName(name string) error {
	if len(name) > MaxStaffTeamNameLength {
		return ErrStaffTeamNameTooLong
	}
	if strings.TrimSpace(name) == "" {
		return ErrStaffTeamNameEmpty
	}
	return nil
}
