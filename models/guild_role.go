package models

// RoleKind identifies which of the per-guild role lists a role belongs to.
type RoleKind string

const (
	// RoleKindStaff roles may view ticket notes and use staff commands.
	RoleKindStaff RoleKind = "staff"
	// RoleKindObserver roles are added silently to staff-note threads.
	RoleKindObserver RoleKind = "observer"
	// RoleKindCommunity roles get limited access to staff facilities.
	RoleKindCommunity RoleKind = "community"
	// RoleKindPing roles are mentioned when a ticket opens.
	RoleKindPing RoleKind = "ping"
)

// AllRoleKinds lists every role kind in a stable order.
func AllRoleKinds() []RoleKind {
	return []RoleKind{RoleKindStaff, RoleKindObserver, RoleKindCommunity, RoleKindPing}
}

// Valid reports whether the kind is one of the known role lists.
func (k RoleKind) Valid() bool {
	switch k {
	case RoleKindStaff, RoleKindObserver, RoleKindCommunity, RoleKindPing:
		return true
	}
	return false
}

// GuildRole represents a role id attached to one of a guild's role lists
type GuildRole struct {
	RoleID  int64 `db:"role_id"`
	GuildID int64 `db:"guild_id"`
}

// TrackedUser represents a ticket-opening user watched within a guild.
// Mostly the upstream ticket bot, but whitelabel setups add others.
type TrackedUser struct {
	UserID  int64 `db:"user_id"`
	GuildID int64 `db:"guild_id"`
}
