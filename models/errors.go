package models

import "errors"

// Sentinel errors returned by services and repositories so callers can map
// outcomes to user responses and HTTP status codes with errors.Is.
var (
	ErrGuildNotFound  = errors.New("guild configuration not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketExists   = errors.New("ticket already exists")
	ErrNotIntegrated  = errors.New("guild not integrated")
	ErrRoleNotFound   = errors.New("role not found")
	ErrUserNotTracked = errors.New("user not tracked")
	ErrMemberNotFound = errors.New("member not found")
	ErrTagNotFound    = errors.New("tag not found")
	ErrTagExists      = errors.New("tag already exists")

	ErrOpenMessageTooLong   = errors.New("open message must be at most 200 characters")
	ErrOpenMessageEmpty     = errors.New("open message must not be empty")
	ErrStaffTeamNameTooLong = errors.New("staff team name must be at most 40 characters")
	ErrStaffTeamNameEmpty   = errors.New("staff team name must not be empty")
	ErrTagNameTooLong       = errors.New("tag name must be at most 32 characters")
	ErrTagNameEmpty         = errors.New("tag name must not be empty")

	// ErrBlockRoleNotSet is returned when a member status requires a block
	// role the guild has not configured yet.
	ErrBlockRoleNotSet = errors.New("block role not configured for guild")
)
