package service

import (
	"context"
	"fmt"

	"ticketsplus/events"
	"ticketsplus/models"
)

// guildConfigService implements the GuildConfigService interface
type guildConfigService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildConfigService creates a new guild config service
func NewGuildConfigService(uowFactory UnitOfWorkFactory) GuildConfigService {
	return &guildConfigService{
		uowFactory: uowFactory,
	}
}

// GetOrCreateConfig retrieves a guild's configuration or creates defaults if not found
func (s *guildConfigService) GetOrCreateConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	// Create unit of work
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	config, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	// Commit the transaction (in case a new config was created)
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return config, nil
}

// GetConfig retrieves a guild's configuration without creating one. Returns
// ErrGuildNotFound when the guild has no configuration yet.
func (s *guildConfigService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return nil, models.ErrGuildNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return config, nil
}

// GetConfigDetail returns a guild's configuration together with all role
// lists and tracked users. Returns ErrGuildNotFound when the guild has no
// configuration yet.
func (s *guildConfigService) GetConfigDetail(ctx context.Context, guildID int64) (*models.GuildConfigDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return nil, models.ErrGuildNotFound
	}

	detail := &models.GuildConfigDetail{Config: config}

	roleRepo := uow.GuildRoleRepository()
	if detail.StaffRoles, err = roleRepo.List(ctx, models.RoleKindStaff, guildID); err != nil {
		return nil, fmt.Errorf("failed to list staff roles: %w", err)
	}
	if detail.ObserverRoles, err = roleRepo.List(ctx, models.RoleKindObserver, guildID); err != nil {
		return nil, fmt.Errorf("failed to list observer roles: %w", err)
	}
	if detail.CommunityRoles, err = roleRepo.List(ctx, models.RoleKindCommunity, guildID); err != nil {
		return nil, fmt.Errorf("failed to list community roles: %w", err)
	}
	if detail.CommunityPings, err = roleRepo.List(ctx, models.RoleKindPing, guildID); err != nil {
		return nil, fmt.Errorf("failed to list community pings: %w", err)
	}
	if detail.TrackedUsers, err = uow.TrackedUserRepository().List(ctx, guildID); err != nil {
		return nil, fmt.Errorf("failed to list tracked users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// SetOpenMessage updates the staff-note opening message template
func (s *guildConfigService) SetOpenMessage(ctx context.Context, guildID int64, message string) error {
	if err := models.ValidateOpenMessage(message); err != nil {
		return err
	}

	return s.updateConfig(ctx, guildID, "open_message", message, func(config *models.GuildConfig) {
		config.OpenMessage = message
	})
}

// SetStaffTeamName updates the display name for the guild's staff team
func (s *guildConfigService) SetStaffTeamName(ctx context.Context, guildID int64, name string) error {
	if err := models.ValidateStaffTeamName(name); err != nil {
		return err
	}

	return s.updateConfig(ctx, guildID, "staff_team_name", name, func(config *models.GuildConfig) {
		config.StaffTeamName = name
	})
}

// SetAutoClose updates the response deadline in minutes. Zero disables the
// deadline entirely.
func (s *guildConfigService) SetAutoClose(ctx context.Context, guildID int64, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("autoclose minutes cannot be negative")
	}

	value := "disabled"
	if minutes > 0 {
		value = fmt.Sprintf("%dm", minutes)
	}

	return s.updateConfig(ctx, guildID, "first_autoclose", value, func(config *models.GuildConfig) {
		if minutes == 0 {
			config.FirstAutoClose = nil
		} else {
			config.FirstAutoClose = &minutes
		}
	})
}

// ToggleMessageDiscovery flips message link expansion and returns the new value
func (s *guildConfigService) ToggleMessageDiscovery(ctx context.Context, guildID int64) (bool, error) {
	var enabled bool
	err := s.updateConfigDeferred(ctx, guildID, func(config *models.GuildConfig) (string, string) {
		config.MsgDiscovery = !config.MsgDiscovery
		enabled = config.MsgDiscovery
		return "msg_discovery", fmt.Sprintf("%t", enabled)
	})
	return enabled, err
}

// ToggleButtonStripping flips button removal and returns the new value
func (s *guildConfigService) ToggleButtonStripping(ctx context.Context, guildID int64) (bool, error) {
	var enabled bool
	err := s.updateConfigDeferred(ctx, guildID, func(config *models.GuildConfig) (string, string) {
		config.StripButtons = !config.StripButtons
		enabled = config.StripButtons
		return "strip_buttons", fmt.Sprintf("%t", enabled)
	})
	return enabled, err
}

// SetIntegrated marks whether the guild completed API integration
func (s *guildConfigService) SetIntegrated(ctx context.Context, guildID int64, integrated bool) error {
	return s.updateConfig(ctx, guildID, "integrated", fmt.Sprintf("%t", integrated), func(config *models.GuildConfig) {
		config.Integrated = integrated
	})
}

// SetBlockRole updates the role granted by a block status; nil unsets it
func (s *guildConfigService) SetBlockRole(ctx context.Context, guildID int64, status models.MemberStatus, roleID *int64) error {
	if status != models.StatusSupportBlocked && status != models.StatusCommunityBlocked {
		return fmt.Errorf("status %d has no block role", status)
	}

	setting := "support_block"
	if status == models.StatusCommunityBlocked {
		setting = "helping_block"
	}
	value := "unset"
	if roleID != nil {
		value = fmt.Sprintf("%d", *roleID)
	}

	return s.updateConfig(ctx, guildID, setting, value, func(config *models.GuildConfig) {
		if status == models.StatusSupportBlocked {
			config.SupportBlockRole = roleID
		} else {
			config.HelpingBlockRole = roleID
		}
	})
}

// updateConfig applies a mutation to a guild's configuration inside a unit
// of work and announces the change
func (s *guildConfigService) updateConfig(ctx context.Context, guildID int64, setting, newValue string, mutate func(*models.GuildConfig)) error {
	return s.updateConfigDeferred(ctx, guildID, func(config *models.GuildConfig) (string, string) {
		mutate(config)
		return setting, newValue
	})
}

// updateConfigDeferred is updateConfig for mutations that only know the new
// value once they see the current row, like toggles
func (s *guildConfigService) updateConfigDeferred(ctx context.Context, guildID int64, mutate func(*models.GuildConfig) (setting, newValue string)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get or create guild config: %w", err)
	}

	setting, newValue := mutate(config)

	if err := uow.GuildConfigRepository().Update(ctx, config); err != nil {
		return fmt.Errorf("failed to update guild config: %w", err)
	}

	uow.EventBus().Publish(events.GuildConfigUpdatedEvent{
		GuildID:  guildID,
		Setting:  setting,
		NewValue: newValue,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddRole adds a role to one of the guild's role lists. Returns false when
// the role was already present.
func (s *guildConfigService) AddRole(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("unknown role kind %q", kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Make sure the parent config row exists first
	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return false, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	added, err := uow.GuildRoleRepository().Add(ctx, kind, guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to add role: %w", err)
	}

	if added {
		uow.EventBus().Publish(events.RoleListChangedEvent{
			GuildID: guildID,
			Kind:    kind,
			RoleID:  roleID,
			Added:   true,
		})
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// RemoveRole removes a role from one of the guild's role lists
func (s *guildConfigService) RemoveRole(ctx context.Context, kind models.RoleKind, guildID, roleID int64) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown role kind %q", kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildRoleRepository().Remove(ctx, kind, guildID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	uow.EventBus().Publish(events.RoleListChangedEvent{
		GuildID: guildID,
		Kind:    kind,
		RoleID:  roleID,
		Added:   false,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRoles returns the guild's role list of the given kind
func (s *guildConfigService) ListRoles(ctx context.Context, kind models.RoleKind, guildID int64) ([]int64, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown role kind %q", kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	roles, err := uow.GuildRoleRepository().List(ctx, kind, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return roles, nil
}

// IsStaff reports whether any of the given roles is on the guild's staff list
func (s *guildConfigService) IsStaff(ctx context.Context, guildID int64, roleIDs []int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	staff, err := uow.GuildRoleRepository().List(ctx, models.RoleKindStaff, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to list staff roles: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	onList := make(map[int64]struct{}, len(staff))
	for _, id := range staff {
		onList[id] = struct{}{}
	}
	for _, id := range roleIDs {
		if _, ok := onList[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// TrackUser registers a ticket bot for the guild. Returns false when the
// user was already registered.
func (s *guildConfigService) TrackUser(ctx context.Context, guildID, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Make sure the parent config row exists first
	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return false, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	added, err := uow.TrackedUserRepository().Add(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to track user: %w", err)
	}

	if added {
		uow.EventBus().Publish(events.TrackedUserChangedEvent{
			GuildID: guildID,
			UserID:  userID,
			Added:   true,
		})
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// UntrackUser unregisters a ticket bot
func (s *guildConfigService) UntrackUser(ctx context.Context, guildID, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TrackedUserRepository().Remove(ctx, guildID, userID); err != nil {
		return fmt.Errorf("failed to untrack user: %w", err)
	}

	uow.EventBus().Publish(events.TrackedUserChangedEvent{
		GuildID: guildID,
		UserID:  userID,
		Added:   false,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListTrackedUsers returns the guild's registered ticket bots
func (s *guildConfigService) ListTrackedUsers(ctx context.Context, guildID int64) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.TrackedUserRepository().List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return users, nil
}

// DeleteGuildData removes everything stored for a guild
func (s *guildConfigService) DeleteGuildData(ctx context.Context, guildID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.GuildConfigRepository().Delete(ctx, guildID); err != nil {
		return fmt.Errorf("failed to delete guild data: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// PublishOverride asks the bot frontend to deliver a message to a channel.
// The guild must exist and have completed API integration.
func (s *guildConfigService) PublishOverride(ctx context.Context, guildID, channelID int64, content string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, err := uow.GuildConfigRepository().GetByGuildID(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild config: %w", err)
	}
	if config == nil {
		return models.ErrGuildNotFound
	}
	if !config.Integrated {
		return models.ErrNotIntegrated
	}

	uow.EventBus().Publish(events.OutboundMessageEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		Content:   content,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
