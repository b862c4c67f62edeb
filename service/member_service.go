package service

import (
	"context"
	"fmt"
	"time"

	"ticketsplus/events"
	"ticketsplus/models"
)

// memberService implements the MemberService interface
type memberService struct {
	uowFactory UnitOfWorkFactory
}

// NewMemberService creates a new member service
func NewMemberService(uowFactory UnitOfWorkFactory) MemberService {
	return &memberService{
		uowFactory: uowFactory,
	}
}

// EnsureMember retrieves a guild member record, creating one when absent
func (s *memberService) EnsureMember(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Make sure the parent config row exists first
	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	member, _, err := uow.MemberRepository().GetOrCreate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create member: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, nil
}

// SetOwner flags a member as a guild owner
func (s *memberService) SetOwner(ctx context.Context, guildID, userID int64, isOwner bool) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return fmt.Errorf("failed to get or create guild config: %w", err)
	}

	if _, _, err := uow.MemberRepository().GetOrCreate(ctx, userID, guildID); err != nil {
		return fmt.Errorf("failed to get or create member: %w", err)
	}

	if err := uow.MemberRepository().SetOwner(ctx, userID, guildID, isOwner); err != nil {
		return fmt.Errorf("failed to set owner flag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ApplyStatus places a member under a block status until the given time; nil
// means indefinitely. The matching block role must be configured for the
// guild before the status can be handed out.
func (s *memberService) ApplyStatus(ctx context.Context, guildID, userID int64, status models.MemberStatus, until *time.Time) (*models.Member, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown member status %d", status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	config, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	// A block status needs its role configured so the frontend can apply it
	switch status {
	case models.StatusSupportBlocked:
		if config.SupportBlockRole == nil {
			return nil, models.ErrBlockRoleNotSet
		}
	case models.StatusCommunityBlocked:
		if config.HelpingBlockRole == nil {
			return nil, models.ErrBlockRoleNotSet
		}
	}

	member, _, err := uow.MemberRepository().GetOrCreate(ctx, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create member: %w", err)
	}

	oldStatus := member.Status

	if status == models.StatusNone {
		until = nil
	}
	if err := uow.MemberRepository().UpdateStatus(ctx, userID, guildID, status, until); err != nil {
		return nil, fmt.Errorf("failed to update member status: %w", err)
	}

	member.Status = status
	member.StatusTill = until

	uow.EventBus().Publish(events.MemberStatusChangedEvent{
		GuildID:   guildID,
		UserID:    userID,
		OldStatus: oldStatus,
		NewStatus: status,
		Until:     until,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, nil
}

// ClearStatus lifts a member's block status
func (s *memberService) ClearStatus(ctx context.Context, guildID, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByUserGuild(ctx, userID, guildID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return models.ErrMemberNotFound
	}

	if err := uow.MemberRepository().UpdateStatus(ctx, userID, guildID, models.StatusNone, nil); err != nil {
		return fmt.Errorf("failed to clear member status: %w", err)
	}

	uow.EventBus().Publish(events.MemberStatusChangedEvent{
		GuildID:   guildID,
		UserID:    userID,
		OldStatus: member.Status,
		NewStatus: models.StatusNone,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SweepExpiredStatuses resets block statuses whose expiry passed and reports
// how many members were reset
func (s *memberService) SweepExpiredStatuses(ctx context.Context) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	members, err := uow.MemberRepository().ListExpiredStatuses(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired statuses: %w", err)
	}

	for _, member := range members {
		if err := uow.MemberRepository().UpdateStatus(ctx, member.UserID, member.GuildID, models.StatusNone, nil); err != nil {
			return 0, fmt.Errorf("failed to reset status for member %d in guild %d: %w", member.UserID, member.GuildID, err)
		}

		uow.EventBus().Publish(events.MemberStatusExpiredEvent{
			GuildID:   member.GuildID,
			UserID:    member.UserID,
			OldStatus: member.Status,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(members), nil
}
