package service

import (
	"context"
	"fmt"

	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
)

// tagService implements the TagService interface
type tagService struct {
	uowFactory UnitOfWorkFactory
}

// NewTagService creates a new tag service
func NewTagService(uowFactory UnitOfWorkFactory) TagService {
	return &tagService{
		uowFactory: uowFactory,
	}
}

// CreateTag stores a new tag for a guild. Names are lowercased before use.
func (s *tagService) CreateTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (*models.Tag, error) {
	name = models.NormalizeTagName(name)
	if err := models.ValidateTagName(name); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Make sure the parent config row exists first
	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return nil, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	tag := &models.Tag{
		GuildID: guildID,
		Name:    name,
		Content: content,
		Embed:   embed,
	}
	if err := uow.TagRepository().Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tag, nil
}

// EditTag replaces the content and embed of an existing tag. Returns
// ErrTagNotFound when the tag does not exist.
func (s *tagService) EditTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (*models.Tag, error) {
	name = models.NormalizeTagName(name)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tag := &models.Tag{
		GuildID: guildID,
		Name:    name,
		Content: content,
		Embed:   embed,
	}
	if err := uow.TagRepository().Update(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to edit tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tag, nil
}

// DeleteTag removes a tag
func (s *tagService) DeleteTag(ctx context.Context, guildID int64, name string) error {
	name = models.NormalizeTagName(name)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TagRepository().Delete(ctx, guildID, name); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ToggleTag creates the tag when absent and deletes it when present.
// Returns true when the tag was created.
func (s *tagService) ToggleTag(ctx context.Context, guildID int64, name, content string, embed *discordgo.MessageEmbed) (bool, error) {
	name = models.NormalizeTagName(name)
	if err := models.ValidateTagName(name); err != nil {
		return false, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID); err != nil {
		return false, fmt.Errorf("failed to get or create guild config: %w", err)
	}

	existing, err := uow.TagRepository().Get(ctx, guildID, name)
	if err != nil {
		return false, fmt.Errorf("failed to get tag: %w", err)
	}

	created := false
	if existing != nil {
		if err := uow.TagRepository().Delete(ctx, guildID, name); err != nil {
			return false, fmt.Errorf("failed to delete tag: %w", err)
		}
	} else {
		tag := &models.Tag{
			GuildID: guildID,
			Name:    name,
			Content: content,
			Embed:   embed,
		}
		if err := uow.TagRepository().Create(ctx, tag); err != nil {
			return false, fmt.Errorf("failed to create tag: %w", err)
		}
		created = true
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// GetTag retrieves a tag by name. Returns ErrTagNotFound when absent.
func (s *tagService) GetTag(ctx context.Context, guildID int64, name string) (*models.Tag, error) {
	name = models.NormalizeTagName(name)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tag, err := uow.TagRepository().Get(ctx, guildID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	if tag == nil {
		return nil, models.ErrTagNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tag, nil
}

// ListTags returns all tags for a guild sorted by name
func (s *tagService) ListTags(ctx context.Context, guildID int64) ([]*models.Tag, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tags, err := uow.TagRepository().List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tags, nil
}
