package service

import (
	"context"
	"strings"
	"testing"

	"ticketsplus/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTagService_CreateTag_NormalizesName(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(mockConfigRepo, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	config := &models.GuildConfig{GuildID: 123456}
	embed := &discordgo.MessageEmbed{Title: "Server Rules"}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockConfigRepo.On("GetOrCreate", ctx, int64(123456)).Return(config, false, nil)
	mockTagRepo.On("Create", ctx, mock.MatchedBy(func(tag *models.Tag) bool {
		return tag.GuildID == 123456 &&
			tag.Name == "rules" &&
			tag.Content == "Read the rules first." &&
			tag.Embed == embed
	})).Return(nil)

	tag, err := service.CreateTag(ctx, 123456, "  Rules ", "Read the rules first.", embed)

	assert.NoError(t, err)
	assert.Equal(t, "rules", tag.Name)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockTagRepo.AssertExpectations(t)
}

func TestTagService_CreateTag_EmptyName(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockFactory := new(MockUnitOfWorkFactory)

	service := NewTagService(mockFactory)

	tag, err := service.CreateTag(ctx, 123456, "   ", "content", nil)

	assert.ErrorIs(t, err, models.ErrTagNameEmpty)
	assert.Nil(t, tag)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestTagService_CreateTag_NameTooLong(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockFactory := new(MockUnitOfWorkFactory)

	service := NewTagService(mockFactory)

	tag, err := service.CreateTag(ctx, 123456, strings.Repeat("a", models.MaxTagNameLength+1), "content", nil)

	assert.ErrorIs(t, err, models.ErrTagNameTooLong)
	assert.Nil(t, tag)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestTagService_CreateTag_Duplicate(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(mockConfigRepo, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	config := &models.GuildConfig{GuildID: 123456}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockConfigRepo.On("GetOrCreate", ctx, int64(123456)).Return(config, false, nil)
	mockTagRepo.On("Create", ctx, mock.Anything).Return(models.ErrTagExists)

	tag, err := service.CreateTag(ctx, 123456, "rules", "content", nil)

	assert.ErrorIs(t, err, models.ErrTagExists)
	assert.Nil(t, tag)

	mockUoW.AssertNotCalled(t, "Commit")
	mockTagRepo.AssertExpectations(t)
}

func TestTagService_EditTag(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	embed := &discordgo.MessageEmbed{Title: "Updated Rules"}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTagRepo.On("Update", ctx, mock.MatchedBy(func(tag *models.Tag) bool {
		return tag.GuildID == 123456 &&
			tag.Name == "rules" &&
			tag.Content == "The rules changed." &&
			tag.Embed == embed
	})).Return(nil)

	tag, err := service.EditTag(ctx, 123456, "Rules", "The rules changed.", embed)

	assert.NoError(t, err)
	assert.Equal(t, "rules", tag.Name)
	assert.Equal(t, "The rules changed.", tag.Content)

	mockUoW.AssertExpectations(t)
	mockTagRepo.AssertExpectations(t)
}

func TestTagService_EditTag_NotFound(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTagRepo.On("Update", ctx, mock.Anything).Return(models.ErrTagNotFound)

	tag, err := service.EditTag(ctx, 123456, "missing", "content", nil)

	assert.ErrorIs(t, err, models.ErrTagNotFound)
	assert.Nil(t, tag)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTagService_ToggleTag_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(mockConfigRepo, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	config := &models.GuildConfig{GuildID: 123456}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockConfigRepo.On("GetOrCreate", ctx, int64(123456)).Return(config, false, nil)
	mockTagRepo.On("Get", ctx, int64(123456), "faq").Return(nil, nil)
	mockTagRepo.On("Create", ctx, mock.MatchedBy(func(tag *models.Tag) bool {
		return tag.Name == "faq" && tag.Content == "See the pinned message."
	})).Return(nil)

	created, err := service.ToggleTag(ctx, 123456, "FAQ", "See the pinned message.", nil)

	assert.NoError(t, err)
	assert.True(t, created)

	mockTagRepo.AssertExpectations(t)
}

func TestTagService_ToggleTag_RemovesWhenPresent(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(mockConfigRepo, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	config := &models.GuildConfig{GuildID: 123456}
	existing := &models.Tag{GuildID: 123456, Name: "faq", Content: "old content"}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockConfigRepo.On("GetOrCreate", ctx, int64(123456)).Return(config, false, nil)
	mockTagRepo.On("Get", ctx, int64(123456), "faq").Return(existing, nil)
	mockTagRepo.On("Delete", ctx, int64(123456), "faq").Return(nil)

	created, err := service.ToggleTag(ctx, 123456, "faq", "ignored", nil)

	assert.NoError(t, err)
	assert.False(t, created)

	mockTagRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockTagRepo.AssertExpectations(t)
}

func TestTagService_GetTag_NotFound(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTagRepo.On("Get", ctx, int64(123456), "missing").Return(nil, nil)

	tag, err := service.GetTag(ctx, 123456, "missing")

	assert.ErrorIs(t, err, models.ErrTagNotFound)
	assert.Nil(t, tag)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTagService_DeleteTag_NotFound(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTagRepo.On("Delete", ctx, int64(123456), "missing").Return(models.ErrTagNotFound)

	err := service.DeleteTag(ctx, 123456, "missing")

	assert.ErrorIs(t, err, models.ErrTagNotFound)

	mockUoW.AssertNotCalled(t, "Commit")
}

func TestTagService_ListTags(t *testing.T) {
	ctx := context.Background()

	// Setup mocks
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockTagRepo := new(MockTagRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, nil, mockTagRepo)

	service := NewTagService(mockFactory)

	tags := []*models.Tag{
		{GuildID: 123456, Name: "faq", Content: "a"},
		{GuildID: 123456, Name: "rules", Content: "b"},
	}

	// Mock expectations
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockTagRepo.On("List", ctx, int64(123456)).Return(tags, nil)

	result, err := service.ListTags(ctx, 123456)

	assert.NoError(t, err)
	assert.Equal(t, tags, result)

	mockTagRepo.AssertExpectations(t)
}
