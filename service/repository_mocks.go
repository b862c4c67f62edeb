package service

import (
	"context"
	"time"

	"ticketsplus/events"
	"ticketsplus/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetByGuildID(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, bool, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.GuildConfig), args.Bool(1), args.Error(2)
}

func (m *MockGuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) Delete(ctx context.Context, guildID int64) error {
	args := m.Called(ctx, guildID)
	return args.Error(0)
}

func (m *MockGuildConfigRepository) ListAutoCloseEnabled(ctx context.Context) ([]*models.GuildConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildConfig), args.Error(1)
}

// MockGuildRoleRepository is a mock implementation of GuildRoleRepository
type MockGuildRoleRepository struct {
	mock.Mock
}

func (m *MockGuildRoleRepository) Add(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error) {
	args := m.Called(ctx, kind, guildID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRoleRepository) Remove(ctx context.Context, kind models.RoleKind, guildID, roleID int64) error {
	args := m.Called(ctx, kind, guildID, roleID)
	return args.Error(0)
}

func (m *MockGuildRoleRepository) List(ctx context.Context, kind models.RoleKind, guildID int64) ([]int64, error) {
	args := m.Called(ctx, kind, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGuildRoleRepository) Has(ctx context.Context, kind models.RoleKind, guildID, roleID int64) (bool, error) {
	args := m.Called(ctx, kind, guildID, roleID)
	return args.Bool(0), args.Error(1)
}

// MockTrackedUserRepository is a mock implementation of TrackedUserRepository
type MockTrackedUserRepository struct {
	mock.Mock
}

func (m *MockTrackedUserRepository) Add(ctx context.Context, guildID, userID int64) (bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrackedUserRepository) Remove(ctx context.Context, guildID, userID int64) error {
	args := m.Called(ctx, guildID, userID)
	return args.Error(0)
}

func (m *MockTrackedUserRepository) List(ctx context.Context, guildID int64) ([]int64, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockTrackedUserRepository) IsTracked(ctx context.Context, guildID, userID int64) (bool, error) {
	args := m.Called(ctx, guildID, userID)
	return args.Bool(0), args.Error(1)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetOrCreate(ctx context.Context, userID, guildID int64) (*models.Member, bool, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Member), args.Bool(1), args.Error(2)
}

func (m *MockMemberRepository) GetByUserGuild(ctx context.Context, userID, guildID int64) (*models.Member, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) SetOwner(ctx context.Context, userID, guildID int64, isOwner bool) error {
	args := m.Called(ctx, userID, guildID, isOwner)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateStatus(ctx context.Context, userID, guildID int64, status models.MemberStatus, till *time.Time) error {
	args := m.Called(ctx, userID, guildID, status, till)
	return args.Error(0)
}

func (m *MockMemberRepository) ListExpiredStatuses(ctx context.Context, now time.Time) ([]*models.Member, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByChannelID(ctx context.Context, channelID int64) (*models.Ticket, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByNoteThread(ctx context.Context, threadID int64) (*models.Ticket, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) SetNoteThread(ctx context.Context, channelID int64, threadID *int64) error {
	args := m.Called(ctx, channelID, threadID)
	return args.Error(0)
}

func (m *MockTicketRepository) SetAnonymous(ctx context.Context, channelID int64, anonymous bool) error {
	args := m.Called(ctx, channelID, anonymous)
	return args.Error(0)
}

func (m *MockTicketRepository) UpdateLastResponse(ctx context.Context, channelID int64, at time.Time) error {
	args := m.Called(ctx, channelID, at)
	return args.Error(0)
}

func (m *MockTicketRepository) MarkNotified(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockTicketRepository) ListPendingNotify(ctx context.Context, guildID int64, cutoff time.Time) ([]*models.Ticket, error) {
	args := m.Called(ctx, guildID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Get(ctx context.Context, guildID int64, name string) (*models.Tag, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, guildID int64, name string) error {
	args := m.Called(ctx, guildID, name)
	return args.Error(0)
}

func (m *MockTagRepository) List(ctx context.Context, guildID int64) ([]*models.Tag, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tag), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}
