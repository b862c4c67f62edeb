package service

import (
	"context"

	"ticketsplus/events"

	"github.com/stretchr/testify/mock"
)

// noopEventPublisher drops all events. Used by MockUnitOfWork when a test
// does not care about published events.
type noopEventPublisher struct{}

func (noopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are regular testify expectations; the repository getters hand out
// whatever was wired via SetRepositories so tests can stub persistence
// without expectations on every getter call.
type MockUnitOfWork struct {
	mock.Mock

	guildConfigRepo GuildConfigRepository
	guildRoleRepo   GuildRoleRepository
	trackedUserRepo TrackedUserRepository
	memberRepo      MemberRepository
	ticketRepo      TicketRepository
	tagRepo         TagRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repository mocks this unit of work hands out.
// Pass nil for repositories the test under scrutiny never touches.
func (m *MockUnitOfWork) SetRepositories(
	guildConfigRepo GuildConfigRepository,
	guildRoleRepo GuildRoleRepository,
	trackedUserRepo TrackedUserRepository,
	memberRepo MemberRepository,
	ticketRepo TicketRepository,
	tagRepo TagRepository,
) {
	m.guildConfigRepo = guildConfigRepo
	m.guildRoleRepo = guildRoleRepo
	m.trackedUserRepo = trackedUserRepo
	m.memberRepo = memberRepo
	m.ticketRepo = ticketRepo
	m.tagRepo = tagRepo
}

// SetEventBus wires the event publisher returned by EventBus. Tests that
// assert on published events pass a MockEventPublisher here.
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) GuildRoleRepository() GuildRoleRepository {
	return m.guildRoleRepo
}

func (m *MockUnitOfWork) TrackedUserRepository() TrackedUserRepository {
	return m.trackedUserRepo
}

func (m *MockUnitOfWork) MemberRepository() MemberRepository {
	return m.memberRepo
}

func (m *MockUnitOfWork) TicketRepository() TicketRepository {
	return m.ticketRepo
}

func (m *MockUnitOfWork) TagRepository() TagRepository {
	return m.tagRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopEventPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
