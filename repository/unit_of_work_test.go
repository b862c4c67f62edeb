package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"ticketsplus/events"
	"ticketsplus/models"
	"ticketsplus/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsAndFlushesEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	var delivered atomic.Int32
	eventBus.Subscribe(events.EventTypeTicketCreated, func(ctx context.Context, event events.Event) {
		delivered.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, eventBus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, 100)
	require.NoError(t, err)
	err = uow.TicketRepository().Create(ctx, testutil.CreateTestTicket(1, 100))
	require.NoError(t, err)
	uow.EventBus().Publish(events.TicketCreatedEvent{ChannelID: 1, GuildID: 100})

	require.NoError(t, uow.Commit())

	// Changes are visible outside the transaction
	ticket, err := NewTicketRepository(testDB.DB).GetByChannelID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, ticket)

	// Event handler runs asynchronously after the flush
	assert.Eventually(t, func() bool {
		return delivered.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUnitOfWork_RollbackDiscardsChangesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	var delivered atomic.Int32
	eventBus.Subscribe(events.EventTypeTicketCreated, func(ctx context.Context, event events.Event) {
		delivered.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, eventBus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, 100)
	require.NoError(t, err)
	err = uow.TicketRepository().Create(ctx, testutil.CreateTestTicket(1, 100))
	require.NoError(t, err)
	uow.EventBus().Publish(events.TicketCreatedEvent{ChannelID: 1, GuildID: 100})

	require.NoError(t, uow.Rollback())

	// Nothing was persisted
	config, err := NewGuildConfigRepository(testDB.DB).GetByGuildID(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, config)

	ticket, err := NewTicketRepository(testDB.DB).GetByChannelID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, ticket)

	// Nothing was emitted
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), delivered.Load())
}

func TestUnitOfWork_RollbackAfterCommitIsSafe(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, 100)
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback())

	config, err := NewGuildConfigRepository(testDB.DB).GetByGuildID(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, models.DefaultStaffTeamName, config.StaffTeamName)
}

func TestUnitOfWork_RepositoriesShareTheTransaction(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	// A guild created inside the transaction is visible to the other
	// repositories before commit
	_, _, err := uow.GuildConfigRepository().GetOrCreate(ctx, 100)
	require.NoError(t, err)

	added, err := uow.GuildRoleRepository().Add(ctx, models.RoleKindStaff, 100, 1)
	require.NoError(t, err)
	assert.True(t, added)

	_, err = uow.TrackedUserRepository().Add(ctx, 100, 2)
	require.NoError(t, err)

	_, _, err = uow.MemberRepository().GetOrCreate(ctx, 3, 100)
	require.NoError(t, err)

	err = uow.TagRepository().Create(ctx, testutil.CreateTestTag(100, "faq", "content"))
	require.NoError(t, err)

	// But not outside it
	outside, err := NewGuildConfigRepository(testDB.DB).GetByGuildID(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, outside)
}
