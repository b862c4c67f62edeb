package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ticketsplus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGuildConfigService is a mock implementation of GuildConfigService
type MockGuildConfigService struct {
	mock.Mock
}

func (m *MockGuildConfigService) GetConfigDetail(ctx context.Context, guildID int64) (*models.GuildConfigDetail, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfigDetail), args.Error(1)
}

func (m *MockGuildConfigService) PublishOverride(ctx context.Context, guildID, channelID int64, content string) error {
	args := m.Called(ctx, guildID, channelID, content)
	return args.Error(0)
}

// MockTicketService is a mock implementation of TicketService
type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) RegisterTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error) {
	args := m.Called(ctx, guildID, channelID, userID, noteThread)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.Ticket), args.String(1), args.Error(2)
}

const testToken = "sekrit"

func newTestHandlers() (*Handlers, *MockGuildConfigService, *MockTicketService) {
	mockConfigs := new(MockGuildConfigService)
	mockTickets := new(MockTicketService)
	return NewHandlers(mockConfigs, mockTickets, testToken), mockConfigs, mockTickets
}

// postJSON builds an authenticated POST carrying the given body
func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(AuthHeader, testToken)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateTicket(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	userID := int64(424242)
	ticket := &models.Ticket{
		ChannelID:   555,
		GuildID:     123456,
		UserID:      &userID,
		DateCreated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	mockTickets.On("RegisterTicket", mock.Anything, int64(123456), int64(555), &userID, (*int64)(nil)).
		Return(ticket, "Staff notes for Ticket <#555>.\n<@&111>", nil)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": "123456", "user_id": "424242", "ticket_channel_id": "555"}`))

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp ticketResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, snowflake(123456), resp.GuildID)
	assert.Equal(t, snowflake(555), resp.ChannelID)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, snowflake(424242), *resp.UserID)
	assert.Equal(t, "Staff notes for Ticket <#555>.\n<@&111>", resp.Notice)

	// IDs go out as strings
	assert.Contains(t, rr.Body.String(), `"guild_id":"123456"`)

	mockTickets.AssertExpectations(t)
}

func TestCreateTicket_NumericIDs(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	userID := int64(424242)
	mockTickets.On("RegisterTicket", mock.Anything, int64(123456), int64(555), &userID, (*int64)(nil)).
		Return(&models.Ticket{ChannelID: 555, GuildID: 123456, UserID: &userID}, "notice", nil)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": 123456, "user_id": 424242, "ticket_channel_id": 555}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockTickets.AssertExpectations(t)
}

func TestCreateTicket_MissingParameters(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets", `{"guild_id": "123456"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing or invalid parameters.")
	mockTickets.AssertNotCalled(t, "RegisterTicket",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTicket_MalformedID(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": "not-a-snowflake", "user_id": "1", "ticket_channel_id": "2"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing or invalid parameters.")
}

func TestCreateTicket_UnknownGuild(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	mockTickets.On("RegisterTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", models.ErrGuildNotFound)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": "123456", "user_id": "424242", "ticket_channel_id": "555"}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Guild not found.")
}

func TestCreateTicket_NotIntegrated(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	mockTickets.On("RegisterTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", models.ErrNotIntegrated)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": "123456", "user_id": "424242", "ticket_channel_id": "555"}`))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Guild not integrated.")
}

func TestCreateTicket_Duplicate(t *testing.T) {
	handlers, _, mockTickets := newTestHandlers()

	mockTickets.On("RegisterTicket", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", models.ErrTicketExists)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, postJSON("/tickets",
		`{"guild_id": "123456", "user_id": "424242", "ticket_channel_id": "555"}`))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Ticket already exists.")
}

func TestCreateTicket_MethodNotAllowed(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, httptest.NewRequest(http.MethodGet, "/tickets", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCreateTicket_NoBody(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/tickets", nil)
	req.Header.Set(AuthHeader, testToken)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No data provided.")
}

func TestCreateTicket_NoAuthToken(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "No authentication token provided.")
}

func TestCreateTicket_WrongAuthToken(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{}`))
	req.Header.Set(AuthHeader, "guess")
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid authentication token.")
}

func TestCreateTicket_NoContentType(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{}`))
	req.Header.Set(AuthHeader, testToken)

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No Content-Type header provided.")
}

func TestCreateTicket_WrongContentType(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{}`))
	req.Header.Set(AuthHeader, testToken)
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	handlers.CreateTicket(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid Content-Type header provided.")
}

func TestOverride(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	mockConfigs.On("PublishOverride", mock.Anything, int64(123456), int64(777), "hello there").
		Return(nil)

	rr := httptest.NewRecorder()
	handlers.Override(rr, postJSON("/override",
		`{"guild_id": "123456", "channel_id": "777", "message": "hello there"}`))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	mockConfigs.AssertExpectations(t)
}

func TestOverride_MissingMessage(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.Override(rr, postJSON("/override",
		`{"guild_id": "123456", "channel_id": "777"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing or invalid parameters.")
	mockConfigs.AssertNotCalled(t, "PublishOverride",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOverride_UnknownGuild(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	mockConfigs.On("PublishOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.ErrGuildNotFound)

	rr := httptest.NewRecorder()
	handlers.Override(rr, postJSON("/override",
		`{"guild_id": "123456", "channel_id": "777", "message": "hi"}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Guild not found.")
}

func TestOverride_NotIntegrated(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	mockConfigs.On("PublishOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.ErrNotIntegrated)

	rr := httptest.NewRecorder()
	handlers.Override(rr, postJSON("/override",
		`{"guild_id": "123456", "channel_id": "777", "message": "hi"}`))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "Guild not integrated.")
}

func TestGetGuild(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	supportBlock := int64(777000)
	detail := &models.GuildConfigDetail{
		Config: &models.GuildConfig{
			GuildID:          123456,
			OpenMessage:      models.DefaultOpenMessage,
			StaffTeamName:    models.DefaultStaffTeamName,
			Integrated:       true,
			SupportBlockRole: &supportBlock,
		},
		StaffRoles:     []int64{111, 222},
		ObserverRoles:  []int64{},
		CommunityRoles: []int64{333},
		CommunityPings: []int64{},
		TrackedUsers:   []int64{508391840525975553},
	}
	mockConfigs.On("GetConfigDetail", mock.Anything, int64(123456)).Return(detail, nil)

	req := httptest.NewRequest(http.MethodGet, "/guilds/123456", nil)
	req.Header.Set(AuthHeader, testToken)

	rr := httptest.NewRecorder()
	handlers.GetGuild(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp guildConfigResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, snowflake(123456), resp.GuildID)
	assert.Equal(t, models.DefaultOpenMessage, resp.OpenMessage)
	assert.True(t, resp.Integrated)
	require.NotNil(t, resp.SupportBlockRole)
	assert.Equal(t, snowflake(777000), *resp.SupportBlockRole)
	assert.Equal(t, []snowflake{111, 222}, resp.StaffRoles)

	// Empty role lists serialize as [], not null
	assert.Contains(t, rr.Body.String(), `"observer_roles":[]`)
	mockConfigs.AssertExpectations(t)
}

func TestGetGuild_NotFound(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	mockConfigs.On("GetConfigDetail", mock.Anything, int64(999)).Return(nil, models.ErrGuildNotFound)

	req := httptest.NewRequest(http.MethodGet, "/guilds/999", nil)
	req.Header.Set(AuthHeader, testToken)

	rr := httptest.NewRecorder()
	handlers.GetGuild(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Guild not found.")
}

func TestGetGuild_MalformedID(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/guilds/not-a-number", nil)
	req.Header.Set(AuthHeader, testToken)

	rr := httptest.NewRecorder()
	handlers.GetGuild(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockConfigs.AssertNotCalled(t, "GetConfigDetail", mock.Anything, mock.Anything)
}

func TestGetGuild_NoAuthToken(t *testing.T) {
	handlers, mockConfigs, _ := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.GetGuild(rr, httptest.NewRequest(http.MethodGet, "/guilds/123456", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "No authentication token provided.")
	mockConfigs.AssertNotCalled(t, "GetConfigDetail", mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	handlers, _, _ := newTestHandlers()

	rr := httptest.NewRecorder()
	handlers.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestSnowflakeRoundTrip(t *testing.T) {
	var s snowflake
	require.NoError(t, json.Unmarshal([]byte(`"508391840525975553"`), &s))
	assert.Equal(t, snowflake(508391840525975553), s)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"508391840525975553"`, string(out))
}
