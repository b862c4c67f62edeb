package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ticketsplus/models"

	log "github.com/sirupsen/logrus"
)

// AuthHeader carries the shared integration secret on every request.
const AuthHeader = "ticketsplus-api-auth"

// GuildConfigService is the slice of the guild config service the API uses
type GuildConfigService interface {
	GetConfigDetail(ctx context.Context, guildID int64) (*models.GuildConfigDetail, error)
	PublishOverride(ctx context.Context, guildID, channelID int64, content string) error
}

// TicketService is the slice of the ticket service the API uses
type TicketService interface {
	RegisterTicket(ctx context.Context, guildID, channelID int64, userID *int64, noteThread *int64) (*models.Ticket, string, error)
}

// Handlers serves the integration API the upstream ticket bot calls into.
type Handlers struct {
	configs   GuildConfigService
	tickets   TicketService
	authToken string
}

// NewHandlers creates the API handler set
func NewHandlers(configs GuildConfigService, tickets TicketService, authToken string) *Handlers {
	return &Handlers{
		configs:   configs,
		tickets:   tickets,
		authToken: authToken,
	}
}

// snowflake is a Discord ID that accepts JSON strings or numbers on the way
// in and always renders as a string on the way out, matching how Discord's
// own API serializes IDs.
type snowflake int64

func (s snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(s), 10))), nil
}

func (s *snowflake) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q", raw)
	}
	*s = snowflake(id)
	return nil
}

type ticketRequest struct {
	GuildID         snowflake `json:"guild_id"`
	UserID          snowflake `json:"user_id"`
	TicketChannelID snowflake `json:"ticket_channel_id"`
}

type ticketResponse struct {
	GuildID     snowflake  `json:"guild_id"`
	ChannelID   snowflake  `json:"channel_id"`
	UserID      *snowflake `json:"user_id,omitempty"`
	DateCreated time.Time  `json:"date_created"`
	Notice      string     `json:"notice"`
}

type overrideRequest struct {
	GuildID   snowflake `json:"guild_id"`
	ChannelID snowflake `json:"channel_id"`
	Message   string    `json:"message"`
}

type guildConfigResponse struct {
	GuildID          snowflake   `json:"guild_id"`
	OpenMessage      string      `json:"open_message"`
	StaffTeamName    string      `json:"staff_team_name"`
	FirstAutoClose   *int        `json:"first_autoclose"`
	MsgDiscovery     bool        `json:"msg_discovery"`
	StripButtons     bool        `json:"strip_buttons"`
	Integrated       bool        `json:"integrated"`
	SupportBlockRole *snowflake  `json:"support_block,omitempty"`
	HelpingBlockRole *snowflake  `json:"helping_block,omitempty"`
	StaffRoles       []snowflake `json:"staff_roles"`
	ObserverRoles    []snowflake `json:"observer_roles"`
	CommunityRoles   []snowflake `json:"community_roles"`
	CommunityPings   []snowflake `json:"community_pings"`
	TrackedUsers     []snowflake `json:"tracked_users"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateTicket registers a channel the upstream bot just opened as a ticket.
// Responds 201 with the stored ticket and the rendered staff-note opener
// the bot should post.
func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := h.prepare(w, r)
	if !ok {
		return
	}

	var req ticketRequest
	if err := json.Unmarshal(body, &req); err != nil ||
		req.GuildID == 0 || req.UserID == 0 || req.TicketChannelID == 0 {
		respondWithError(w, "Missing or invalid parameters.", http.StatusBadRequest)
		return
	}

	userID := int64(req.UserID)
	ticket, notice, err := h.tickets.RegisterTicket(r.Context(), int64(req.GuildID), int64(req.TicketChannelID), &userID, nil)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrGuildNotFound):
			respondWithError(w, "Guild not found.", http.StatusNotFound)
		case errors.Is(err, models.ErrNotIntegrated):
			respondWithError(w, "Guild not integrated.", http.StatusConflict)
		case errors.Is(err, models.ErrTicketExists):
			respondWithError(w, "Ticket already exists.", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to register ticket")
			respondWithError(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	resp := ticketResponse{
		GuildID:     snowflake(ticket.GuildID),
		ChannelID:   snowflake(ticket.ChannelID),
		DateCreated: ticket.DateCreated,
		Notice:      notice,
	}
	if ticket.UserID != nil {
		id := snowflake(*ticket.UserID)
		resp.UserID = &id
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// Override queues a message for the bot to deliver into an arbitrary channel.
func (h *Handlers) Override(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, ok := h.prepare(w, r)
	if !ok {
		return
	}

	var req overrideRequest
	if err := json.Unmarshal(body, &req); err != nil ||
		req.GuildID == 0 || req.ChannelID == 0 || req.Message == "" {
		respondWithError(w, "Missing or invalid parameters.", http.StatusBadRequest)
		return
	}

	err := h.configs.PublishOverride(r.Context(), int64(req.GuildID), int64(req.ChannelID), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrGuildNotFound):
			respondWithError(w, "Guild not found.", http.StatusNotFound)
		case errors.Is(err, models.ErrNotIntegrated):
			respondWithError(w, "Guild not integrated.", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to queue override message")
			respondWithError(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Override queued."})
}

// GetGuild returns a guild's full configuration detail.
func (h *Handlers) GetGuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.checkAuth(w, r) {
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/guilds/")
	guildID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondWithError(w, "Missing or invalid parameters.", http.StatusBadRequest)
		return
	}

	detail, err := h.configs.GetConfigDetail(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, models.ErrGuildNotFound) {
			respondWithError(w, "Guild not found.", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load guild config detail")
		respondWithError(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, newGuildConfigResponse(detail))
}

// Health is the liveness endpoint. No auth so load balancers can poll it.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// prepare runs the shared checks every authenticated POST goes through, in
// the order the upstream bot expects: body present, auth token, content
// type. Returns the raw body on success.
func (h *Handlers) prepare(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		respondWithError(w, "No data provided.", http.StatusBadRequest)
		return nil, false
	}

	if !h.checkAuth(w, r) {
		return nil, false
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		respondWithError(w, "No Content-Type header provided.", http.StatusBadRequest)
		return nil, false
	}
	if contentType != "application/json" {
		respondWithError(w, "Invalid Content-Type header provided.", http.StatusBadRequest)
		return nil, false
	}

	return body, true
}

// checkAuth validates the shared integration secret
func (h *Handlers) checkAuth(w http.ResponseWriter, r *http.Request) bool {
	token := r.Header.Get(AuthHeader)
	if token == "" {
		respondWithError(w, "No authentication token provided.", http.StatusUnauthorized)
		return false
	}
	if token != h.authToken {
		respondWithError(w, "Invalid authentication token.", http.StatusUnauthorized)
		return false
	}
	return true
}

func newGuildConfigResponse(detail *models.GuildConfigDetail) guildConfigResponse {
	config := detail.Config
	resp := guildConfigResponse{
		GuildID:        snowflake(config.GuildID),
		OpenMessage:    config.OpenMessage,
		StaffTeamName:  config.StaffTeamName,
		FirstAutoClose: config.FirstAutoClose,
		MsgDiscovery:   config.MsgDiscovery,
		StripButtons:   config.StripButtons,
		Integrated:     config.Integrated,
		StaffRoles:     snowflakes(detail.StaffRoles),
		ObserverRoles:  snowflakes(detail.ObserverRoles),
		CommunityRoles: snowflakes(detail.CommunityRoles),
		CommunityPings: snowflakes(detail.CommunityPings),
		TrackedUsers:   snowflakes(detail.TrackedUsers),
	}
	if config.SupportBlockRole != nil {
		id := snowflake(*config.SupportBlockRole)
		resp.SupportBlockRole = &id
	}
	if config.HelpingBlockRole != nil {
		id := snowflake(*config.HelpingBlockRole)
		resp.HelpingBlockRole = &id
	}
	return resp
}

// snowflakes always yields a non-nil slice so role lists serialize as []
// instead of null.
func snowflakes(ids []int64) []snowflake {
	out := make([]snowflake, 0, len(ids))
	for _, id := range ids {
		out = append(out, snowflake(id))
	}
	return out
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}
