package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/casterlin/fable-tavern/backend/internal/model/character"
	chatmodel "github.com/casterlin/fable-tavern/backend/internal/model/chat"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/pkg/utils"
)

// Handler exposes the chat orchestrator over HTTP.
type Handler struct {
	chatSvc    *chatservice.Service
	characters character.Store
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, characters character.Store) *Handler {
	return &Handler{
		chatSvc:    chatSvc,
		characters: characters,
	}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/session", h.handleStartSession)
	r.Post("/chat/send", h.handleSendMessage)
	r.Post("/chat/resend", h.handleResendMessage)
	r.Get("/chat/history/{sessionID}", h.handleGetHistory)
	r.Get("/chat/sessions/{userID}", h.handleListSessions)
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID      string `json:"userId"`
		CharacterID string `json:"characterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" || payload.CharacterID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId and characterId are required")
		return
	}

	session, err := h.chatSvc.StartSession(r.Context(), payload.UserID, payload.CharacterID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The greeting rides on the response only; it is never part of the
	// persisted transcript.
	greeting := ""
	if char, ok := h.characters.FindByID(session.CharacterID); ok {
		greeting = char.Greeting
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"session":  session,
		"greeting": greeting,
	})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Content   string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	reply, err := h.chatSvc.SendMessage(r.Context(), payload.SessionID, payload.Content, chatmodel.MessageTypeText)
	if err != nil {
		log.Debug().Err(err).Str("session", payload.SessionID).Msg("send message failed")
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":     reply,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleResendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	reply, err := h.chatSvc.ResendMessage(r.Context(), payload.SessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":     reply,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.GetHistory(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sessions, err := h.chatSvc.ListSessions(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, sessions)
}

// respondServiceError maps orchestrator error kinds onto stable HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, chatservice.ErrCharacterNotFound):
		utils.RespondError(w, http.StatusNotFound, "character not found")
	case errors.Is(err, chatservice.ErrInvalidMessage):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, chatservice.ErrSessionBusy):
		utils.RespondError(w, http.StatusConflict, "session busy, try again shortly")
	case errors.Is(err, chatservice.ErrBackendUnavailable):
		utils.RespondError(w, http.StatusBadGateway, "conversation backend unavailable")
	default:
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
