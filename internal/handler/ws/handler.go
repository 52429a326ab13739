// Package ws exposes the chat exchange protocol over a websocket, one
// connection per session. Frames carry the same semantics as the REST path.
package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	chatmodel "github.com/casterlin/fable-tavern/backend/internal/model/chat"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/pkg/utils"
)

// Handler upgrades chat connections and relays exchanges.
type Handler struct {
	chatSvc  *chatservice.Service
	upgrader websocket.Upgrader
}

// New creates the websocket chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws/{sessionID}", h.handleWebSocket)
}

type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type outboundFrame struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("session", sessionID).Msg("websocket chat opened")

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", sessionID).Msg("websocket read failed")
			}
			return
		}

		switch frame.Type {
		case "message":
			h.exchange(conn, r, sessionID, frame.Content)
		case "ping":
			h.write(conn, outboundFrame{Type: "pong"})
		default:
			h.write(conn, outboundFrame{
				Type:  "error",
				Error: "unknown frame type: " + frame.Type,
				Code:  http.StatusBadRequest,
			})
		}
	}
}

func (h *Handler) exchange(conn *websocket.Conn, r *http.Request, sessionID, content string) {
	reply, err := h.chatSvc.SendMessage(r.Context(), sessionID, content, chatmodel.MessageTypeText)
	if err != nil {
		h.write(conn, outboundFrame{
			Type:  "error",
			Error: err.Error(),
			Code:  statusForError(err),
		})
		return
	}

	h.write(conn, outboundFrame{
		Type:      "reply",
		Content:   reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) write(conn *websocket.Conn, frame outboundFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		log.Warn().Err(err).Msg("websocket write failed")
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound), errors.Is(err, chatservice.ErrCharacterNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatservice.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, chatservice.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, chatservice.ErrBackendUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
