package voice

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	chatmodel "github.com/casterlin/fable-tavern/backend/internal/model/chat"
	chatservice "github.com/casterlin/fable-tavern/backend/internal/service/chat"
	"github.com/casterlin/fable-tavern/backend/internal/service/speech"
	"github.com/casterlin/fable-tavern/backend/pkg/utils"
)

// 10 MiB upload ceiling for audio payloads.
const maxAudioBytes = 10 << 20

// Handler serves the voice input path: transcription uploads and
// voice-modality chat sends.
type Handler struct {
	transcriber speech.Transcriber
	chatSvc     *chatservice.Service
}

// New creates the voice handler.
func New(transcriber speech.Transcriber, chatSvc *chatservice.Service) *Handler {
	return &Handler{
		transcriber: transcriber,
		chatSvc:     chatSvc,
	}
}

// RegisterRoutes mounts the voice endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/voice/upload", h.handleUpload)
	r.Post("/chat/voice", h.handleVoiceMessage)
}

// handleUpload accepts a multipart audio file, transcribes it, and returns
// the text. The transcript never reaches the transcript store here; the
// client decides whether to send it as a message.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "transcription unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	format := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	text, err := h.transcriber.Transcribe(r.Context(), audio, format)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed")
		if errors.Is(err, speech.ErrTranscriptionFailed) {
			utils.RespondError(w, http.StatusInternalServerError, "transcription failed")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleVoiceMessage runs the exchange protocol for an utterance that
// originated as voice; the inbound message is recorded with the voice
// modality.
func (h *Handler) handleVoiceMessage(w http.ResponseWriter, r *http.Request) {
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

	reply, err := h.chatSvc.SendMessage(r.Context(), payload.SessionID, payload.Content, chatmodel.MessageTypeVoice)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":     reply,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

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
