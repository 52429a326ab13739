// Package chat implements the conversation orchestrator: it owns the exchange
// protocol that turns a user utterance into a persisted character reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/casterlin/fable-tavern/backend/internal/model/character"
	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
	"github.com/casterlin/fable-tavern/backend/internal/store/chatstore"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	// ErrSessionNotFound aliases the store sentinel so callers match a single
	// error regardless of which layer surfaced it.
	ErrSessionNotFound    = chatstore.ErrSessionNotFound
	ErrInvalidMessage     = errors.New("invalid message")
	ErrBackendUnavailable = errors.New("conversation backend unavailable")
	// ErrSessionBusy is returned when a second writer arrives while an
	// exchange for the same session is in flight. Contending calls are
	// rejected, never queued.
	ErrSessionBusy = errors.New("session busy")
)

// Responder produces a character's reply to a user utterance given the recent
// conversation window. Implementations own their transport and timeouts.
type Responder interface {
	Reply(ctx context.Context, char character.Character, history []chat.Message, utterance string) (string, error)
}

// Options tunes the exchange protocol.
type Options struct {
	// HistoryLimit bounds the context window handed to the backend.
	HistoryLimit int
	// MaxMessageLength caps inbound content length in runes; zero disables
	// the cap.
	MaxMessageLength int
}

// Service coordinates session creation, transcript appends and backend calls.
// It holds no transcript state of its own and never logs; every outcome is
// reported to the caller as a distinguishable error.
type Service struct {
	characters character.Store
	sessions   chatstore.SessionStore
	messages   chatstore.MessageStore
	backend    Responder
	opts       Options

	mu      sync.Mutex
	writers map[string]*sync.Mutex
}

// NewService wires the orchestrator to its collaborators.
func NewService(characters character.Store, sessions chatstore.SessionStore, messages chatstore.MessageStore, backend Responder, opts Options) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	return &Service{
		characters: characters,
		sessions:   sessions,
		messages:   messages,
		backend:    backend,
		opts:       opts,
		writers:    make(map[string]*sync.Mutex),
	}
}

// StartSession creates a new session for the (user, character) pair. Repeat
// calls with the same pair deliberately create distinct sessions so a user can
// hold several conversations with the same character at once.
func (s *Service) StartSession(ctx context.Context, userID, characterID string) (chat.Session, error) {
	if _, ok := s.characters.FindByID(characterID); !ok {
		return chat.Session{}, fmt.Errorf("%w: %s", ErrCharacterNotFound, characterID)
	}
	return s.sessions.Create(ctx, userID, characterID)
}

// SendMessage runs one exchange: the inbound message is appended, the backend
// is invoked with the character persona and the recent window, and the reply
// is appended and returned.
//
// If the backend fails the inbound message stays persisted and no reply is
// appended; ResendMessage re-attempts generation without duplicating the
// inbound message.
func (s *Service) SendMessage(ctx context.Context, sessionID, content string, msgType chat.MessageType) (string, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if err := s.validateContent(content); err != nil {
		return "", err
	}
	if msgType == "" {
		msgType = chat.MessageTypeText
	}

	release, ok := s.lockSession(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
	}
	defer release()

	char, ok := s.characters.FindByID(session.CharacterID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCharacterNotFound, session.CharacterID)
	}

	window, err := s.contextWindow(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if _, err := s.messages.Append(ctx, sessionID, chat.SenderUser, content, msgType); err != nil {
		return "", err
	}

	return s.generateReply(ctx, sessionID, char, window, content)
}

// ResendMessage re-runs reply generation for the last unanswered user message
// of a session. It never appends a new inbound message; it exists so clients
// can retry after ErrBackendUnavailable without duplicating their utterance.
func (s *Service) ResendMessage(ctx context.Context, sessionID string) (string, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	release, ok := s.lockSession(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
	}
	defer release()

	char, ok := s.characters.FindByID(session.CharacterID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCharacterNotFound, session.CharacterID)
	}

	transcript, err := s.messages.List(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(transcript) == 0 || transcript[len(transcript)-1].Sender != chat.SenderUser {
		return "", fmt.Errorf("%w: no unanswered message to resend", ErrInvalidMessage)
	}

	last := transcript[len(transcript)-1]
	window := tail(transcript[:len(transcript)-1], s.opts.HistoryLimit)
	return s.generateReply(ctx, sessionID, char, window, last.Content)
}

// GetSession resolves a session record by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// GetHistory returns the session transcript in append order. Unknown sessions
// yield an empty slice; the read is side-effect-free and safe to call
// speculatively.
func (s *Service) GetHistory(ctx context.Context, sessionID string) ([]chat.Message, error) {
	return s.messages.List(ctx, sessionID)
}

// ListSessions returns the user's sessions with transcript-derived summary
// fields.
func (s *Service) ListSessions(ctx context.Context, userID string) ([]chat.SessionSummary, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]chat.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		transcript, err := s.messages.List(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		summary := chat.SessionSummary{Session: session, MessageCount: len(transcript)}
		if n := len(transcript); n > 0 {
			summary.LastMessage = preview(transcript[n-1].Content)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) generateReply(ctx context.Context, sessionID string, char character.Character, window []chat.Message, utterance string) (string, error) {
	reply, err := s.backend.Reply(ctx, char, window, utterance)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if _, err := s.messages.Append(ctx, sessionID, chat.SenderCharacter, reply, chat.MessageTypeText); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *Service) contextWindow(ctx context.Context, sessionID string) ([]chat.Message, error) {
	transcript, err := s.messages.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return tail(transcript, s.opts.HistoryLimit), nil
}

func (s *Service) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidMessage)
	}
	if s.opts.MaxMessageLength > 0 && utf8.RuneCountInString(content) > s.opts.MaxMessageLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidMessage, s.opts.MaxMessageLength)
	}
	return nil
}

// lockSession enforces the single-writer discipline per session. Sessions are
// never deleted in-process, so lock entries live for the process lifetime.
func (s *Service) lockSession(sessionID string) (func(), bool) {
	s.mu.Lock()
	lock, ok := s.writers[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.writers[sessionID] = lock
	}
	s.mu.Unlock()

	if !lock.TryLock() {
		return nil, false
	}
	return lock.Unlock, true
}

func tail(messages []chat.Message, limit int) []chat.Message {
	if limit > 0 && len(messages) > limit {
		return messages[len(messages)-limit:]
	}
	return messages
}

const previewLength = 50

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
