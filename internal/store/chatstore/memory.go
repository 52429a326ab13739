package chatstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
)

// MemoryStore keeps sessions and transcripts in process memory. It mirrors the
// ordering semantics of the SQLite store so the two are interchangeable.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	byUser   map[string][]string
	messages map[string][]chat.Message
}

var (
	_ SessionStore = &MemoryStore{}
	_ MessageStore = &MemoryStore{}
)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]chat.Session),
		byUser:   make(map[string][]string),
		messages: make(map[string][]chat.Message),
	}
}

// Create provisions a new session with a fresh uuid.
func (s *MemoryStore) Create(_ context.Context, userID, characterID string) (chat.Session, error) {
	session := chat.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: characterID,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.byUser[userID] = append(s.byUser[userID], session.ID)
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by identifier.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// ListByUser returns the user's sessions in creation order.
func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	sessions := make([]chat.Session, 0, len(ids))
	for _, id := range ids {
		if session, ok := s.sessions[id]; ok {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// Append assigns the next sequence number and a non-decreasing timestamp,
// then persists the message. A message becomes visible to readers atomically.
func (s *MemoryStore) Append(_ context.Context, sessionID string, sender chat.Sender, content string, msgType chat.MessageType) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.messages[sessionID]
	now := time.Now().UTC()
	if n := len(log); n > 0 && log[n-1].CreatedAt.After(now) {
		now = log[n-1].CreatedAt
	}

	message := chat.Message{
		Seq:       int64(len(log)) + 1,
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		Type:      msgType,
		CreatedAt: now,
	}
	s.messages[sessionID] = append(log, message)
	return message, nil
}

// List returns the session transcript in append order. Unknown sessions yield
// an empty slice.
func (s *MemoryStore) List(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.messages[sessionID]
	copied := make([]chat.Message, len(log))
	copy(copied, log)
	return copied, nil
}
