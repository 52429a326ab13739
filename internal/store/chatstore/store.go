// Package chatstore persists chat sessions and their append-only transcripts.
//
// Two backends are provided: an in-memory store for tests and single-process
// deployments, and a SQLite store for durable transcripts. Both honor the same
// contract: sessions are write-once, messages are appended with a per-session
// strictly increasing sequence number and a non-decreasing timestamp, and
// listings always come back in append order.
package chatstore

import (
	"context"
	"errors"

	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
)

// ErrSessionNotFound signals a lookup for a session id that was never created.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore owns session records for their entire lifetime. No updates or
// deletes are exposed.
type SessionStore interface {
	// Create allocates a fresh session for the (user, character) pair. Every
	// call produces a new distinct session.
	Create(ctx context.Context, userID, characterID string) (chat.Session, error)
	// Get returns ErrSessionNotFound for unknown ids so callers can tell
	// "no such session" apart from a storage failure.
	Get(ctx context.Context, sessionID string) (chat.Session, error)
	// ListByUser returns the user's sessions in creation order.
	ListByUser(ctx context.Context, userID string) ([]chat.Session, error)
}

// MessageStore is a pure ordered log keyed by session. It does not check
// session existence; the orchestrator validates sessions before appending.
type MessageStore interface {
	// Append assigns the next sequence number and timestamp for the session
	// and persists the message.
	Append(ctx context.Context, sessionID string, sender chat.Sender, content string, msgType chat.MessageType) (chat.Message, error)
	// List returns all messages for the session in append order. Unknown
	// sessions yield an empty slice, not an error.
	List(ctx context.Context, sessionID string) ([]chat.Message, error)
}
