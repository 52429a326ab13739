package chat

import "time"

// Session binds one user to one character for an ongoing conversation.
// Records are write-once: nothing mutates a session after creation.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	CharacterID string    `json:"characterId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionSummary is the listing view of a session, enriched with
// transcript-derived fields for session pickers.
type SessionSummary struct {
	Session
	LastMessage  string `json:"lastMessage,omitempty"`
	MessageCount int    `json:"messageCount"`
}
