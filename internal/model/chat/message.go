package chat

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderCharacter Sender = "character"
)

// MessageType records the input modality that produced a message, not its
// storage form. Character replies are always text.
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeVoice MessageType = "voice"
)

// Message is one turn in a session transcript. Seq is assigned per session and
// strictly increasing; CreatedAt is non-decreasing within a session so the
// transcript sorts identically by either field.
type Message struct {
	Seq       int64       `json:"seq"`
	SessionID string      `json:"sessionId"`
	Sender    Sender      `json:"sender"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
}
