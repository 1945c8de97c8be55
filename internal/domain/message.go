package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxChatLen is the per-message character ceiling for relayed chat text.
const MaxChatLen = 500

// ChatMessage is the relay envelope for room chat. The server never stores
// it; it exists only for the duration of the broadcast.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"type"`
}

// NewChatMessage stamps a fresh id and emission time.
func NewChatMessage(sender, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Timestamp: time.Now(),
		Kind:      "text",
	}
}
