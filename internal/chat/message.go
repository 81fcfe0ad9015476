// Package chat holds the conversation model: messages, the active
// session, the persisted history, and the send/reply orchestration.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a single chat message, user or assistant.
// JSON tags match the browser app's localStorage dump so exported
// histories stay importable.
type Message struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	IsUser         bool      `json:"isUser"`
	Timestamp      time.Time `json:"timestamp"`
	Persona        string    `json:"persona,omitempty"`
	XPEarned       int       `json:"xpEarned,omitempty"`
	HasAttachment  bool      `json:"hasAttachment,omitempty"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	AttachmentType string    `json:"attachmentType,omitempty"`
	ImagePreview   string    `json:"imagePreview,omitempty"`
}

// NewUserMessage builds a user message with a fresh id.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds an assistant message attributed to a persona.
func NewAssistantMessage(text, personaID string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    false,
		Timestamp: time.Now(),
		Persona:   personaID,
	}
}

const titleMaxLen = 50

// TitleFor derives a history title from the first user message.
func TitleFor(messages []Message, untitled string) string {
	for _, m := range messages {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > titleMaxLen {
			return string(runes[:titleMaxLen])
		}
		return text
	}
	return untitled
}
