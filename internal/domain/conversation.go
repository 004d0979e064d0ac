package domain

import "time"

// MessageRole enumerates message authorship within a conversation.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Conversation groups an ordered exchange of messages between one user and
// one chat model.
type Conversation struct {
	ID        int64
	UserID    string
	ModelID   int64
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is a single turn inside a conversation. Ordering is by creation
// time; the sequence defines the conversational context sent to providers.
type Message struct {
	ID             int64
	ConversationID int64
	Role           MessageRole
	Content        string
	CreatedAt      time.Time
}
