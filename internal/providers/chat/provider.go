package chat

import (
	"context"

	"chathub/internal/domain"
)

// Message is one turn of conversational context sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Response is the normalized output of a dispatch.
type Response struct {
	Content string
	// Model is the provider-side model identifier that produced the reply.
	Model string
	// Fallback marks replies produced locally instead of by a real
	// provider. Fallback replies do not consume quota.
	Fallback bool
}

// Provider performs a single chat-completion call against one external API.
type Provider interface {
	Send(ctx context.Context, history []Message) (string, error)
	Model() string
}

// Service is the dispatch surface consumed by request handlers.
type Service interface {
	Dispatch(ctx context.Context, model domain.ChatModel, history []Message) Response
}
