package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chathub/internal/domain"
	"chathub/internal/providers/chat"
)

type postMessageRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
}

const quotaExceededMessage = "Daily usage limit exceeded. Upgrade to VIP for unlimited access."

// PostMessage performs one chat turn: quota check, persist the user message,
// dispatch to the model's provider, persist the assistant reply, and consume
// quota only when a real provider produced the reply. Provider failures never
// surface as errors; the user always receives a chat message.
func (a *App) PostMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}

	allowed, err := a.Accountant.Allow(r.Context(), user)
	if err != nil {
		a.Logger.Error().Err(err).Msg("quota check failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check usage")
		return
	}
	if !allowed {
		a.error(w, http.StatusTooManyRequests, "quota_exceeded", quotaExceededMessage)
		return
	}

	conv, err := a.Conversations.GetByID(r.Context(), req.ConversationID)
	if err != nil || conv.UserID != user.ID {
		a.error(w, http.StatusForbidden, "forbidden", "access denied")
		return
	}
	model, err := a.Models.GetByID(r.Context(), conv.ModelID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load model failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load model")
		return
	}

	userMsg, err := a.Conversations.AddMessage(r.Context(), &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.MessageRoleUser,
		Content:        req.Content,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("persist user message failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to add message")
		return
	}

	history, err := a.Conversations.Messages(r.Context(), conv.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load history failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}

	resp := a.Chat.Dispatch(r.Context(), *model, toChatHistory(history))

	assistantMsg, err := a.Conversations.AddMessage(r.Context(), &domain.Message{
		ConversationID: conv.ID,
		Role:           domain.MessageRoleAssistant,
		Content:        resp.Content,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("persist assistant message failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to add message")
		return
	}

	// Fallback replies are free: only real provider responses are billable.
	if !resp.Fallback {
		if err := a.Accountant.Consume(r.Context(), user.ID, model.ID); err != nil {
			a.Logger.Error().Err(err).Str("user_id", user.ID).Msg("consume usage failed")
		}
	}

	a.json(w, http.StatusOK, []messageDTO{toMessageDTO(*userMsg), toMessageDTO(*assistantMsg)})
}

func toChatHistory(msgs []domain.Message) []chat.Message {
	history := make([]chat.Message, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, chat.Message{Role: string(m.Role), Content: m.Content})
	}
	return history
}
