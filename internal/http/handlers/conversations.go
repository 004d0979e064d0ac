package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chathub/internal/domain"
)

type createConversationRequest struct {
	ModelID int64  `json:"model_id"`
	Title   string `json:"title"`
}

type conversationDTO struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	ModelID   int64     `json:"model_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageDTO struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListConversations returns the caller's conversations.
func (a *App) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	convs, err := a.Conversations.ListByUser(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list conversations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch conversations")
		return
	}
	out := make([]conversationDTO, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationDTO(c))
	}
	a.json(w, http.StatusOK, out)
}

// CreateConversation starts a new conversation against an active model.
// Models flagged VIP-only are refused for non-privileged callers.
func (a *App) CreateConversation(w http.ResponseWriter, r *http.Request) {
	user, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	model, err := a.Models.GetByID(r.Context(), req.ModelID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "model not found")
		return
	}
	if !model.IsActive {
		a.error(w, http.StatusNotFound, "not_found", "model not found")
		return
	}
	if model.RequiresVIP && !user.Privileged(time.Now()) {
		a.error(w, http.StatusForbidden, "vip_required", "This model requires a VIP subscription.")
		return
	}

	conv, err := a.Conversations.Create(r.Context(), &domain.Conversation{
		UserID:  user.ID,
		ModelID: model.ID,
		Title:   req.Title,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("create conversation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create conversation")
		return
	}
	a.json(w, http.StatusOK, toConversationDTO(*conv))
}

// ConversationMessages returns a conversation's messages in order. Other
// users' conversations read as not found.
func (a *App) ConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid conversation id")
		return
	}
	conv, err := a.Conversations.GetByID(r.Context(), id)
	if err != nil || conv.UserID != userID {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("get conversation failed")
		}
		a.error(w, http.StatusNotFound, "not_found", "conversation not found")
		return
	}
	msgs, err := a.Conversations.Messages(r.Context(), conv.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list messages failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch messages")
		return
	}
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	a.json(w, http.StatusOK, out)
}

func toConversationDTO(c domain.Conversation) conversationDTO {
	return conversationDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		ModelID:   c.ModelID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}
