package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"chathub/internal/domain"
	"chathub/internal/middleware"
	"chathub/internal/providers/chat"
)

func createConversation(t *testing.T, env *testEnv, userID string, modelID int64) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"model_id":%d,"title":"hello"}`, modelID)
	req := httptest.NewRequest(http.MethodPost, "/api/conversations", strings.NewReader(body))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	env.app.CreateConversation(rec, req)
	return rec
}

func TestCreateConversation(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	env := newTestEnv(chat.Response{}, user)
	env.models.models[1] = domain.ChatModel{ID: 1, Name: "gpt-4", DisplayName: "龙神GPT-4", IsActive: true}

	rec := createConversation(t, env, "u1", 1)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out conversationDTO
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.UserID != "u1" || out.ModelID != 1 || out.Title != "hello" {
		t.Fatalf("conversation = %#v", out)
	}
}

func TestCreateConversationVIPGate(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	expired := time.Now().Add(-time.Minute)

	tests := []struct {
		name       string
		user       *domain.User
		wantStatus int
	}{
		{
			name:       "plain user refused",
			user:       &domain.User{ID: "u1", Role: domain.UserRoleUser, LastUsageReset: time.Now()},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "expired vip refused",
			user:       &domain.User{ID: "u1", Role: domain.UserRoleVIP, VIPExpiresAt: &expired, LastUsageReset: time.Now()},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "active vip allowed",
			user:       &domain.User{ID: "u1", Role: domain.UserRoleVIP, VIPExpiresAt: &future, LastUsageReset: time.Now()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin allowed",
			user:       &domain.User{ID: "u1", Role: domain.UserRoleAdmin, LastUsageReset: time.Now()},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(chat.Response{}, tc.user)
			env.models.models[1] = domain.ChatModel{ID: 1, Name: "gemini", DisplayName: "麒麟Gemini", IsActive: true, RequiresVIP: true}

			rec := createConversation(t, env, "u1", 1)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body = %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCreateConversationUnknownOrInactiveModel(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	env := newTestEnv(chat.Response{}, user)
	env.models.models[2] = domain.ChatModel{ID: 2, Name: "retired", DisplayName: "Retired", IsActive: false}

	if rec := createConversation(t, env, "u1", 99); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown model status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec := createConversation(t, env, "u1", 2); rec.Code != http.StatusNotFound {
		t.Fatalf("inactive model status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestConversationMessagesHidesForeignConversations(t *testing.T) {
	owner := &domain.User{ID: "owner", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	intruder := &domain.User{ID: "intruder", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	env := newTestEnv(chat.Response{}, owner, intruder)
	env.models.models[1] = domain.ChatModel{ID: 1, Name: "gpt-4", DisplayName: "龙神GPT-4", IsActive: true}
	conv, err := env.conversations.Create(context.Background(), &domain.Conversation{UserID: "owner", ModelID: 1})
	if err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/conversations/%d/messages", conv.ID), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", fmt.Sprintf("%d", conv.ID))
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	req = req.WithContext(middleware.ContextWithUserID(ctx, "intruder"))

	rec := httptest.NewRecorder()
	env.app.ConversationMessages(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListConversationsScopedToCaller(t *testing.T) {
	alice := &domain.User{ID: "alice", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	bob := &domain.User{ID: "bob", Role: domain.UserRoleUser, LastUsageReset: time.Now()}
	env := newTestEnv(chat.Response{}, alice, bob)
	env.models.models[1] = domain.ChatModel{ID: 1, Name: "gpt-4", DisplayName: "龙神GPT-4", IsActive: true}
	if _, err := env.conversations.Create(context.Background(), &domain.Conversation{UserID: "alice", ModelID: 1}); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	if _, err := env.conversations.Create(context.Background(), &domain.Conversation{UserID: "bob", ModelID: 1}); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "alice"))
	rec := httptest.NewRecorder()
	env.app.ListConversations(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var out []conversationDTO
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].UserID != "alice" {
		t.Fatalf("conversations = %#v", out)
	}
}
