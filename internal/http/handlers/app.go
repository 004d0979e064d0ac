package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"chathub/internal/domain"
	"chathub/internal/middleware"
	"chathub/internal/providers/chat"
	"chathub/internal/usage"
)

// App is the handler container. Every collaborator is injected so tests can
// swap in fakes; there is no package-level state.
type App struct {
	Users         domain.UserRepository
	Models        domain.ChatModelRepository
	Conversations domain.ConversationRepository
	Payments      domain.PaymentRepository
	Stats         domain.StatsRepository
	Accountant    *usage.Accountant
	Chat          chat.Service
	Logger        zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// currentUser loads the authenticated user's row, writing the error response
// itself when that fails.
func (a *App) currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return nil, false
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return nil, false
	}
	return user, true
}
