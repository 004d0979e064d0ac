package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"chathub/internal/domain"
)

// RequireAdmin guards admin routes: the caller must exist and hold the admin
// role.
func (a *App) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.currentUser(w, r)
		if !ok {
			return
		}
		if user.Role != domain.UserRoleAdmin {
			a.error(w, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminListUsers returns all users, newest first.
func (a *App) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list users failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch users")
		return
	}
	out := make([]userProfileDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userProfileDTO{
			ID:              u.ID,
			Email:           u.Email,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			ProfileImageURL: u.ProfileImageURL,
			Role:            string(u.Role),
			VIPExpiresAt:    u.VIPExpiresAt,
			DailyUsage:      u.DailyUsage,
			CreatedAt:       u.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, out)
}

// AdminStats returns the platform dashboard aggregates.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Stats.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, stats)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// AdminUpdateUserRole changes a user's role. Granting VIP sets a 30-day
// expiry.
func (a *App) AdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	role := domain.UserRole(req.Role)
	if !role.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid role")
		return
	}

	var vipExpiresAt *time.Time
	if role == domain.UserRoleVIP {
		t := time.Now().Add(domain.VIPDuration)
		vipExpiresAt = &t
	}

	userID := chi.URLParam(r, "id")
	if err := a.Users.UpdateRole(r.Context(), userID, role, vipExpiresAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update role failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user role")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "User role updated successfully"})
}

// AdminDeleteUser removes a user and, via schema cascades, their data.
func (a *App) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := a.Users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("delete user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete user")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
