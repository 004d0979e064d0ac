package handlers

import (
	"net/http"
	"time"

	"chathub/internal/domain"
	"chathub/internal/middleware"
)

type userProfileDTO struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	ProfileImageURL string     `json:"profile_image_url"`
	Role            string     `json:"role"`
	VIPExpiresAt    *time.Time `json:"vip_expires_at,omitempty"`
	DailyUsage      int        `json:"daily_usage"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CurrentUser returns the authenticated user's profile, creating the row on
// first sight from the verified token claims.
func (a *App) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		user, err = a.Users.Upsert(r.Context(), &domain.User{
			ID:              userID,
			Email:           claims.Email,
			FirstName:       claims.FirstName,
			LastName:        claims.LastName,
			ProfileImageURL: claims.ProfileImageURL,
			Role:            domain.UserRoleUser,
		})
		if err != nil {
			a.Logger.Error().Err(err).Msg("upsert user failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to persist user")
			return
		}
	}

	a.json(w, http.StatusOK, a.toProfileDTO(r, user))
}

func (a *App) toProfileDTO(r *http.Request, user *domain.User) userProfileDTO {
	used, err := a.Accountant.DailyUsage(r.Context(), user.ID)
	if err != nil {
		used = user.DailyUsage
	}
	return userProfileDTO{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		ProfileImageURL: user.ProfileImageURL,
		Role:            string(user.Role),
		VIPExpiresAt:    user.VIPExpiresAt,
		DailyUsage:      used,
		CreatedAt:       user.CreatedAt,
	}
}
