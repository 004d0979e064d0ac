package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chathub/internal/domain"
)

type chatModelDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Provider    string    `json:"provider"`
	Description string    `json:"description"`
	Accuracy    int       `json:"accuracy"`
	Speed       string    `json:"speed"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	RequiresVIP bool      `json:"requires_vip"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListModels returns the active model catalog.
func (a *App) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := a.Models.ListActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list models failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch models")
		return
	}
	out := make([]chatModelDTO, 0, len(models))
	for _, m := range models {
		out = append(out, toModelDTO(m))
	}
	a.json(w, http.StatusOK, out)
}

// GetModel returns one model by identifier.
func (a *App) GetModel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid model id")
		return
	}
	model, err := a.Models.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "model not found")
			return
		}
		a.Logger.Error().Err(err).Msg("get model failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch model")
		return
	}
	a.json(w, http.StatusOK, toModelDTO(*model))
}

func toModelDTO(m domain.ChatModel) chatModelDTO {
	return chatModelDTO{
		ID:          m.ID,
		Name:        m.Name,
		DisplayName: m.DisplayName,
		Provider:    m.Provider,
		Description: m.Description,
		Accuracy:    m.Accuracy,
		Speed:       m.Speed,
		Category:    m.Category,
		IsActive:    m.IsActive,
		RequiresVIP: m.RequiresVIP,
		CreatedAt:   m.CreatedAt,
	}
}
