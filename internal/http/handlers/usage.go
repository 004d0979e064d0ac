package handlers

import "net/http"

// Usage returns the caller's effective daily usage count.
func (a *App) Usage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	used, err := a.Accountant.DailyUsage(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("load usage failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch usage")
		return
	}
	a.json(w, http.StatusOK, map[string]int{"daily_usage": used})
}
