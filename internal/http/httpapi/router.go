package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"chathub/internal/http/handlers"
	"chathub/internal/infra"
	"chathub/internal/middleware"
)

// NewRouter assembles the HTTP surface around the injected App container.
func NewRouter(app *handlers.App, cfg *infra.Config, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N(cfg.DefaultLocale, lookup),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", app.ListModels)
		r.Get("/models/{id}", app.GetModel)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret))

			r.Get("/auth/user", app.CurrentUser)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", app.ListConversations)
				r.Post("/", app.CreateConversation)
				r.Get("/{id}/messages", app.ConversationMessages)
			})

			r.Post("/messages", app.PostMessage)
			r.Get("/usage", app.Usage)

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", app.CreatePayment)
				r.Get("/", app.ListPayments)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(app.RequireAdmin)
				r.Get("/users", app.AdminListUsers)
				r.Get("/stats", app.AdminStats)
				r.Put("/users/{id}/role", app.AdminUpdateUserRole)
				r.Delete("/users/{id}", app.AdminDeleteUser)
			})
		})
	})

	return r
}
