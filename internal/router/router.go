package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-notes-api/internal/config"
	"go-notes-api/internal/handler"
	"go-notes-api/internal/metrics"
	"go-notes-api/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Notes   *handler.NoteHandler
	User    *handler.UserHandler
	Cardano *handler.CardanoHandler
	Audit   *handler.AuditHandler
	Health  *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecureHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	if cfg.MetricsEnabled && m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.Authenticate)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/notes", func(notes chi.Router) {
			notes.Get("/", middleware.Require(h.Notes.List))
			notes.Post("/", middleware.Require(h.Notes.Create))
			notes.Put("/{id}", middleware.Require(h.Notes.Update))
			notes.Delete("/{id}", middleware.Require(h.Notes.Delete))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/me", middleware.Require(h.User.Me))
			user.Get("/audit", middleware.Require(h.Audit.List))
			user.Post("/link-wallet", middleware.Require(h.User.LinkWallet))
			user.Post("/link-secondary-wallet", middleware.Require(h.User.LinkSecondaryWallet))
		})

		api.Route("/cardano", func(cardano chi.Router) {
			cardano.Get("/utxos", middleware.Require(h.Cardano.UTxOs))
			cardano.Post("/build-unsigned-tx", middleware.Require(h.Cardano.BuildUnsignedTx))
			cardano.Post("/submit-tx", middleware.Require(h.Cardano.SubmitTx))
		})
	})

	return r
}
