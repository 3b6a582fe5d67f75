package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-signup-api/internal/application/auth"
	"github.com/go-signup-api/internal/application/session"
	"github.com/go-signup-api/internal/application/user"
	"github.com/go-signup-api/internal/config"
	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/transport/http/handler"
	appmiddleware "github.com/go-signup-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:           deps.UserRepo,
		SessionRepo:        deps.SessionRepo,
		VerificationRepo:   deps.VerificationRepo,
		Mailer:             deps.Mailer,
		JWTProvider:        deps.JWTProvider,
		AllowedEmailDomain: cfg.AllowedEmailDomain,
		CodeLength:         cfg.CodeLength,
		CodeTTL:            cfg.CodeTTL,
		ResendCooldown:     cfg.ResendCooldown,
		PendingSessionTTL:  cfg.PendingSessionTTL,
		SessionTokenTTL:    cfg.SessionTokenTTL,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo: deps.SessionRepo,
		UserRepo:    deps.UserRepo,
		JWTProvider: deps.JWTProvider,
		TokenTTL:    cfg.SessionTokenTTL,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:    deps.UserRepo,
		SessionRepo: deps.SessionRepo,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(authSvc, userSvc)
	verifyH := handler.NewVerifyHandler(authSvc)
	sessionH := handler.NewSessionHandler(authSvc, sessionSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users", userH.Register)
		r.With(sensitiveRL.Limit).Post("/verify/{action}", verifyH.Action)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			// Any authenticated user
			r.Get("/users/{id}", userH.Get)
			r.Put("/users/{id}", userH.Update)
			r.Get("/roles", handler.ListRoles)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Delete("/users/{id}", userH.Delete)
			})
		})
	})

	return r
}
