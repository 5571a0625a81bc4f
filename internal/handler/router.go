package handler

import (
	"net/http"

	"github.com/contactform/backend/internal/repository"
	"github.com/contactform/backend/internal/service"
	"github.com/contactform/backend/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// FormPage serves the contact form UI.
type FormPage interface {
	ServePage(w http.ResponseWriter, r *http.Request)
	ServeScript(w http.ResponseWriter, r *http.Request)
}

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	DB             repository.DB
	Contacts       service.ContactService
	AllowedOrigins []string
	// AdminToken guards /api/admin; empty leaves it open.
	AdminToken string
	// TrustProxy applies X-Forwarded-For / X-Real-IP to the client address.
	TrustProxy bool
	// RateLimiter applies to POST /api/contact; nil disables it.
	RateLimiter *RateLimiter
	// Form is mounted at /contact when set.
	Form FormPage
}

// NewRouter builds the application's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	h := New(cfg.DB, cfg.AllowedOrigins)
	contactHandler := NewContactHandler(cfg.Contacts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(Recover)
	r.Use(SecurityHeaders)
	r.Use(h.CORS)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	r.Get("/", h.Root)
	r.Get("/api/health", h.Health)

	r.With(cfg.RateLimiter.Middleware, contactHandler.ValidateContact).
		Post("/api/contact", contactHandler.Submit)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.RequireToken(cfg.AdminToken))
		r.Get("/contacts", contactHandler.AdminList)
		r.Patch("/contacts/{id}/read", contactHandler.MarkRead)
	})

	if cfg.Form != nil {
		r.Get("/contact", cfg.Form.ServePage)
		r.Get("/contact/app.js", cfg.Form.ServeScript)
	}

	return r
}
