package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// Verifier parses the session cookie into the request context but
		// rejects nothing: the websocket accepts unauthenticated clients.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.session.TokenAuth()))

			r.Get("/ws", h.HandleWebSocket)
			r.Post("/auth/google", h.GoogleLoginHandler)
			r.Post("/auth/logout", h.LogoutHandler)

			// Secure routes
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Authenticator)

				r.Get("/auth/me", h.MeHandler)
			})
		})
	})
}
