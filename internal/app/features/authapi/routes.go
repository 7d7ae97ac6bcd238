package authapi

import "github.com/go-chi/chi/v5"

// Routes registers the auth endpoints on the API router. Signup and
// login are the only unauthenticated mutations in the API.
func Routes(r chi.Router, h *Handler) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/current-user", h.CurrentUser)
}
