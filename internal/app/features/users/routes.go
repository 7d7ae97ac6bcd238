package users

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the user endpoints on the API router. The directory
// and the login gate are admin-only; credential changes are
// self-service for any signed-in user.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	admin := sm.RequireRole(models.RoleAdmin)

	r.With(admin).Get("/users", h.List)
	r.With(sm.RequireSignedIn).Get("/users/{id}", h.Get)
	r.With(sm.RequireSignedIn).Put("/users/{id}", h.UpdateCredentials)
	r.With(admin).Put("/users/{id}/active", h.SetActive)
	r.With(admin).Get("/schools-with-users", h.SchoolsWithUsers)
}
