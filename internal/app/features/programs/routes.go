package programs

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the program endpoints on the API router. Anyone
// signed in may browse the catalog; only admins change it.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	admin := sm.RequireRole(models.RoleAdmin)

	r.With(sm.RequireSignedIn).Get("/programs", h.List)
	r.With(admin).Post("/programs", h.Create)
	r.With(admin).Delete("/programs/{id}", h.Delete)
}
