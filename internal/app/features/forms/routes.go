package forms

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the form template endpoints on the API router. The
// GET parameter is a category key; the PUT parameter is the template's
// ObjectID. Editing is admin-only.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.With(sm.RequireSignedIn).Get("/forms", h.List)
	r.With(sm.RequireSignedIn).Get("/forms/{id}", h.GetByCategory)
	r.With(sm.RequireRole(models.RoleAdmin)).Put("/forms/{id}", h.UpdateFields)
}
