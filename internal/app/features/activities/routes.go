package activities

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the activity endpoints on the API router. The
// parameter under /activities is a student ID for the bare GET and an
// activity ID everywhere else, matching the portal's original surface.
// Review actions are limited to staff roles.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	signedIn := sm.RequireSignedIn
	staff := sm.RequireRole(models.RoleRater, models.RoleValidator, models.RoleAdmin)

	r.With(signedIn).Post("/activities", h.Create)
	r.With(staff).Get("/activities", h.Queue)
	r.With(sm.RequireRole(models.RoleAdmin)).Get("/activities/all", h.All)
	r.With(signedIn).Get("/activities/byStudent", h.ByStudentQuery)
	r.With(signedIn).Get("/activities/byid/{id}", h.ByID)
	r.With(signedIn).Get("/activities/{id}", h.ListForStudent)
	r.With(signedIn).Put("/activities/{id}", h.Update)
	r.With(signedIn).Delete("/activities/{id}", h.Delete)
	r.With(staff).Put("/activities/{id}/submit", h.Submit)
	r.With(staff).Put("/activities/{id}/mark-not-submitted", h.MarkNotSubmitted)
	r.With(staff).Patch("/activities/{id}/status", h.SetStatus)
	r.With(signedIn).Get("/activity/{id}", h.ByID)
	r.With(signedIn).Get("/total-points/{studentId}", h.TotalPoints)
}
