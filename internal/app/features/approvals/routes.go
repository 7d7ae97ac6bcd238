package approvals

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the validator endpoints on the API router. The
// approval action itself lives at the root-level /approve-submission
// and is registered by bootstrap with the same validator gate.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	validator := sm.RequireRole(models.RoleValidator, models.RoleAdmin)

	r.With(validator).Get("/activities/submitted-validator", h.SubmittedForValidator)
	r.With(validator).Get("/submission-groups", h.SubmissionGroups)
	r.With(sm.RequireSignedIn).Get("/approved-submissions", h.List)
	r.With(sm.RequireSignedIn).Get("/student/awards/{studentId}", h.Awards)
}
