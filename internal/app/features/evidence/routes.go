package evidence

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the evidence download endpoint on the API router.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.With(sm.RequireSignedIn).Get("/evidence/*", h.Download)
}
