package notifications

import (
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes registers the notification endpoints on the API router. The
// GET parameter is a recipient ID; the DELETE parameter is the
// notification itself.
func Routes(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.With(sm.RequireSignedIn).Post("/notifications", h.Create)
	r.With(sm.RequireSignedIn).Get("/notifications/{id}", h.ListForRecipient)
	r.With(sm.RequireSignedIn).Delete("/notifications/{id}", h.Delete)
}
