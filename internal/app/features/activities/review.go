package activities

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submitRequest struct {
	RaterID string `json:"raterId"`
}

// Submit handles PUT /api/activities/{id}/submit: a rater pushes an
// activity into the Submitted state, stamping themselves as recipient.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	var req submitRequest
	if err := httpjson.Decode(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var raterID *primitive.ObjectID
	if req.RaterID != "" {
		oid, err := primitive.ObjectIDFromHex(req.RaterID)
		if err == nil {
			raterID = &oid
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	modified, err := h.Activities.MarkSubmitted(ctx, id, raterID)
	if err != nil {
		h.Log.Error("activities: submit", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if modified == 0 {
		httpjson.Error(w, http.StatusNotFound, "Activity not found or already submitted")
		return
	}
	httpjson.Success(w)
}

// MarkNotSubmitted handles PUT /api/activities/{id}/mark-not-submitted,
// reverting an activity into the editable state.
func (h *Handler) MarkNotSubmitted(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	modified, err := h.Activities.MarkNotSubmitted(ctx, id)
	if err != nil {
		h.Log.Error("activities: mark not submitted", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if modified == 0 {
		httpjson.Error(w, http.StatusNotFound, "Activity not found or already editable")
		return
	}
	httpjson.Success(w)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /api/activities/{id}/status, the direct
// status override. Only the three lifecycle states are accepted.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}
	var req statusRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !models.ValidStatus(req.Status) {
		httpjson.Error(w, http.StatusBadRequest, `Status must be "Not Submitted", "Submitted", or "Approved"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	modified, err := h.Activities.SetStatus(ctx, id, req.Status)
	if err != nil {
		h.Log.Error("activities: set status", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if modified == 0 {
		httpjson.Error(w, http.StatusNotFound, "Activity not found or already in that status")
		return
	}
	httpjson.Success(w)
}
