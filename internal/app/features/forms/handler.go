// Package forms implements the admin-editable per-category form
// templates.
package forms

import (
	"context"
	"errors"
	"net/http"

	formstore "github.com/dalemusser/meritrack/internal/app/store/forms"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Forms *formstore.Store
	Log   *zap.Logger
}

func NewHandler(forms *formstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Forms: forms, Log: logger}
}

// List handles GET /api/forms.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	templates, err := h.Forms.List(ctx)
	if err != nil {
		h.Log.Error("forms: list", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, templates)
}

// GetByCategory handles GET /api/forms/{id}, where the path value is
// the category key.
func (h *Handler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	template, err := h.Forms.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Unknown category")
			return
		}
		h.Log.Error("forms: get", zap.String("category", category), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, template)
}

type updateRequest struct {
	Fields []models.FormField `json:"fields"`
}

// UpdateFields handles PUT /api/forms/{id}, replacing a template's
// field list. The category key and title never change.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid form ID")
		return
	}
	var req updateRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Fields) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Fields are required")
		return
	}
	for _, f := range req.Fields {
		if f.Name == "" || f.Label == "" || f.Type == "" {
			httpjson.Error(w, http.StatusBadRequest, "Every field needs a name, label, and type")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	matched, err := h.Forms.UpdateFields(ctx, id, req.Fields)
	if err != nil {
		h.Log.Error("forms: update fields", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if matched == 0 {
		httpjson.Error(w, http.StatusNotFound, "Form template not found")
		return
	}
	httpjson.Success(w)
}
