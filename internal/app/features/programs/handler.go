// Package programs implements the admin program catalog.
package programs

import (
	"context"
	"net/http"

	programstore "github.com/dalemusser/meritrack/internal/app/store/programs"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Programs *programstore.Store
	Log      *zap.Logger
}

func NewHandler(programs *programstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Programs: programs, Log: logger}
}

// List handles GET /api/programs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	programs, err := h.Programs.List(ctx)
	if err != nil {
		h.Log.Error("programs: list", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, programs)
}

type createRequest struct {
	School  string `json:"school"`
	Program string `json:"program"`
	Years   int    `json:"years"`
}

// Create handles POST /api/programs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.School == "" || req.Program == "" || req.Years <= 0 {
		httpjson.Error(w, http.StatusBadRequest, "School, program, and a positive year count are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	program, err := h.Programs.Create(ctx, models.Program{
		School:  req.School,
		Program: req.Program,
		Years:   req.Years,
	})
	if err != nil {
		h.Log.Error("programs: create", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Write(w, http.StatusCreated, program)
}

// Delete handles DELETE /api/programs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid program ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Programs.Delete(ctx, id)
	if err != nil {
		h.Log.Error("programs: delete", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if deleted == 0 {
		httpjson.Error(w, http.StatusNotFound, "Program not found")
		return
	}
	httpjson.Success(w)
}
