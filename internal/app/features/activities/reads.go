package activities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Queue handles GET /api/activities: the rater queue of unsubmitted
// activities, denormalized with student identity.
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	queue, err := h.Activities.ListByStatusWithStudent(ctx, models.StatusNotSubmitted)
	if err != nil {
		h.Log.Error("activities: rater queue", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, queue)
}

// All handles GET /api/activities/all.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	activities, err := h.Activities.ListAll(ctx)
	if err != nil {
		h.Log.Error("activities: list all", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, activities)
}

// ByStudentQuery handles GET /api/activities/byStudent?studentId=…,
// returning the student's activities denormalized with their identity.
func (h *Handler) ByStudentQuery(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("studentId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activities, err := h.Activities.ListByStudentWithName(ctx, studentID)
	if err != nil {
		h.Log.Error("activities: by student", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, activities)
}

// ByID handles GET /api/activities/byid/{id} and GET /api/activity/{id}.
func (h *Handler) ByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Activity not found")
			return
		}
		h.Log.Error("activities: by id", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, activity)
}

// ListForStudent handles GET /api/activities/{id}, where the path ID is
// the student, matching the portal's original surface.
func (h *Handler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activities, err := h.Activities.ListByStudent(ctx, studentID)
	if err != nil {
		h.Log.Error("activities: list for student", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, activities)
}

// TotalPoints handles GET /api/total-points/{studentId}: per-category
// point sums across all of a student's activities.
func (h *Handler) TotalPoints(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "studentId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	totals, err := h.Activities.TotalPointsByCategory(ctx, studentID)
	if err != nil {
		h.Log.Error("activities: total points", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, totals)
}
