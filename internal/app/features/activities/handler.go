// Package activities implements activity intake, editing, deletion, and
// the read surface for students, raters, and admins.
package activities

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/meritrack/internal/app/features/evidence"
	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	formstore "github.com/dalemusser/meritrack/internal/app/store/forms"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/normalize"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/domain/scoring"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxMultipartMemory is how much of a multipart body stays in memory
// before spilling to temp files.
const maxMultipartMemory = 10 << 20

type Handler struct {
	Activities *activitystore.Store
	Forms      *formstore.Store
	Evidence   *evidence.Handler
	Log        *zap.Logger
}

func NewHandler(activities *activitystore.Store, forms *formstore.Store, ev *evidence.Handler, logger *zap.Logger) *Handler {
	return &Handler{Activities: activities, Forms: forms, Evidence: ev, Log: logger}
}

// reservedFields are multipart values that are not dynamic form fields.
var reservedFields = map[string]bool{
	"studentId": true,
	"category":  true,
	"points":    true,
}

// formFields pulls the dynamic form values out of a parsed multipart
// form, skipping the reserved identity keys.
func formFields(r *http.Request) map[string]string {
	fields := make(map[string]string)
	for key, vals := range r.MultipartForm.Value {
		if reservedFields[key] || len(vals) == 0 {
			continue
		}
		fields[key] = vals[0]
	}
	return fields
}

// Create handles POST /api/activities: multipart fields plus up to five
// evidence files. New activities always start unscored and unsubmitted;
// a rater assigns points during review.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	studentHex := r.FormValue("studentId")
	if studentHex == "" {
		if su, ok := auth.CurrentUser(r); ok {
			studentHex = su.ID
		}
	}
	studentID, err := primitive.ObjectIDFromHex(studentHex)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	category := normalize.Category(r.FormValue("category"))
	if category == "" {
		httpjson.Error(w, http.StatusBadRequest, "Category is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Forms.GetByCategory(ctx, category); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusBadRequest, "Unknown category")
			return
		}
		h.Log.Error("activities: load form template", zap.String("category", category), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	paths, err := evidence.SaveAll(ctx, h.Evidence.Storage, r.MultipartForm.File["evidence"])
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	activity, err := h.Activities.Create(ctx, models.Activity{
		StudentID: studentID,
		Category:  category,
		Fields:    formFields(r),
		Points:    0,
		Evidence:  paths,
		Status:    models.StatusNotSubmitted,
	})
	if err != nil {
		h.Evidence.DeleteAll(ctx, paths)
		h.Log.Error("activities: create", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusCreated, activity)
}

// Update handles PUT /api/activities/{id}: multipart edit of fields,
// points, and evidence. Fresh evidence replaces the stored list and the
// old files are removed from storage.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	existing, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Activity not found")
			return
		}
		h.Log.Error("activities: load for update", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	upd := activitystore.Update{}

	if category := normalize.Category(r.FormValue("category")); category != "" && category != existing.Category {
		if _, err := h.Forms.GetByCategory(ctx, category); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, http.StatusBadRequest, "Unknown category")
				return
			}
			h.Log.Error("activities: load form template", zap.String("category", category), zap.Error(err))
			httpjson.ServerError(w)
			return
		}
		upd.Category = category
	}

	if raw := r.FormValue("points"); raw != "" {
		points, err := strconv.Atoi(raw)
		if err != nil || points < 0 {
			httpjson.Error(w, http.StatusBadRequest, "Points must be a non-negative integer")
			return
		}
		category := existing.Category
		if upd.Category != "" {
			category = upd.Category
		}
		if ceiling := scoring.Ceiling(category); ceiling > 0 && points > ceiling {
			h.Log.Warn("activities: points exceed rule-table ceiling",
				zap.String("id", id.Hex()),
				zap.String("category", category),
				zap.Int("points", points),
				zap.Int("ceiling", ceiling))
		}
		upd.Points = &points
	}

	if fields := formFields(r); len(fields) > 0 {
		upd.Fields = fields
	}

	if files := r.MultipartForm.File["evidence"]; len(files) > 0 {
		paths, err := evidence.SaveAll(ctx, h.Evidence.Storage, files)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Evidence = paths
	}

	activity, err := h.Activities.Update(ctx, id, upd)
	if err != nil {
		if upd.Evidence != nil {
			h.Evidence.DeleteAll(ctx, upd.Evidence)
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Activity not found")
			return
		}
		h.Log.Error("activities: update", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	// The edit replaced the evidence list; the old files are orphans now.
	if upd.Evidence != nil {
		h.Evidence.DeleteAll(ctx, existing.Evidence)
	}

	httpjson.OK(w, activity)
}

// Delete handles DELETE /api/activities/{id}, removing the document and
// its evidence files.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activity, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Activity not found")
			return
		}
		h.Log.Error("activities: load for delete", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if _, err := h.Activities.Delete(ctx, id); err != nil {
		h.Log.Error("activities: delete", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	h.Evidence.DeleteAll(ctx, activity.Evidence)

	httpjson.Success(w)
}
