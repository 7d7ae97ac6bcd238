// Package approvals implements the validator surface: the submitted
// queue, server-side submission grouping, the approval action, and the
// award reads.
package approvals

import (
	"context"
	"errors"
	"net/http"
	"time"

	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	approvalstore "github.com/dalemusser/meritrack/internal/app/store/approvals"
	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/domain/scoring"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Client     *mongo.Client
	Activities *activitystore.Store
	Approvals  *approvalstore.Store
	Users      *userstore.Store
	Log        *zap.Logger
}

func NewHandler(client *mongo.Client, activities *activitystore.Store, approvals *approvalstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Client:     client,
		Activities: activities,
		Approvals:  approvals,
		Users:      users,
		Log:        logger,
	}
}

// SubmittedForValidator handles GET /api/activities/submitted-validator:
// every Submitted activity denormalized with student identity.
func (h *Handler) SubmittedForValidator(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	activities, err := h.Activities.ListByStatusWithStudent(ctx, models.StatusSubmitted)
	if err != nil {
		h.Log.Error("approvals: submitted list", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, activities)
}

// SubmissionGroups handles GET /api/submission-groups: Submitted
// activities rolled up per student, ready for the validator to approve.
func (h *Handler) SubmissionGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Activities.GroupSubmitted(ctx)
	if err != nil {
		h.Log.Error("approvals: group submitted", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, groups)
}

type approveRequest struct {
	Submission *struct {
		StudentID  string `json:"studentId"`
		Activities []struct {
			ID string `json:"_id"`
		} `json:"activities"`
	} `json:"submission"`
	Medal string `json:"medal"`
}

// Approve handles POST /approve-submission. The server recomputes the
// group total and the medal from its own records; the declared medal is
// a cross-check, never the authority, and a group below the Bronze
// threshold cannot be approved at all.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Submission == nil || req.Medal == "" || len(req.Submission.Activities) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Submission and medal are required")
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.Submission.StudentID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	seen := make(map[primitive.ObjectID]bool, len(req.Submission.Activities))
	ids := make([]primitive.ObjectID, 0, len(req.Submission.Activities))
	for _, a := range req.Submission.Activities {
		id, err := models.ParseActivityID(a.ID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
			return
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	activities, err := h.Activities.ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("approvals: load group", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if len(activities) != len(ids) {
		httpjson.Error(w, http.StatusNotFound, "One or more activities no longer exist")
		return
	}

	total := 0
	var earliest *models.Activity
	for i := range activities {
		a := &activities[i]
		if a.StudentID != studentID {
			httpjson.Error(w, http.StatusBadRequest, "Activities belong to a different student")
			return
		}
		if a.Status != models.StatusSubmitted {
			httpjson.Error(w, http.StatusConflict, "One or more activities are not in the Submitted state")
			return
		}
		total += a.Points
		if earliest == nil || representativeDate(a).Before(representativeDate(earliest)) {
			earliest = a
		}
	}

	if !scoring.Eligible(total) {
		httpjson.Error(w, http.StatusUnprocessableEntity, "Total points are below the minimum award threshold")
		return
	}
	medal := scoring.Medal(total)
	if req.Medal != medal {
		httpjson.Error(w, http.StatusUnprocessableEntity, "Declared medal does not match the computed award")
		return
	}

	student, err := h.Users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "Student not found")
			return
		}
		h.Log.Error("approvals: load student", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	approvedBy := ""
	if su, ok := auth.CurrentUser(r); ok {
		approvedBy = su.Name
		if approvedBy == "" {
			approvedBy = su.ID
		}
	}

	date := representativeDate(earliest)
	snapshot := models.ApprovedSubmission{
		StudentID:   studentID,
		StudentName: student.Name,
		School:      student.School,
		Course:      student.Course,
		SchoolYear:  student.SchoolYear,
		Activities:  activities,
		Points:      total,
		Medal:       medal,
		Date:        &date,
		ApprovedBy:  approvedBy,
	}

	saved, err := h.Approvals.Approve(ctx, h.Client, h.Activities, snapshot, ids)
	if err != nil {
		if errors.Is(err, approvalstore.ErrGroupChanged) {
			httpjson.Error(w, http.StatusConflict, "Submission group changed; reload and retry")
			return
		}
		h.Log.Error("approvals: approve", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("approvals: group approved",
		zap.String("studentId", studentID.Hex()),
		zap.Int("points", total),
		zap.String("medal", medal),
		zap.Int("activities", len(ids)))

	httpjson.OK(w, struct {
		Success    bool                      `json:"success"`
		Submission models.ApprovedSubmission `json:"submission"`
	}{Success: true, Submission: saved})
}

// representativeDate is an activity's date field when present, its
// creation time otherwise. Matches the grouping pipeline's $ifNull.
func representativeDate(a *models.Activity) time.Time {
	if a.Date != nil {
		return *a.Date
	}
	return a.CreatedAt
}

// List handles GET /api/approved-submissions, sorted by points then
// approval recency.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subs, err := h.Approvals.List(ctx)
	if err != nil {
		h.Log.Error("approvals: list", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, subs)
}

// Awards handles GET /api/student/awards/{studentId}.
func (h *Handler) Awards(w http.ResponseWriter, r *http.Request) {
	studentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "studentId"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	awards, err := h.Approvals.ListByStudent(ctx, studentID)
	if err != nil {
		h.Log.Error("approvals: awards", zap.String("studentId", studentID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if len(awards) == 0 {
		httpjson.Error(w, http.StatusNotFound, "No awards for this student")
		return
	}
	httpjson.OK(w, awards)
}
