// Package notifications implements the message relay between raters,
// validators, and students.
package notifications

import (
	"context"
	"net/http"

	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	notificationstore "github.com/dalemusser/meritrack/internal/app/store/notifications"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Notifications *notificationstore.Store
	Activities    *activitystore.Store
	Log           *zap.Logger
}

func NewHandler(notifications *notificationstore.Store, activities *activitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Activities: activities, Log: logger}
}

type createRequest struct {
	StudentID   string `json:"studentId"`
	ActivityID  string `json:"activityId"`
	RecipientID string `json:"recipientId"`
	SenderID    string `json:"senderId"`
	Message     string `json:"message"`
	Role        string `json:"role"`
}

// Create handles POST /api/notifications. A validator's clarification
// also reverts the targeted activity to Not Submitted so the student
// can edit and resubmit; only that one activity moves.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StudentID == "" || req.ActivityID == "" || req.RecipientID == "" ||
		req.SenderID == "" || req.Message == "" || req.Role == "" {
		httpjson.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid student ID")
		return
	}
	activityID, err := models.ParseActivityID(req.ActivityID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid activity ID")
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid recipient ID")
		return
	}
	senderID, err := primitive.ObjectIDFromHex(req.SenderID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid sender ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notification, err := h.Notifications.Create(ctx, models.Notification{
		StudentID:   studentID,
		ActivityID:  activityID,
		RecipientID: recipientID,
		SenderID:    senderID,
		Message:     req.Message,
		Role:        req.Role,
	})
	if err != nil {
		h.Log.Error("notifications: create", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	if req.Role == models.RoleValidator {
		if _, err := h.Activities.MarkNotSubmitted(ctx, activityID); err != nil {
			h.Log.Error("notifications: revert activity",
				zap.String("activityId", activityID.Hex()), zap.Error(err))
		}
	}

	httpjson.Write(w, http.StatusCreated, notification)
}

// ListForRecipient handles GET /api/notifications/{id}, where the path
// ID is the recipient.
func (h *Handler) ListForRecipient(w http.ResponseWriter, r *http.Request) {
	recipientID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid recipient ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notifications, err := h.Notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		h.Log.Error("notifications: list", zap.String("recipientId", recipientID.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, notifications)
}

// Delete handles DELETE /api/notifications/{id}. Deletion is permanent.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	deleted, err := h.Notifications.Delete(ctx, id)
	if err != nil {
		h.Log.Error("notifications: delete", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if deleted == 0 {
		httpjson.Error(w, http.StatusNotFound, "Notification not found")
		return
	}
	httpjson.Success(w)
}
