// Package users implements the admin user directory and the
// self-service credential endpoints.
package users

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// List handles GET /api/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("users: list", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, users)
}

// Get handles GET /api/users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("users: get", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, user)
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetActive handles PUT /api/users/{id}/active, the admin login gate.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req activeRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Error("users: set-active lookup", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if _, err := h.Users.SetActive(ctx, id, req.Active); err != nil {
		h.Log.Error("users: set-active", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Success(w)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateCredentials handles PUT /api/users/{id}. Credential changes are
// strictly self-service; even admins must go through their own account.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	su, ok := auth.CurrentUser(r)
	if !ok || su.ID != id.Hex() {
		httpjson.Error(w, http.StatusForbidden, "You can only change your own credentials")
		return
	}

	var req credentialsRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := userstore.CredentialUpdate{Username: req.Username}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.Log.Error("users: hash password", zap.Error(err))
			httpjson.ServerError(w)
			return
		}
		upd.PasswordHash = string(hash)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.UpdateCredentials(ctx, id, upd)
	switch {
	case err == nil:
		httpjson.OK(w, user)
	case errors.Is(err, userstore.ErrNothingToUpdate):
		httpjson.Error(w, http.StatusBadRequest, "No valid fields to update")
	case errors.Is(err, userstore.ErrDuplicateUsername):
		httpjson.Error(w, http.StatusConflict, "Username already in use")
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, http.StatusNotFound, "User not found")
	default:
		h.Log.Error("users: update credentials", zap.String("id", id.Hex()), zap.Error(err))
		httpjson.ServerError(w)
	}
}

// SchoolsWithUsers handles GET /api/schools-with-users.
func (h *Handler) SchoolsWithUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	grouped, err := h.Users.GroupBySchool(ctx)
	if err != nil {
		h.Log.Error("users: group by school", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.OK(w, grouped)
}
