// Package authapi implements signup, login, logout, and the
// current-user endpoint for the JSON API.
package authapi

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/app/system/httpjson"
	"github.com/dalemusser/meritrack/internal/app/system/timeouts"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Log: logger}
}

// landingPage maps a role to the page the client should load after login.
var landingPage = map[string]string{
	models.RoleStudent:   "/student.html",
	models.RoleRater:     "/rater.html",
	models.RoleValidator: "/validator.html",
	models.RoleAdmin:     "/admin.html",
}

type signupRequest struct {
	Name       string `json:"name"`
	School     string `json:"school"`
	Course     string `json:"course"`
	SchoolYear string `json:"schoolYear"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// Signup handles POST /api/signup. New accounts are always students;
// raters, validators, and admins are provisioned out of band.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Username == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name, username, and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("signup: hash password", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		School:       req.School,
		Course:       req.Course,
		SchoolYear:   req.SchoolYear,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			httpjson.Error(w, http.StatusConflict, "Username already in use")
			return
		}
		h.Log.Error("signup: create user", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.Write(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool        `json:"success"`
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// Login handles POST /api/login. A disabled account is rejected before
// the password is checked so the caller learns nothing about it.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.Log.Error("login: lookup user", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if !user.Active {
		httpjson.Error(w, http.StatusForbidden, "Account is disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:   user.ID.Hex(),
		Name: user.Name,
		Role: user.Role,
	}); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, loginResponse{
		Success:  true,
		User:     *user,
		Redirect: landingPage[user.Role],
	})
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	httpjson.Success(w)
}

// CurrentUser handles GET /api/current-user, returning the signed-in
// user's document.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required")
		return
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusUnauthorized, "Sign in required")
			return
		}
		h.Log.Error("current-user: lookup", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	httpjson.OK(w, user)
}
