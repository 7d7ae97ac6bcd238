package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and username.
func (f *Fixtures) CreateUser(ctx context.Context, name, username, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		School:       "Test School",
		Course:       "BS Testing",
		SchoolYear:   "2025-2026",
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: "$2a$10$fixture-hash-not-a-real-one-aaaaaaaaaaaaaaaaaaaaaa",
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateStudent inserts a student user.
func (f *Fixtures) CreateStudent(ctx context.Context, name, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, username, models.RoleStudent)
}

// CreateActivity inserts an activity for a student with the given
// category, points, and status.
func (f *Fixtures) CreateActivity(ctx context.Context, studentID primitive.ObjectID, category string, points int, status string) models.Activity {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Activity{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		Category:  category,
		Fields:    map[string]string{"activity": "Fixture Event", "venue": "Main Hall"},
		Points:    points,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("activities").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}
	return a
}

// CreateActivityOn is CreateActivity with an explicit activity date.
func (f *Fixtures) CreateActivityOn(ctx context.Context, studentID primitive.ObjectID, category string, points int, status string, date time.Time) models.Activity {
	f.t.Helper()

	a := f.CreateActivity(ctx, studentID, category, points, status)
	a.Date = &date
	if _, err := f.db.Collection("activities").UpdateOne(ctx,
		map[string]any{"_id": a.ID},
		map[string]any{"$set": map[string]any{"date": date}},
	); err != nil {
		f.t.Fatalf("failed to set activity date: %v", err)
	}
	return a
}

// CreateFormTemplate inserts a minimal form template for a category.
func (f *Fixtures) CreateFormTemplate(ctx context.Context, categoryKey string) models.FormTemplate {
	f.t.Helper()

	tpl := models.FormTemplate{
		ID:          primitive.NewObjectID(),
		CategoryKey: categoryKey,
		Title:       "Fixture " + categoryKey,
		Fields: []models.FormField{
			{Label: "Activity", Name: "activity", Type: "text", Required: true},
			{Label: "Venue", Name: "venue", Type: "text"},
			{Label: "Date", Name: "date", Type: "date", Required: true},
		},
	}

	if _, err := f.db.Collection("forms").InsertOne(ctx, tpl); err != nil {
		f.t.Fatalf("failed to create test form template: %v", err)
	}
	return tpl
}
