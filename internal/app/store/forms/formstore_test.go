package formstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/meritrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	seeded, err := store.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}
	if !seeded {
		t.Fatal("expected seeding on an empty collection")
	}

	templates, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(templates) != 8 {
		t.Fatalf("got %d templates, want 8", len(templates))
	}

	// A second run is a no-op.
	seeded, err = store.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("second SeedDefaults failed: %v", err)
	}
	if seeded {
		t.Error("re-seeded a non-empty collection")
	}
}

func TestGetByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)
	f.CreateFormTemplate(ctx, "athletes")

	// The lookup normalizes case and whitespace.
	tpl, err := store.GetByCategory(ctx, "  Athletes ")
	if err != nil {
		t.Fatalf("GetByCategory failed: %v", err)
	}
	if tpl.CategoryKey != "athletes" {
		t.Errorf("categoryKey = %q, want athletes", tpl.CategoryKey)
	}

	if _, err := store.GetByCategory(ctx, "chess"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("err = %v, want mongo.ErrNoDocuments", err)
	}
}

func TestUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)
	tpl := f.CreateFormTemplate(ctx, "community")

	fields := []models.FormField{
		{Label: "Organization", Name: "organization", Type: "text", Required: true},
		{Label: "Date", Name: "date", Type: "date", Required: true},
	}
	matched, err := store.UpdateFields(ctx, tpl.ID, fields)
	if err != nil {
		t.Fatalf("UpdateFields failed: %v", err)
	}
	if matched != 1 {
		t.Fatalf("matched = %d, want 1", matched)
	}

	got, err := store.GetByCategory(ctx, "community")
	if err != nil {
		t.Fatalf("GetByCategory failed: %v", err)
	}
	if len(got.Fields) != 2 || got.Fields[0].Name != "organization" {
		t.Errorf("fields = %v, want the replacement list", got.Fields)
	}
	// Title and key survive the edit.
	if got.Title != tpl.Title || got.CategoryKey != "community" {
		t.Error("title or category key changed by a field edit")
	}

	matched, err = store.UpdateFields(ctx, primitive.NewObjectID(), fields)
	if err != nil {
		t.Fatalf("UpdateFields (missing) failed: %v", err)
	}
	if matched != 0 {
		t.Errorf("matched = %d for a missing template, want 0", matched)
	}
}
