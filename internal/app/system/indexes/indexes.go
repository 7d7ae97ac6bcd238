// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensurePrograms(ctx, db); err != nil {
		problems = append(problems, "programs: "+err.Error())
	}
	if err := ensureActivities(ctx, db); err != nil {
		problems = append(problems, "activities: "+err.Error())
	}
	if err := ensureApprovedSubmissions(ctx, db); err != nil {
		problems = append(problems, "approved_submissions: "+err.Error())
	}
	if err := ensureForms(ctx, db); err != nil {
		problems = append(problems, "forms: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, models []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("username_ci_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "school", Value: 1}},
			Options: options.Index().SetName("school"),
		},
	})
}

func ensurePrograms(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "programs", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "school", Value: 1}, {Key: "program", Value: 1}},
			Options: options.Index().SetName("school_program"),
		},
	})
}

func ensureActivities(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "activities", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetName("student_id"),
		},
		// The rater queue and validator view both filter on status; the
		// compound index also serves the per-student status lookups that
		// approval performs.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetName("status_student_id"),
		},
	})
}

func ensureApprovedSubmissions(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "approved_submissions", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}},
			Options: options.Index().SetName("student_id"),
		},
		// Matches the award board sort: points desc, then recency.
		{
			Keys:    bson.D{{Key: "points", Value: -1}, {Key: "approved_at", Value: -1}},
			Options: options.Index().SetName("points_approved_at_desc"),
		},
	})
}

func ensureForms(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "forms", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category_key", Value: 1}},
			Options: options.Index().SetName("category_key_unique").SetUnique(true),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "notifications", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("recipient_created_at"),
		},
	})
}
