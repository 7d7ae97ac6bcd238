package activitystore

import (
	"context"

	"github.com/dalemusser/meritrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// lookupStudent are the shared pipeline stages that join each activity
// with its owning student and flatten the identity fields. The student
// is joined once at query time, never re-joined per activity.
func lookupStudent() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$student",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"student_name": "$student.name",
			"school":       "$student.school",
			"course":       "$student.course",
			"school_year":  "$student.school_year",
		}}},
		bson.D{{Key: "$project", Value: bson.M{"student": 0}}},
	}
}

// ListByStatusWithStudent returns activities in the given status,
// denormalized with the student's name/school/course/year. Feeds the
// rater queue (Not Submitted) and the validator view (Submitted).
func (s *Store) ListByStatusWithStudent(ctx context.Context, status string) ([]models.ActivityWithStudent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": status}}},
	}
	pipeline = append(pipeline, lookupStudent()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.ActivityWithStudent
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ListByStudentWithName returns one student's activities denormalized
// with their identity fields.
func (s *Store) ListByStudentWithName(ctx context.Context, studentID primitive.ObjectID) ([]models.ActivityWithStudent, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"student_id": studentID}}},
	}
	pipeline = append(pipeline, lookupStudent()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.ActivityWithStudent
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GroupSubmitted rolls every Submitted activity up by student: points
// summed, representative date = earliest activity date (falling back to
// createdAt), identity copied from the joined student. Category is
// informational only and never a grouping key. Exactly one group comes
// back per student with Submitted work.
func (s *Store) GroupSubmitted(ctx context.Context) ([]models.SubmissionGroup, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": models.StatusSubmitted}}},
	}
	pipeline = append(pipeline, lookupStudent()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "date", Value: 1},
			{Key: "created_at", Value: 1},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$student_id",
			"student_name": bson.M{"$first": "$student_name"},
			"school":       bson.M{"$first": "$school"},
			"course":       bson.M{"$first": "$course"},
			"school_year":  bson.M{"$first": "$school_year"},
			"activities":   bson.M{"$push": "$$ROOT"},
			"points":       bson.M{"$sum": "$points"},
			"date":         bson.M{"$min": bson.M{"$ifNull": bson.A{"$date", "$created_at"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "points", Value: -1}}}},
	)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.SubmissionGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
