package activitystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/meritrack/internal/app/system/normalize"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

var errBadStatus = errors.New(`status must be "Not Submitted"|"Submitted"|"Approved"`)

// dateField is the dynamic form field parsed into Activity.Date for
// grouping. The portal's templates all use an HTML date input.
const dateField = "date"

const dateLayout = "2006-01-02"

// ParseDate extracts and parses the "date" form field. A missing or
// malformed value yields nil; grouping then falls back to createdAt.
func ParseDate(fields map[string]string) *time.Time {
	raw, ok := fields[dateField]
	if !ok || raw == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil
	}
	return &d
}

// Create inserts a new activity. Status defaults to Not Submitted and
// points start at zero; raters assign points during review.
func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	a.Category = normalize.Category(a.Category)
	if a.Status == "" {
		a.Status = models.StatusNotSubmitted
	}
	if !models.ValidStatus(a.Status) {
		return models.Activity{}, errBadStatus
	}
	if a.Date == nil {
		a.Date = ParseDate(a.Fields)
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// GetByID loads an activity by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activity, error) {
	var a models.Activity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update holds the mutable fields of an activity edit. Nil slices and
// maps leave the stored value untouched; Evidence replaces the whole
// list when non-nil.
type Update struct {
	Category string
	Fields   map[string]string
	Points   *int
	Evidence []string
	Status   string
}

// Update applies an edit, bumping updated_at. Returns the updated
// document, or mongo.ErrNoDocuments when the activity is missing.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Activity, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Category != "" {
		set["category"] = normalize.Category(upd.Category)
	}
	if upd.Fields != nil {
		set["fields"] = upd.Fields
		if d := ParseDate(upd.Fields); d != nil {
			set["date"] = *d
		}
	}
	if upd.Points != nil {
		set["points"] = *upd.Points
	}
	if upd.Evidence != nil {
		set["evidence"] = upd.Evidence
	}
	if upd.Status != "" {
		if !models.ValidStatus(upd.Status) {
			return nil, errBadStatus
		}
		set["status"] = upd.Status
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return s.GetByID(ctx, id)
}

// SetRecipient stamps the rater who took the activity.
func (s *Store) SetRecipient(ctx context.Context, id, raterID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"recipient_id": raterID,
		"updated_at":   time.Now(),
	}})
	return err
}

// Delete removes an activity, returning the deleted count (0 or 1).
// Evidence cleanup is the caller's job; load the document first.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByStudent returns a student's activities, oldest first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.Activity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ListAll returns every activity. Admin-facing.
func (s *Store) ListAll(ctx context.Context) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.Activity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// MarkSubmitted moves an activity into the Submitted state, stamping
// the rater as recipient when provided. Returns the modified count
// (0 when missing or already Submitted).
func (s *Store) MarkSubmitted(ctx context.Context, id primitive.ObjectID, raterID *primitive.ObjectID) (int64, error) {
	set := bson.M{
		"status":     models.StatusSubmitted,
		"updated_at": time.Now(),
	}
	if raterID != nil {
		set["recipient_id"] = *raterID
	}

	// The status precondition lives in the filter: updated_at would
	// otherwise make every matched document count as modified.
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.StatusSubmitted}}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkNotSubmitted reverts an activity to the editable state. Used by
// the clarification flow and by raters undoing a submit.
func (s *Store) MarkNotSubmitted(ctx context.Context, id primitive.ObjectID) (int64, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.StatusNotSubmitted}}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":     models.StatusNotSubmitted,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetStatus is the direct status override behind PATCH. The status must
// be one of the three lifecycle states.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (int64, error) {
	if !models.ValidStatus(status) {
		return 0, errBadStatus
	}
	filter := bson.M{"_id": id, "status": bson.M{"$ne": status}}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListByIDs loads the given activities in one query.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.Activity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// ApproveAll flips every given activity from Submitted to Approved.
// The returned count lets the caller detect a partial match (an
// activity that was deleted or re-opened since the group was built).
func (s *Store) ApproveAll(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": models.StatusSubmitted},
		bson.M{"$set": bson.M{"status": models.StatusApproved, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RevertToSubmitted is the compensating write when approval fails after
// statuses were already flipped on a deployment without transactions.
func (s *Store) RevertToSubmitted(ctx context.Context, ids []primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": models.StatusApproved},
		bson.M{"$set": bson.M{"status": models.StatusSubmitted, "updated_at": time.Now()}},
	)
	return err
}

// TotalPointsByCategory sums a student's activity points per category.
func (s *Store) TotalPointsByCategory(ctx context.Context, studentID primitive.ObjectID) (map[string]int, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"student_id": studentID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$category",
			"total_points": bson.M{"$sum": "$points"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category    string `bson:"_id"`
		TotalPoints int    `bson:"total_points"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.TotalPoints
	}
	return totals, nil
}
