package approvalstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	"github.com/dalemusser/meritrack/internal/app/system/txn"
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
	return &Store{c: db.Collection("approved_submissions")}
}

// ErrGroupChanged is returned when some activity in the group is no
// longer Submitted (deleted or re-opened since the validator loaded it).
var ErrGroupChanged = errors.New("submission group changed; reload and retry")

// Approve performs the two approval writes as one unit: flip every
// activity in the group to Approved, then insert the immutable
// snapshot. On deployments with transaction support both writes commit
// or neither does; on a standalone server the status flip is reverted
// if the snapshot insert fails.
func (s *Store) Approve(ctx context.Context, client *mongo.Client, activities *activitystore.Store, snapshot models.ApprovedSubmission, ids []primitive.ObjectID) (models.ApprovedSubmission, error) {
	snapshot.ID = primitive.NewObjectID()
	snapshot.ApprovedAt = time.Now()

	apply := func(ctx context.Context) error {
		modified, err := activities.ApproveAll(ctx, ids)
		if err != nil {
			return err
		}
		if modified != int64(len(ids)) {
			return ErrGroupChanged
		}
		if _, err := s.c.InsertOne(ctx, snapshot); err != nil {
			return fmt.Errorf("insert approved submission: %w", err)
		}
		return nil
	}

	err := txn.WithTransaction(ctx, client, apply)
	if errors.Is(err, txn.ErrUnsupported) {
		// No transaction available: run the sequence directly and
		// compensate by reverting any flipped statuses when a later
		// step fails.
		if err = apply(ctx); err != nil {
			if revertErr := activities.RevertToSubmitted(ctx, ids); revertErr != nil {
				return models.ApprovedSubmission{}, errors.Join(err, revertErr)
			}
		}
	}
	if err != nil {
		return models.ApprovedSubmission{}, err
	}
	return snapshot, nil
}

// List returns every approved submission sorted by points desc, then
// approval recency. The sort is total, so repeated fetches without new
// approvals return an identical list.
func (s *Store) List(ctx context.Context) ([]models.ApprovedSubmission, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "points", Value: -1},
		{Key: "approved_at", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.ApprovedSubmission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByStudent returns a student's medal records, highest points first.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.ApprovedSubmission, error) {
	cur, err := s.c.Find(ctx,
		bson.M{
			"student_id": studentID,
			"medal":      bson.M{"$exists": true, "$ne": ""},
		},
		options.Find().SetSort(bson.D{
			{Key: "points", Value: -1},
			{Key: "approved_at", Value: -1},
		}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.ApprovedSubmission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
