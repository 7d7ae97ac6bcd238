package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/meritrack/internal/app/system/htmlsanitize"
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
	return &Store{c: db.Collection("notifications")}
}

// Create inserts a directed message. The body is sanitized before it is
// stored; the type is derived from the sender's role (raters send
// requests, validators send clarifications).
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.Message = htmlsanitize.Sanitize(n.Message)
	if n.Type == "" {
		if n.Role == models.RoleRater {
			n.Type = models.NotificationRequest
		} else {
			n.Type = models.NotificationClarification
		}
	}
	n.CreatedAt = time.Now()
	n.Read = false

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListByRecipient returns a recipient's notifications, newest first.
// Delivery is pull-based; there is no push channel.
func (s *Store) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, bson.M{"recipient_id": recipientID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notifications []models.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// Delete permanently removes a notification. Returns the deleted count.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
