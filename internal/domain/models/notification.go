// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types. A request asks the student for more evidence; a
// clarification flags an issue and reverts the activity so the student
// can resubmit.
const (
	NotificationRequest       = "request"
	NotificationClarification = "clarification"
)

// Notification is a directed message between roles, keyed by
// (senderId, recipientId, activityId). Delivery is pull-based and
// deletion is recipient-initiated and permanent.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"studentId"`
	ActivityID  primitive.ObjectID `bson:"activity_id" json:"activityId"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"senderId"`
	Message     string             `bson:"message" json:"message"`
	Type        string             `bson:"type" json:"type"` // request | clarification
	Role        string             `bson:"role" json:"role"` // sender's role
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	Read        bool               `bson:"read" json:"read"`
}
