// internal/domain/models/approvedsubmission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApprovedSubmission is the immutable snapshot written when a validator
// approves a student's group of Submitted activities. Later mutation of
// the originating activities does not touch it, and the medal is never
// recomputed after the snapshot is taken.
type ApprovedSubmission struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   primitive.ObjectID `bson:"student_id" json:"studentId"`
	StudentName string             `bson:"student_name" json:"studentName"`
	School      string             `bson:"school" json:"school"`
	Course      string             `bson:"course" json:"course"`
	SchoolYear  string             `bson:"school_year" json:"schoolYear"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Activities  []Activity         `bson:"activities" json:"activities"`
	Points      int                `bson:"points" json:"points"`
	Medal       string             `bson:"medal" json:"medal"`
	Date        *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	ApprovedAt  time.Time          `bson:"approved_at" json:"approvedAt"`
	ApprovedBy  string             `bson:"approved_by" json:"approvedBy"`
}
