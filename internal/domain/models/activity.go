// internal/domain/models/activity.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity status lifecycle: Not Submitted → Submitted → Approved,
// with Submitted → Not Submitted as the clarification side transition.
// The literal strings are wire-compatible with the portal's pages.
const (
	StatusNotSubmitted = "Not Submitted"
	StatusSubmitted    = "Submitted"
	StatusApproved     = "Approved"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotSubmitted, StatusSubmitted, StatusApproved:
		return true
	}
	return false
}

// ParseActivityID parses an activity ID from the wire. The portal's
// pages historically sent composite "<hex>_<category>" IDs; everything
// after the first underscore is ignored.
func ParseActivityID(s string) (primitive.ObjectID, error) {
	hex, _, _ := strings.Cut(s, "_")
	return primitive.ObjectIDFromHex(hex)
}

// Activity is one submitted piece of co-curricular work. It is owned by
// a student and mutated by the student (while Not Submitted), by raters
// (points, status), and by validators (status via approval or
// clarification).
//
// Fields holds the dynamic per-category form values (venue, role,
// position, …) as defined by the category's FormTemplate. Date is the
// parsed "date" form field when present; grouping uses it as the
// representative date.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"studentId"`
	Category  string             `bson:"category" json:"category"`
	Fields    map[string]string  `bson:"fields,omitempty" json:"fields,omitempty"`
	Points    int                `bson:"points" json:"points"`
	Evidence  []string           `bson:"evidence,omitempty" json:"evidence,omitempty"`
	Status    string             `bson:"status" json:"status"`
	Date      *time.Time         `bson:"date,omitempty" json:"date,omitempty"`

	RecipientID *primitive.ObjectID `bson:"recipient_id,omitempty" json:"recipientId,omitempty"`
	ValidatorID *primitive.ObjectID `bson:"validator_id,omitempty" json:"validatorId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ActivityWithStudent is an Activity denormalized with the owning
// student's identity, produced by the $lookup pipelines that feed the
// rater queue and validator views. The join happens once at query time.
type ActivityWithStudent struct {
	Activity    `bson:",inline"`
	StudentName string `bson:"student_name" json:"studentName"`
	School      string `bson:"school" json:"school"`
	Course      string `bson:"course" json:"course"`
	SchoolYear  string `bson:"school_year" json:"schoolYear"`
}

// SubmissionGroup is all of one student's Submitted activities rolled
// up for the validator: points is the sum, date the earliest activity
// date, identity copied from the student document.
type SubmissionGroup struct {
	StudentID   primitive.ObjectID    `bson:"_id" json:"studentId"`
	StudentName string                `bson:"student_name" json:"studentName"`
	School      string                `bson:"school" json:"school"`
	Course      string                `bson:"course" json:"course"`
	SchoolYear  string                `bson:"school_year" json:"schoolYear"`
	Activities  []ActivityWithStudent `bson:"activities" json:"activities"`
	Points      int                   `bson:"points" json:"points"`
	Date        *time.Time            `bson:"date,omitempty" json:"date,omitempty"`
}
