// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a school/program catalog entry that drives the signup
// dropdowns. No uniqueness is enforced beyond the natural
// (school, program) key.
type Program struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	School  string             `bson:"school" json:"school"`
	Program string             `bson:"program" json:"program"`
	Years   int                `bson:"years" json:"years"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
