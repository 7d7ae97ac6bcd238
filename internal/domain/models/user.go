// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents students, raters, validators, and admins.
//
// Identity is the username (unique, case-folded into UsernameCI).
// `Active` gates login; a disabled account keeps its records but
// cannot sign in.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	School     string             `bson:"school" json:"school"`
	Course     string             `bson:"course" json:"course"`
	SchoolYear string             `bson:"school_year" json:"schoolYear"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"`
	// PasswordHash is a bcrypt hash and never leaves the server.
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"` // student | rater | validator | admin
	Active       bool   `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// User roles.
const (
	RoleStudent   = "student"
	RoleRater     = "rater"
	RoleValidator = "validator"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the four portal roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleRater, RoleValidator, RoleAdmin:
		return true
	}
	return false
}
