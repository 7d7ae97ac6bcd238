// internal/domain/models/formtemplate.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormField is one input in a category's submission form. Type follows
// HTML input types (text, date, select, file, …); Options populates
// selects and Accept constrains file inputs.
type FormField struct {
	Label    string   `bson:"label" json:"label"`
	Name     string   `bson:"name" json:"name"`
	Type     string   `bson:"type" json:"type"`
	Required bool     `bson:"required" json:"required"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"`
	Accept   string   `bson:"accept,omitempty" json:"accept,omitempty"`
}

// FormTemplate defines both the submission form and the table columns
// for one activity category. Admins may add, remove, reorder, and edit
// fields; the category key itself is fixed.
type FormTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryKey string             `bson:"category_key" json:"categoryKey"`
	Title       string             `bson:"title" json:"title"`
	Fields      []FormField        `bson:"fields" json:"fields"`
}
