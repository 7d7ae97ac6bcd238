package formstore

import (
	"context"

	"github.com/dalemusser/meritrack/internal/domain/models"
)

// defaultTemplate builds one seed template. Every category shares the
// name/date/evidence skeleton; the attribute select carries the
// category's legacy rule-table options.
func defaultTemplate(categoryKey, title, attributeLabel string, options []string) models.FormTemplate {
	return models.FormTemplate{
		CategoryKey: categoryKey,
		Title:       title,
		Fields: []models.FormField{
			{Label: "Activity Name", Name: "name", Type: "text", Required: true},
			{Label: "Date", Name: "date", Type: "date", Required: true},
			{Label: "Organizer / Venue", Name: "venue", Type: "text"},
			{Label: attributeLabel, Name: "attribute", Type: "select", Options: options},
			{Label: "Evidence", Name: "evidence", Type: "file", Accept: "image/jpeg,image/png,application/pdf"},
		},
	}
}

// DefaultTemplates returns the eight category templates the portal
// ships with. Seeded at startup when the forms collection is empty.
func DefaultTemplates() []models.FormTemplate {
	return []models.FormTemplate{
		defaultTemplate("co-curricular", "Co-curricular Activities", "Role",
			[]string{"Organizer", "Participant", "Facilitator"}),
		defaultTemplate("community", "Community Involvement", "Scope",
			[]string{"Local", "National", "International"}),
		defaultTemplate("creative", "Creative Works", "Contribution",
			[]string{"Creator", "Contributor"}),
		defaultTemplate("combined", "Combined Activities", "Level",
			[]string{"High", "Medium", "Low"}),
		defaultTemplate("marshals", "Marshals", "Position",
			[]string{"Lead", "Regular"}),
		defaultTemplate("officers", "Class Officers", "Position",
			[]string{"President", "Officer", "Member"}),
		defaultTemplate("councils", "Student Councils", "Position",
			[]string{"President", "Officer", "Member"}),
		defaultTemplate("athletes", "Athletes", "Level",
			[]string{"Varsity", "Regular"}),
	}
}

// SeedDefaults inserts the default templates when the collection is
// empty. Idempotent across restarts.
func (s *Store) SeedDefaults(ctx context.Context) (bool, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := s.InsertMany(ctx, DefaultTemplates()); err != nil {
		return false, err
	}
	return true, nil
}
