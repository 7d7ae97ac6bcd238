package formstore

import (
	"context"

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
	return &Store{c: db.Collection("forms")}
}

// List returns every form template sorted by category key.
func (s *Store) List(ctx context.Context) ([]models.FormTemplate, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "category_key", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var forms []models.FormTemplate
	if err := cur.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// GetByCategory loads the template for one category key.
// Returns mongo.ErrNoDocuments for an unknown category.
func (s *Store) GetByCategory(ctx context.Context, categoryKey string) (*models.FormTemplate, error) {
	var tpl models.FormTemplate
	if err := s.c.FindOne(ctx, bson.M{"category_key": normalize.Category(categoryKey)}).Decode(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// UpdateFields replaces a template's field list only; the title and
// category key are fixed. Returns the matched count so callers can 404
// on a missing template without treating a no-op edit as missing.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, fields []models.FormField) (int64, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"fields": fields}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Count returns how many templates exist. Seeding checks this at startup.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// InsertMany inserts the given templates; used by startup seeding.
func (s *Store) InsertMany(ctx context.Context, templates []models.FormTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	docs := make([]interface{}, len(templates))
	for i, tpl := range templates {
		if tpl.ID.IsZero() {
			tpl.ID = primitive.NewObjectID()
		}
		tpl.CategoryKey = normalize.Category(tpl.CategoryKey)
		docs[i] = tpl
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}
