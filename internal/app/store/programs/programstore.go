package programstore

import (
	"context"
	"errors"
	"time"

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
	return &Store{c: db.Collection("programs")}
}

var errBadProgram = errors.New("school, program, and a positive year count are required")

// Create inserts a catalog entry. The (school, program) pair is a
// natural key but duplicates are tolerated, matching the portal's
// behavior.
func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	p.ID = primitive.NewObjectID()
	p.School = normalize.School(p.School)
	p.Program = normalize.Name(p.Program)
	if p.School == "" || p.Program == "" || p.Years <= 0 {
		return models.Program{}, errBadProgram
	}
	p.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// List returns the whole catalog sorted by school then program.
func (s *Store) List(ctx context.Context) ([]models.Program, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "school", Value: 1},
		{Key: "program", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var programs []models.Program
	if err := cur.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// Delete removes a catalog entry, returning the deleted count (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
