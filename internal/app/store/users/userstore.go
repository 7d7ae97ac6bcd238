package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/meritrack/internal/app/system/normalize"
	"github.com/dalemusser/meritrack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateUsername is returned when attempting to create or
	// rename a user to a username that already exists.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	errBadRole           = errors.New(`role must be "student"|"rater"|"validator"|"admin"`)
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(normalize.Username(username))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// The caller supplies PasswordHash already hashed.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.School = normalize.School(u.School)
	u.Username = normalize.Username(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	if u.Role == "" {
		u.Role = models.RoleStudent
	}
	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// List returns every user, newest first. Password hashes never reach
// the wire (the model hides them from JSON), so no projection is needed.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SetActive toggles the login gate on an account. Returns the number of
// documents modified (0 when the user is missing or already in that state).
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) (int64, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CredentialUpdate holds the self-service fields a user may change.
// Empty fields are left untouched.
type CredentialUpdate struct {
	Username     string
	PasswordHash string
}

// ErrNothingToUpdate is returned when a credential update carries no fields.
var ErrNothingToUpdate = errors.New("no valid fields to update")

// UpdateCredentials changes a user's username and/or password hash.
// Returns ErrDuplicateUsername when the new username belongs to another
// account, and mongo.ErrNoDocuments when the user does not exist.
func (s *Store) UpdateCredentials(ctx context.Context, id primitive.ObjectID, upd CredentialUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Username != "" {
		username := normalize.Username(upd.Username)
		taken, err := s.usernameExistsForOther(ctx, username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateUsername
		}
		set["username"] = username
		set["username_ci"] = text.Fold(username)
	}
	if upd.PasswordHash != "" {
		set["password_hash"] = upd.PasswordHash
	}
	if len(set) == 1 {
		return nil, ErrNothingToUpdate
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return s.GetByID(ctx, id)
}

func (s *Store) usernameExistsForOther(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"username_ci": text.Fold(username),
		"_id":         bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// GroupBySchool returns every user bucketed by school name. Users with
// no school land under "Unknown".
func (s *Store) GroupBySchool(ctx context.Context) (map[string][]models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.User)
	for _, u := range users {
		school := u.School
		if school == "" {
			school = "Unknown"
		}
		grouped[school] = append(grouped[school], u)
	}
	return grouped, nil
}
