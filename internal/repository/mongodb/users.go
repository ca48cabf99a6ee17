package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

// InsertUser stores a new account. The unique e-mail index turns a second
// sign-up with the same address into repository.ErrDuplicate.
func (r *MongoDBRepository) InsertUser(ctx context.Context, user models.User) error {
	if _, err := r.db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser loads one account by id.
func (r *MongoDBRepository) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.findByID(ctx, usersCollection, id, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail loads one account by its e-mail address.
func (r *MongoDBRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, repository.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns accounts with the given role, or every account when role is
// empty, sorted by name.
func (r *MongoDBRepository) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	query := bson.M{}
	if role != "" {
		query["role"] = role
	}

	cursor, err := r.db.Collection(usersCollection).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
