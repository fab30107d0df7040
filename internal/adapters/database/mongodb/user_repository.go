// Package mongodb implements the repository ports on MongoDB (DB_DRIVER=mongodb).
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func newMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

var _ portsrepo.UserRepositoryFacade = (*MongoUserRepository)(nil)

// duplicateUserError maps a duplicate key error to the message clients expect.
// The driver only reports the index name inside the error text.
func duplicateUserError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uq_users_email"):
		return apperrors.NewDuplicateError("Email already registered")
	case strings.Contains(msg, "uq_users_username"):
		return apperrors.NewDuplicateError("Username already taken")
	case strings.Contains(msg, "uq_users_google_id"):
		return apperrors.NewDuplicateError("Google account already linked")
	default:
		return apperrors.NewDuplicateError("User already exists")
	}
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := doc.toDomain()
	return &user, nil
}

func (r *MongoUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: userID}})
}

func (r *MongoUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *MongoUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "googleId", Value: googleID}})
}

func (r *MongoUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: user.UserID}}, toUserDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found: %w", user.UserID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "lastLogin", Value: at}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}
