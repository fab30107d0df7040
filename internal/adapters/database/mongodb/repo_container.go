package mongodb

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func NewRepositoryProvider(db *mongo.Database) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:   newMongoUserRepository(db),
		ServerRepo: newMongoServerRepository(db),
	}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
// It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uq_users_email").SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("uq_users_username").SetUnique(true)},
		{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetName("uq_users_google_id").SetUnique(true).SetSparse(true)},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	serverIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_servers_owner_created")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "transitionDueAt", Value: 1}}, Options: options.Index().SetName("idx_servers_transition_due")},
	}
	if _, err := db.Collection(serversCollection).Indexes().CreateMany(ctx, serverIndexes); err != nil {
		return fmt.Errorf("failed to create server indexes: %w", err)
	}
	return nil
}
