package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoServerRepository struct {
	coll *mongo.Collection
}

func newMongoServerRepository(db *mongo.Database) *MongoServerRepository {
	return &MongoServerRepository{coll: db.Collection(serversCollection)}
}

var _ portsrepo.ServerRepositoryFacade = (*MongoServerRepository)(nil)

func ownedServerFilter(ownerID, serverID string) bson.D {
	return bson.D{{Key: "_id", Value: serverID}, {Key: "owner", Value: ownerID}}
}

func (r *MongoServerRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.Server, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query servers: %w", err)
	}
	var docs []serverDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode servers: %w", err)
	}
	servers := make([]domain.Server, 0, len(docs))
	for _, d := range docs {
		servers = append(servers, d.toDomain())
	}
	return servers, nil
}

func (r *MongoServerRepository) FindServerByID(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	var doc serverDocument
	if err := r.coll.FindOne(ctx, ownedServerFilter(ownerID, serverID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find server: %w", err)
	}
	server := doc.toDomain()
	return &server, nil
}

func (r *MongoServerRepository) FindServersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Server, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	return r.find(ctx, bson.D{{Key: "owner", Value: ownerID}}, opts)
}

func (r *MongoServerRepository) CountServersByOwner(ctx context.Context, ownerID string) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "owner", Value: ownerID}})
	if err != nil {
		return 0, fmt.Errorf("failed to count servers: %w", err)
	}
	return int(count), nil
}

func (r *MongoServerRepository) FindDueTransitions(ctx context.Context, now time.Time, limit int) ([]domain.Server, error) {
	filter := bson.D{
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{string(domain.StatusStarting), string(domain.StatusStopping)}}}},
		{Key: "transitionDueAt", Value: bson.D{{Key: "$lte", Value: now}}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "transitionDueAt", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *MongoServerRepository) SaveServer(ctx context.Context, server domain.Server) error {
	if _, err := r.coll.InsertOne(ctx, toServerDocument(server)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewDuplicateError("Server already exists")
		}
		return fmt.Errorf("failed to save server: %w", err)
	}
	return nil
}

func (r *MongoServerRepository) UpdateServerDetails(ctx context.Context, server domain.Server) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: server.Name},
		{Key: "description", Value: server.Description},
		{Key: "maxPlayers", Value: server.MaxPlayers},
		{Key: "updatedAt", Value: server.UpdatedAt},
	}}}
	res, err := r.coll.UpdateOne(ctx, ownedServerFilter(server.OwnerID, server.ServerID), update)
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// transitionUpdate builds the $set document for t. Timestamps that t leaves
// nil are not touched.
func transitionUpdate(t domain.StatusTransition) bson.D {
	set := bson.D{
		{Key: "status", Value: string(t.To)},
		{Key: "transitionDueAt", Value: t.TransitionDueAt},
		{Key: "updatedAt", Value: t.At},
	}
	if t.LastStarted != nil {
		set = append(set, bson.E{Key: "lastStarted", Value: *t.LastStarted})
	}
	if t.LastStopped != nil {
		set = append(set, bson.E{Key: "lastStopped", Value: *t.LastStopped})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func (r *MongoServerRepository) TransitionServerStatus(ctx context.Context, t domain.StatusTransition) (*domain.Server, error) {
	filter := bson.D{{Key: "_id", Value: t.ServerID}, {Key: "status", Value: string(t.From)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc serverDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, transitionUpdate(t), opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("server %s is no longer %s: %w", t.ServerID, t.From, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to transition server status: %w", err)
	}
	server := doc.toDomain()
	return &server, nil
}

func (r *MongoServerRepository) DeleteServer(ctx context.Context, ownerID, serverID string) error {
	res, err := r.coll.DeleteOne(ctx, ownedServerFilter(ownerID, serverID))
	if err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
