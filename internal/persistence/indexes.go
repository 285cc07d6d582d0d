package persistence

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureIndexes creates the indexes the repositories rely on. Unique
// usernames back the roster-resolution invariant: one roster entry per
// identity.
func EnsureIndexes(ctx context.Context, db *Mongo, logger *zap.Logger) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"cafes": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "menu.name", Value: "text"}}},
		},
		"orders": {
			{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "cafe_slug", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"events": {
			{Keys: bson.D{{Key: "cafe_slug", Value: 1}, {Key: "starts_at", Value: 1}}},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
		logger.Debug("ensured indexes", zap.String("collection", collection), zap.Int("count", len(models)))
	}
	logger.Info("mongodb indexes ensured")
	return nil
}
