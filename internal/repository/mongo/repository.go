// Package mongo persists viewer state in MongoDB, one collection per
// concern: watch_history, favorites, playlists, comments and
// player_settings. Document _id is the video or playlist name except
// for comments, which use ObjectIDs.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func Connect(ctx context.Context, uri string, extra ...*options.ClientOptions) (*mongo.Client, error) {
	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, extra...)
	client, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the sort and lookup indexes every store relies
// on. Safe to call on every start.
func EnsureIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	collections := map[string][]mongo.IndexModel{
		"watch_history": {
			{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
		},
		"favorites": {
			{Keys: bson.D{{Key: "addedAt", Value: -1}}},
		},
		"playlists": {
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		"comments": {
			{Keys: bson.D{{Key: "videoName", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for name, models := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}
	return nil
}

func timeFromUnix(value int64) time.Time {
	return time.Unix(value, 0).UTC()
}
