package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediastream/internal/domain"
)

type watchEntryDoc struct {
	ID              string  `bson:"_id"` // video name
	PositionSeconds float64 `bson:"positionSeconds"`
	DurationSeconds float64 `bson:"durationSeconds"`
	UpdatedAt       int64   `bson:"updatedAt"`
}

type WatchHistoryRepository struct {
	collection *mongo.Collection
}

func NewWatchHistoryRepository(client *mongo.Client, dbName string) *WatchHistoryRepository {
	return &WatchHistoryRepository{collection: client.Database(dbName).Collection("watch_history")}
}

func (r *WatchHistoryRepository) Upsert(ctx context.Context, entry domain.WatchEntry) error {
	update := bson.M{
		"$set": bson.M{
			"positionSeconds": entry.PositionSeconds,
			"durationSeconds": entry.DurationSeconds,
			"updatedAt":       time.Now().Unix(),
		},
	}
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": entry.VideoName},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *WatchHistoryRepository) Get(ctx context.Context, videoName string) (domain.WatchEntry, error) {
	var doc watchEntryDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": videoName}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.WatchEntry{}, domain.ErrNotFound
		}
		return domain.WatchEntry{}, err
	}
	return watchDocToEntry(doc), nil
}

func (r *WatchHistoryRepository) GetMany(ctx context.Context, videoNames []string) ([]domain.WatchEntry, error) {
	if len(videoNames) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": videoNames}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []watchEntryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]domain.WatchEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, watchDocToEntry(doc))
	}
	return entries, nil
}

func (r *WatchHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.WatchEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []watchEntryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]domain.WatchEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, watchDocToEntry(doc))
	}
	return entries, nil
}

func (r *WatchHistoryRepository) Delete(ctx context.Context, videoName string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": videoName})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func watchDocToEntry(doc watchEntryDoc) domain.WatchEntry {
	return domain.WatchEntry{
		VideoName:       doc.ID,
		PositionSeconds: doc.PositionSeconds,
		DurationSeconds: doc.DurationSeconds,
		UpdatedAt:       timeFromUnix(doc.UpdatedAt),
	}
}
