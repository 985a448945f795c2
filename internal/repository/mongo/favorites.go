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

type favoriteDoc struct {
	ID      string `bson:"_id"` // video name
	AddedAt int64  `bson:"addedAt"`
}

type FavoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(client *mongo.Client, dbName string) *FavoriteRepository {
	return &FavoriteRepository{collection: client.Database(dbName).Collection("favorites")}
}

// Add is idempotent: marking an existing favorite keeps its original
// addedAt.
func (r *FavoriteRepository) Add(ctx context.Context, videoName string) error {
	update := bson.M{
		"$setOnInsert": bson.M{"addedAt": time.Now().Unix()},
	}
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": videoName},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, videoName string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": videoName})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) List(ctx context.Context) ([]domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []favoriteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	favorites := make([]domain.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorites = append(favorites, favoriteDocToDomain(doc))
	}
	return favorites, nil
}

func (r *FavoriteRepository) Contains(ctx context.Context, videoName string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"_id": videoName}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func favoriteDocToDomain(doc favoriteDoc) domain.Favorite {
	return domain.Favorite{
		VideoName: doc.ID,
		AddedAt:   timeFromUnix(doc.AddedAt),
	}
}
