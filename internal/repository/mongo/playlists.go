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

type playlistDoc struct {
	ID        string   `bson:"_id"` // playlist name
	Videos    []string `bson:"videos"`
	CreatedAt int64    `bson:"createdAt"`
	UpdatedAt int64    `bson:"updatedAt"`
}

type PlaylistRepository struct {
	collection *mongo.Collection
}

func NewPlaylistRepository(client *mongo.Client, dbName string) *PlaylistRepository {
	return &PlaylistRepository{collection: client.Database(dbName).Collection("playlists")}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist domain.Playlist) error {
	now := time.Now().Unix()
	doc := playlistDoc{
		ID:        playlist.Name,
		Videos:    playlist.Videos,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Videos == nil {
		doc.Videos = []string{}
	}
	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
	}
	return err
}

func (r *PlaylistRepository) Get(ctx context.Context, name string) (domain.Playlist, error) {
	var doc playlistDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Playlist{}, domain.ErrNotFound
		}
		return domain.Playlist{}, err
	}
	return playlistDocToDomain(doc), nil
}

// Rename copies the document under the new _id and removes the old one;
// Mongo cannot change _id in place. Not atomic: a crash between the two
// writes leaves both names pointing at the same videos.
func (r *PlaylistRepository) Rename(ctx context.Context, name, newName string) error {
	var doc playlistDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return err
	}

	doc.ID = newName
	doc.UpdatedAt = time.Now().Unix()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": name})
	return err
}

func (r *PlaylistRepository) Delete(ctx context.Context, name string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PlaylistRepository) List(ctx context.Context) ([]domain.Playlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []playlistDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	playlists := make([]domain.Playlist, 0, len(docs))
	for _, doc := range docs {
		playlists = append(playlists, playlistDocToDomain(doc))
	}
	return playlists, nil
}

// AddVideo appends via $addToSet, so re-adding a video is a no-op.
func (r *PlaylistRepository) AddVideo(ctx context.Context, name, videoName string) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": name},
		bson.M{
			"$addToSet": bson.M{"videos": videoName},
			"$set":      bson.M{"updatedAt": time.Now().Unix()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, name, videoName string) error {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": name},
		bson.M{
			"$pull": bson.M{"videos": videoName},
			"$set":  bson.M{"updatedAt": time.Now().Unix()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func playlistDocToDomain(doc playlistDoc) domain.Playlist {
	videos := doc.Videos
	if videos == nil {
		videos = []string{}
	}
	return domain.Playlist{
		Name:      doc.ID,
		Videos:    videos,
		CreatedAt: timeFromUnix(doc.CreatedAt),
		UpdatedAt: timeFromUnix(doc.UpdatedAt),
	}
}
