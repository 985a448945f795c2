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

const playerSettingsID = "player"

type playerSettingsDoc struct {
	ID           string  `bson:"_id"`
	Volume       float64 `bson:"volume"`
	PlaybackRate float64 `bson:"playbackRate"`
	Muted        bool    `bson:"muted"`
	UpdatedAt    int64   `bson:"updatedAt"`
}

type PlayerSettingsRepository struct {
	collection *mongo.Collection
}

func NewPlayerSettingsRepository(client *mongo.Client, dbName string) *PlayerSettingsRepository {
	return &PlayerSettingsRepository{collection: client.Database(dbName).Collection("player_settings")}
}

// Get returns the defaults until a client has saved its own settings.
func (r *PlayerSettingsRepository) Get(ctx context.Context) (domain.PlayerSettings, error) {
	var doc playerSettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": playerSettingsID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.DefaultPlayerSettings(), nil
		}
		return domain.PlayerSettings{}, err
	}
	return playerSettingsDocToDomain(doc), nil
}

func (r *PlayerSettingsRepository) Put(ctx context.Context, settings domain.PlayerSettings) error {
	update := bson.M{
		"$set": bson.M{
			"volume":       settings.Volume,
			"playbackRate": settings.PlaybackRate,
			"muted":        settings.Muted,
			"updatedAt":    time.Now().Unix(),
		},
	}
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": playerSettingsID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func playerSettingsDocToDomain(doc playerSettingsDoc) domain.PlayerSettings {
	return domain.PlayerSettings{
		Volume:       doc.Volume,
		PlaybackRate: doc.PlaybackRate,
		Muted:        doc.Muted,
		UpdatedAt:    timeFromUnix(doc.UpdatedAt),
	}
}
