package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediastream/internal/domain"
)

type commentDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	VideoName        string             `bson:"videoName"`
	Username         string             `bson:"username"`
	Text             string             `bson:"text"`
	TimestampSeconds float64            `bson:"timestampSeconds"`
	CreatedAt        int64              `bson:"createdAt"`
}

type CommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(client *mongo.Client, dbName string) *CommentRepository {
	return &CommentRepository{collection: client.Database(dbName).Collection("comments")}
}

// Add stores the comment and returns it with the generated ID and
// creation time filled in.
func (r *CommentRepository) Add(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	doc := commentDoc{
		ID:               primitive.NewObjectID(),
		VideoName:        comment.VideoName,
		Username:         comment.Username,
		Text:             comment.Text,
		TimestampSeconds: comment.TimestampSeconds,
		CreatedAt:        time.Now().Unix(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return domain.Comment{}, err
	}
	return commentDocToDomain(doc), nil
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoName string) ([]domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"videoName": videoName}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []commentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(docs))
	for _, doc := range docs {
		comments = append(comments, commentDocToDomain(doc))
	}
	return comments, nil
}

func commentDocToDomain(doc commentDoc) domain.Comment {
	return domain.Comment{
		ID:               doc.ID.Hex(),
		VideoName:        doc.VideoName,
		Username:         doc.Username,
		Text:             doc.Text,
		TimestampSeconds: doc.TimestampSeconds,
		CreatedAt:        timeFromUnix(doc.CreatedAt),
	}
}
