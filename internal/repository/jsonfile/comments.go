package jsonfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"mediastream/internal/domain"
)

type commentRecord struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Text             string    `json:"text"`
	TimestampSeconds float64   `json:"timestampSeconds"`
	CreatedAt        time.Time `json:"createdAt"`
}

type CommentStore struct {
	mu       sync.RWMutex
	path     string
	comments map[string][]commentRecord // video name -> comments, oldest first
}

func NewCommentStore(dir string, logger *slog.Logger) (*CommentStore, error) {
	s := &CommentStore{
		path:     filepath.Join(dir, "comments.json"),
		comments: make(map[string][]commentRecord),
	}
	if err := loadJSON(s.path, &s.comments, logger); err != nil {
		return nil, err
	}
	if s.comments == nil {
		s.comments = make(map[string][]commentRecord)
	}
	return s, nil
}

func (s *CommentStore) Add(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := commentRecord{
		ID:               newID(),
		Username:         comment.Username,
		Text:             comment.Text,
		TimestampSeconds: comment.TimestampSeconds,
		CreatedAt:        time.Now().UTC(),
	}
	s.comments[comment.VideoName] = append(s.comments[comment.VideoName], record)
	if err := saveJSON(s.path, s.comments); err != nil {
		return domain.Comment{}, err
	}
	return commentRecordToDomain(comment.VideoName, record), nil
}

func (s *CommentStore) ListByVideo(ctx context.Context, videoName string) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.comments[videoName]
	comments := make([]domain.Comment, 0, len(records))
	for _, record := range records {
		comments = append(comments, commentRecordToDomain(videoName, record))
	}
	return comments, nil
}

func commentRecordToDomain(videoName string, record commentRecord) domain.Comment {
	return domain.Comment{
		ID:               record.ID,
		VideoName:        videoName,
		Username:         record.Username,
		Text:             record.Text,
		TimestampSeconds: record.TimestampSeconds,
		CreatedAt:        record.CreatedAt,
	}
}
