package ports

import (
	"context"
	"time"

	"mediastream/internal/domain"
)

type HistoryStore interface {
	Upsert(ctx context.Context, entry domain.WatchEntry) error
	Get(ctx context.Context, videoName string) (domain.WatchEntry, error)
	GetMany(ctx context.Context, videoNames []string) ([]domain.WatchEntry, error)
	ListRecent(ctx context.Context, limit int) ([]domain.WatchEntry, error)
	Delete(ctx context.Context, videoName string) error
}

type FavoriteStore interface {
	Add(ctx context.Context, videoName string) error
	Remove(ctx context.Context, videoName string) error
	List(ctx context.Context) ([]domain.Favorite, error)
	Contains(ctx context.Context, videoName string) (bool, error)
}

type PlaylistStore interface {
	Create(ctx context.Context, playlist domain.Playlist) error
	Get(ctx context.Context, name string) (domain.Playlist, error)
	Rename(ctx context.Context, name, newName string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.Playlist, error)
	AddVideo(ctx context.Context, name, videoName string) error
	RemoveVideo(ctx context.Context, name, videoName string) error
}

type CommentStore interface {
	Add(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	ListByVideo(ctx context.Context, videoName string) ([]domain.Comment, error)
}

type PlayerSettingsStore interface {
	Get(ctx context.Context) (domain.PlayerSettings, error)
	Put(ctx context.Context, settings domain.PlayerSettings) error
}

// DurationCache keeps probed durations between scans. Entries expire
// after the ttl passed to Set; Get reports a miss with ok=false, not
// an error.
type DurationCache interface {
	Get(ctx context.Context, videoName string) (float64, bool, error)
	GetMany(ctx context.Context, videoNames []string) (map[string]float64, error)
	Set(ctx context.Context, videoName string, seconds float64, ttl time.Duration) error
}
