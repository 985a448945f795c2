package jsonfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"mediastream/internal/domain"
)

type playlistRecord struct {
	Videos    []string  `json:"videos"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PlaylistStore struct {
	mu        sync.RWMutex
	path      string
	playlists map[string]playlistRecord
}

func NewPlaylistStore(dir string, logger *slog.Logger) (*PlaylistStore, error) {
	s := &PlaylistStore{
		path:      filepath.Join(dir, "playlists.json"),
		playlists: make(map[string]playlistRecord),
	}
	if err := loadJSON(s.path, &s.playlists, logger); err != nil {
		return nil, err
	}
	if s.playlists == nil {
		s.playlists = make(map[string]playlistRecord)
	}
	return s, nil
}

func (s *PlaylistStore) Create(ctx context.Context, playlist domain.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlist.Name]; ok {
		return domain.ErrAlreadyExists
	}

	now := time.Now().UTC()
	record := playlistRecord{
		Videos:    append([]string{}, playlist.Videos...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.playlists[playlist.Name] = record
	return saveJSON(s.path, s.playlists)
}

func (s *PlaylistStore) Get(ctx context.Context, name string) (domain.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.playlists[name]
	if !ok {
		return domain.Playlist{}, domain.ErrNotFound
	}
	return playlistRecordToDomain(name, record), nil
}

func (s *PlaylistStore) Rename(ctx context.Context, name, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.playlists[name]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.playlists[newName]; ok {
		return domain.ErrAlreadyExists
	}

	record.UpdatedAt = time.Now().UTC()
	s.playlists[newName] = record
	delete(s.playlists, name)
	return saveJSON(s.path, s.playlists)
}

func (s *PlaylistStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[name]; !ok {
		return domain.ErrNotFound
	}
	delete(s.playlists, name)
	return saveJSON(s.path, s.playlists)
}

func (s *PlaylistStore) List(ctx context.Context) ([]domain.Playlist, error) {
	s.mu.RLock()
	playlists := make([]domain.Playlist, 0, len(s.playlists))
	for name, record := range s.playlists {
		playlists = append(playlists, playlistRecordToDomain(name, record))
	}
	s.mu.RUnlock()

	sort.Slice(playlists, func(i, j int) bool {
		if !playlists[i].CreatedAt.Equal(playlists[j].CreatedAt) {
			return playlists[i].CreatedAt.Before(playlists[j].CreatedAt)
		}
		return playlists[i].Name < playlists[j].Name
	})
	return playlists, nil
}

// AddVideo ignores duplicates so re-adding is a no-op.
func (s *PlaylistStore) AddVideo(ctx context.Context, name, videoName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.playlists[name]
	if !ok {
		return domain.ErrNotFound
	}
	for _, v := range record.Videos {
		if v == videoName {
			return nil
		}
	}

	record.Videos = append(record.Videos, videoName)
	record.UpdatedAt = time.Now().UTC()
	s.playlists[name] = record
	return saveJSON(s.path, s.playlists)
}

func (s *PlaylistStore) RemoveVideo(ctx context.Context, name, videoName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.playlists[name]
	if !ok {
		return domain.ErrNotFound
	}

	videos := record.Videos[:0]
	for _, v := range record.Videos {
		if v != videoName {
			videos = append(videos, v)
		}
	}
	record.Videos = videos
	record.UpdatedAt = time.Now().UTC()
	s.playlists[name] = record
	return saveJSON(s.path, s.playlists)
}

func playlistRecordToDomain(name string, record playlistRecord) domain.Playlist {
	videos := record.Videos
	if videos == nil {
		videos = []string{}
	}
	return domain.Playlist{
		Name:      name,
		Videos:    append([]string{}, videos...),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
