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

type watchEntryRecord struct {
	PositionSeconds float64   `json:"positionSeconds"`
	DurationSeconds float64   `json:"durationSeconds"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type WatchHistoryStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]watchEntryRecord
}

func NewWatchHistoryStore(dir string, logger *slog.Logger) (*WatchHistoryStore, error) {
	s := &WatchHistoryStore{
		path:    filepath.Join(dir, "history.json"),
		entries: make(map[string]watchEntryRecord),
	}
	if err := loadJSON(s.path, &s.entries, logger); err != nil {
		return nil, err
	}
	if s.entries == nil {
		s.entries = make(map[string]watchEntryRecord)
	}
	return s, nil
}

func (s *WatchHistoryStore) Upsert(ctx context.Context, entry domain.WatchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.VideoName] = watchEntryRecord{
		PositionSeconds: entry.PositionSeconds,
		DurationSeconds: entry.DurationSeconds,
		UpdatedAt:       time.Now().UTC(),
	}
	return saveJSON(s.path, s.entries)
}

func (s *WatchHistoryStore) Get(ctx context.Context, videoName string) (domain.WatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.entries[videoName]
	if !ok {
		return domain.WatchEntry{}, domain.ErrNotFound
	}
	return watchRecordToEntry(videoName, record), nil
}

func (s *WatchHistoryStore) GetMany(ctx context.Context, videoNames []string) ([]domain.WatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.WatchEntry, 0, len(videoNames))
	for _, name := range videoNames {
		if record, ok := s.entries[name]; ok {
			entries = append(entries, watchRecordToEntry(name, record))
		}
	}
	return entries, nil
}

func (s *WatchHistoryStore) ListRecent(ctx context.Context, limit int) ([]domain.WatchEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	entries := make([]domain.WatchEntry, 0, len(s.entries))
	for name, record := range s.entries {
		entries = append(entries, watchRecordToEntry(name, record))
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].UpdatedAt.Equal(entries[j].UpdatedAt) {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		}
		return entries[i].VideoName < entries[j].VideoName
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *WatchHistoryStore) Delete(ctx context.Context, videoName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[videoName]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, videoName)
	return saveJSON(s.path, s.entries)
}

func watchRecordToEntry(name string, record watchEntryRecord) domain.WatchEntry {
	return domain.WatchEntry{
		VideoName:       name,
		PositionSeconds: record.PositionSeconds,
		DurationSeconds: record.DurationSeconds,
		UpdatedAt:       record.UpdatedAt,
	}
}
