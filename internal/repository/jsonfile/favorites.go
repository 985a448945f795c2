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

type FavoriteStore struct {
	mu        sync.RWMutex
	path      string
	favorites map[string]time.Time // video name -> added at
}

func NewFavoriteStore(dir string, logger *slog.Logger) (*FavoriteStore, error) {
	s := &FavoriteStore{
		path:      filepath.Join(dir, "favorites.json"),
		favorites: make(map[string]time.Time),
	}
	if err := loadJSON(s.path, &s.favorites, logger); err != nil {
		return nil, err
	}
	if s.favorites == nil {
		s.favorites = make(map[string]time.Time)
	}
	return s, nil
}

// Add is idempotent: re-adding keeps the original addedAt and skips the
// disk write.
func (s *FavoriteStore) Add(ctx context.Context, videoName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[videoName]; ok {
		return nil
	}
	s.favorites[videoName] = time.Now().UTC()
	return saveJSON(s.path, s.favorites)
}

func (s *FavoriteStore) Remove(ctx context.Context, videoName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[videoName]; !ok {
		return domain.ErrNotFound
	}
	delete(s.favorites, videoName)
	return saveJSON(s.path, s.favorites)
}

func (s *FavoriteStore) List(ctx context.Context) ([]domain.Favorite, error) {
	s.mu.RLock()
	favorites := make([]domain.Favorite, 0, len(s.favorites))
	for name, addedAt := range s.favorites {
		favorites = append(favorites, domain.Favorite{VideoName: name, AddedAt: addedAt})
	}
	s.mu.RUnlock()

	sort.Slice(favorites, func(i, j int) bool {
		if !favorites[i].AddedAt.Equal(favorites[j].AddedAt) {
			return favorites[i].AddedAt.After(favorites[j].AddedAt)
		}
		return favorites[i].VideoName < favorites[j].VideoName
	})
	return favorites, nil
}

func (s *FavoriteStore) Contains(ctx context.Context, videoName string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.favorites[videoName]
	return ok, nil
}
