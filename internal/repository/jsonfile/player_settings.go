package jsonfile

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"mediastream/internal/domain"
)

type PlayerSettingsStore struct {
	mu       sync.RWMutex
	path     string
	settings *domain.PlayerSettings // nil until first Put
}

func NewPlayerSettingsStore(dir string, logger *slog.Logger) (*PlayerSettingsStore, error) {
	s := &PlayerSettingsStore{path: filepath.Join(dir, "player_settings.json")}

	var stored domain.PlayerSettings
	if err := loadJSON(s.path, &stored, logger); err != nil {
		return nil, err
	}
	if !stored.UpdatedAt.IsZero() {
		s.settings = &stored
	}
	return s, nil
}

// Get returns the defaults until a client has saved its own settings.
func (s *PlayerSettingsStore) Get(ctx context.Context) (domain.PlayerSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return domain.DefaultPlayerSettings(), nil
	}
	return *s.settings, nil
}

func (s *PlayerSettingsStore) Put(ctx context.Context, settings domain.PlayerSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings.UpdatedAt = time.Now().UTC()
	if err := saveJSON(s.path, settings); err != nil {
		return err
	}
	s.settings = &settings
	return nil
}
