package domain

import (
	"errors"
	"time"
)

// PlayerSettings is the single shared playback configuration document.
type PlayerSettings struct {
	Volume       float64   `json:"volume"`
	PlaybackRate float64   `json:"playbackRate"`
	Muted        bool      `json:"muted"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DefaultPlayerSettings returns the settings used before any client has
// saved its own.
func DefaultPlayerSettings() PlayerSettings {
	return PlayerSettings{Volume: 1.0, PlaybackRate: 1.0}
}

// Validate checks domain invariants for PlayerSettings.
func (s PlayerSettings) Validate() error {
	if s.Volume < 0 || s.Volume > 1 {
		return errors.New("volume must be between 0 and 1")
	}
	if s.PlaybackRate < 0.25 || s.PlaybackRate > 4 {
		return errors.New("playbackRate must be between 0.25 and 4")
	}
	return nil
}
