package domain

import (
	"errors"
	"strings"
	"time"
)

// Playlist is a named, ordered, duplicate-free list of video names.
type Playlist struct {
	Name      string    `json:"name"`
	Videos    []string  `json:"videos"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks domain invariants for Playlist.
func (p Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("playlist name is required")
	}
	seen := make(map[string]struct{}, len(p.Videos))
	for _, video := range p.Videos {
		if video == "" {
			return errors.New("playlist must not contain empty video names")
		}
		if _, ok := seen[video]; ok {
			return errors.New("playlist must not contain duplicate videos: " + video)
		}
		seen[video] = struct{}{}
	}
	return nil
}

// Contains reports whether the playlist includes the named video.
func (p Playlist) Contains(video string) bool {
	for _, v := range p.Videos {
		if v == video {
			return true
		}
	}
	return false
}
