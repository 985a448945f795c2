package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"mediastream/internal/domain"
	"mediastream/internal/domain/ports"
)

// VideoPage is one page of library results. Total counts every match
// before pagination so clients can render page controls.
type VideoPage struct {
	Videos []domain.Video
	Total  int
}

// ListVideos resolves playlist and favorite filters into a name
// restriction, pages the library through it, and annotates the results
// with cached durations and thumbnail availability.
type ListVideos struct {
	Library   ports.Library
	Playlists ports.PlaylistStore
	Favorites ports.FavoriteStore
	Durations ports.DurationCache
	Thumbs    ports.Thumbnailer
	Logger    *slog.Logger
}

func (uc ListVideos) Execute(ctx context.Context, filter domain.LibraryFilter) (VideoPage, error) {
	if uc.Library == nil {
		return VideoPage{}, errors.New("library not configured")
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	restrict, err := uc.restriction(ctx, filter)
	if err != nil {
		return VideoPage{}, err
	}

	videos, total := uc.Library.List(filter, restrict)

	uc.attachDurations(ctx, videos)
	if uc.Thumbs != nil {
		for i := range videos {
			videos[i].HasThumbnail = uc.Thumbs.Has(videos[i].Name)
		}
	}

	return VideoPage{Videos: videos, Total: total}, nil
}

// restriction builds the allowed-name set implied by the playlist and
// favorites filters. nil means unrestricted; an empty set matches
// nothing.
func (uc ListVideos) restriction(ctx context.Context, filter domain.LibraryFilter) (map[string]struct{}, error) {
	var restrict map[string]struct{}

	if name := strings.TrimSpace(filter.Playlist); name != "" {
		if uc.Playlists == nil {
			return nil, errors.New("playlist store not configured")
		}
		playlist, err := uc.Playlists.Get(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
			return nil, wrapStore(err)
		}
		restrict = make(map[string]struct{}, len(playlist.Videos))
		for _, video := range playlist.Videos {
			restrict[video] = struct{}{}
		}
	}

	if filter.Favorites {
		if uc.Favorites == nil {
			return nil, errors.New("favorite store not configured")
		}
		favorites, err := uc.Favorites.List(ctx)
		if err != nil {
			return nil, wrapStore(err)
		}
		favored := make(map[string]struct{}, len(favorites))
		for _, fav := range favorites {
			favored[fav.VideoName] = struct{}{}
		}
		if restrict == nil {
			restrict = favored
			return restrict, nil
		}
		for name := range restrict {
			if _, ok := favored[name]; !ok {
				delete(restrict, name)
			}
		}
	}

	return restrict, nil
}

func (uc ListVideos) attachDurations(ctx context.Context, videos []domain.Video) {
	if uc.Durations == nil || len(videos) == 0 {
		return
	}

	names := make([]string, len(videos))
	for i, v := range videos {
		names[i] = v.Name
	}

	durations, err := uc.Durations.GetMany(ctx, names)
	if err != nil {
		uc.logger().Warn("list_videos: duration lookup failed", slog.String("error", err.Error()))
		return
	}
	for i := range videos {
		if seconds, ok := durations[videos[i].Name]; ok {
			videos[i].DurationSeconds = seconds
		}
	}
}

func (uc ListVideos) logger() *slog.Logger {
	if uc.Logger != nil {
		return uc.Logger
	}
	return slog.Default()
}
