package library

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediastream/internal/domain"
)

// DefaultExtensions is the set of file extensions the library serves.
var DefaultExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}

type Scanner struct {
	root       string
	extensions map[string]struct{}
	logger     *slog.Logger
}

func NewScanner(root string, extensions []string, logger *slog.Logger) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{root: root, extensions: set, logger: logger}
}

// Scan walks the media root and returns every playable file. Names
// are root-relative with forward slashes, so they double as URL path
// segments. Unreadable entries are skipped, not fatal.
func (s *Scanner) Scan(ctx context.Context) ([]domain.Video, error) {
	var videos []domain.Video

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Warn("library: skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}

		if info.IsDir() {
			// Dot directories hold thumbnails and editor state, never media.
			if path != s.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := s.extensions[ext]; !ok {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			s.logger.Warn("library: skipping unresolvable path",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}

		videos = append(videos, domain.Video{
			Name:    filepath.ToSlash(rel),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return videos, nil
}
