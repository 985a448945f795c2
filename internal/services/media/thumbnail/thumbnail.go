package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mediastream/internal/domain"
)

// Generator captures preview frames with ffmpeg and caches them as
// JPEGs under a dedicated directory, one file per library video.
type Generator struct {
	binary string
	dir    string
	logger *slog.Logger
}

func New(binary, dir string, logger *slog.Logger) (*Generator, error) {
	bin := strings.TrimSpace(binary)
	if bin == "" {
		bin = "ffmpeg"
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("thumbnail dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}
	return &Generator{binary: bin, dir: dir, logger: logger}, nil
}

// Path maps a library-relative video name to its thumbnail location.
// The full name including the container extension keys the file, so
// clip.mp4 and clip.mkv never collide.
func (g *Generator) Path(videoName string) string {
	return filepath.Join(g.dir, filepath.FromSlash(videoName)+".jpg")
}

func (g *Generator) Has(videoName string) bool {
	info, err := os.Stat(g.Path(videoName))
	return err == nil && info.Size() > 0
}

// Generate captures a frame unless a thumbnail newer than the video
// already exists. The frame at five seconds is preferred; clips
// shorter than that fall back to the first frame.
func (g *Generator) Generate(ctx context.Context, video domain.Video) error {
	out := g.Path(video.Name)

	if info, err := os.Stat(out); err == nil && info.Size() > 0 && info.ModTime().After(video.ModTime) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	attempts := [][]string{
		{"-ss", "5", "-i", video.Path, "-vframes", "1", "-vf", "scale=320:-2", "-q:v", "6", "-y", out},
		{"-i", video.Path, "-vframes", "1", "-vf", "scale=320:-2", "-q:v", "6", "-y", out},
	}

	var lastErr error
	for _, args := range attempts {
		cmd := exec.CommandContext(ctx, g.binary, args...)
		_, lastErr = cmd.CombinedOutput()
		if lastErr == nil {
			if info, err := os.Stat(out); err == nil && info.Size() > 0 {
				return nil
			}
			lastErr = errors.New("empty thumbnail output")
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	g.logger.Warn("thumbnail: generation failed",
		slog.String("video", video.Name),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("generate thumbnail for %s: %w", video.Name, lastErr)
}
