package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"mediastream/internal/domain"
)

// Index is the in-memory view of the media directory. Lookups are
// served from the last completed scan; Rescan swaps the snapshot in
// one step so readers never observe a partial scan.
type Index struct {
	root    string
	scanner *Scanner
	logger  *slog.Logger

	mu       sync.RWMutex
	byName   map[string]domain.Video
	ordered  []domain.Video // newest first
	lastScan time.Time
}

func NewIndex(root string, extensions []string, logger *slog.Logger) (*Index, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("media root is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}

	return &Index{
		root:    abs,
		scanner: NewScanner(abs, extensions, logger),
		logger:  logger,
		byName:  map[string]domain.Video{},
	}, nil
}

// Rescan walks the media root and replaces the snapshot. It returns
// the number of videos found.
func (i *Index) Rescan(ctx context.Context) (int, error) {
	started := time.Now()

	videos, err := i.scanner.Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan media root: %w", err)
	}

	sort.Slice(videos, func(a, b int) bool {
		if videos[a].ModTime.Equal(videos[b].ModTime) {
			return videos[a].Name < videos[b].Name
		}
		return videos[a].ModTime.After(videos[b].ModTime)
	})

	byName := make(map[string]domain.Video, len(videos))
	for _, v := range videos {
		byName[v.Name] = v
	}

	i.mu.Lock()
	i.byName = byName
	i.ordered = videos
	i.lastScan = time.Now()
	i.mu.Unlock()

	i.logger.Info("library: scan completed",
		slog.Int("videos", len(videos)),
		slog.Duration("took", time.Since(started)),
	)
	return len(videos), nil
}

// List applies search, order and pagination. A non-nil restrict set
// limits results to those names; the returned total counts matches
// before limit/offset so callers can paginate.
func (i *Index) List(filter domain.LibraryFilter, restrict map[string]struct{}) ([]domain.Video, int) {
	i.mu.RLock()
	snapshot := i.ordered
	i.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]domain.Video, 0, len(snapshot))
	for _, v := range snapshot {
		if restrict != nil {
			if _, ok := restrict[v.Name]; !ok {
				continue
			}
		}
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) {
			continue
		}
		matched = append(matched, v)
	}

	if filter.Shuffle {
		rng := rand.New(rand.NewSource(filter.ShuffleSeed))
		rng.Shuffle(len(matched), func(a, b int) {
			matched[a], matched[b] = matched[b], matched[a]
		})
	}

	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []domain.Video{}, total
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total
}

func (i *Index) Get(name string) (domain.Video, error) {
	i.mu.RLock()
	v, ok := i.byName[name]
	i.mu.RUnlock()

	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return v, nil
}

// ResolvePath maps a library-relative name to an absolute on-disk
// location, rejecting anything that would escape the media root.
func (i *Index) ResolvePath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("video name is required")
	}

	joined := filepath.Join(i.root, filepath.FromSlash(name))
	joined = filepath.Clean(joined)
	if abs, err := filepath.Abs(joined); err == nil {
		joined = abs
	}

	if joined == i.root || !strings.HasPrefix(joined, i.root+string(filepath.Separator)) {
		return "", errors.New("path escapes media root")
	}
	return joined, nil
}

func (i *Index) Stats() domain.LibraryStats {
	i.mu.RLock()
	videos := i.ordered
	lastScan := i.lastScan
	i.mu.RUnlock()

	var total int64
	for _, v := range videos {
		total += v.Size
	}

	stats := domain.LibraryStats{
		Videos:     len(videos),
		TotalBytes: total,
		LastScanAt: lastScan,
	}

	free, err := diskFreeBytes(i.root)
	if err != nil {
		i.logger.Warn("library: disk space check failed",
			slog.String("path", i.root),
			slog.String("error", err.Error()),
		)
		return stats
	}
	stats.DiskFreeBytes = free
	return stats
}
