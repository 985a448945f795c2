package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"mediastream/internal/domain"
	"mediastream/internal/domain/ports"
)

const (
	defaultProbeWorkers = 4
	defaultCacheTTL     = 24 * time.Hour
	defaultScanInterval = 15 * time.Minute
)

// RefreshResult summarizes one library refresh.
type RefreshResult struct {
	Videos     int   `json:"videos"`
	Probed     int   `json:"probed"`
	Thumbnails int   `json:"thumbnails"`
	ElapsedMs  int64 `json:"elapsedMs"`
}

// RefreshLibrary rescans the media root, then warms the duration cache
// and thumbnail directory for videos that miss either. Prober, Thumbs
// and Durations are optional; a refresh without them is just a rescan.
type RefreshLibrary struct {
	Library   ports.Library
	Durations ports.DurationCache
	Prober    ports.Prober
	Thumbs    ports.Thumbnailer
	Logger    *slog.Logger

	// Workers bounds concurrent ffmpeg/ffprobe processes.
	Workers  int
	CacheTTL time.Duration
	Interval time.Duration

	// Pressure, when set, suspends thumbnail generation while disk
	// space is low.
	Pressure interface{ Low() bool }

	// Notify, when set, is called after every successful refresh.
	Notify func(RefreshResult)
}

func (uc RefreshLibrary) Execute(ctx context.Context) (RefreshResult, error) {
	if uc.Library == nil {
		return RefreshResult{}, errors.New("library not configured")
	}

	started := time.Now()

	count, err := uc.Library.Rescan(ctx)
	if err != nil {
		return RefreshResult{}, wrapLibrary(err)
	}

	videos, _ := uc.Library.List(domain.LibraryFilter{}, nil)

	result := RefreshResult{
		Videos:     count,
		Probed:     uc.warmDurations(ctx, videos),
		Thumbnails: uc.generateThumbnails(ctx, videos),
	}
	result.ElapsedMs = time.Since(started).Milliseconds()

	if uc.Notify != nil {
		uc.Notify(result)
	}
	return result, nil
}

// Run refreshes on every interval tick until ctx is cancelled. The
// initial scan is the caller's responsibility.
func (uc RefreshLibrary) Run(ctx context.Context) {
	interval := uc.Interval
	if interval <= 0 {
		interval = defaultScanInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				uc.logger().Warn("refresh: scheduled scan failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (uc RefreshLibrary) warmDurations(ctx context.Context, videos []domain.Video) int {
	if uc.Durations == nil || uc.Prober == nil {
		return 0
	}

	workers := int64(uc.Workers)
	if workers <= 0 {
		workers = defaultProbeWorkers
	}
	ttl := uc.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	sem := semaphore.NewWeighted(workers)
	var probed atomic.Int64

	for _, video := range videos {
		if _, ok, err := uc.Durations.Get(ctx, video.Name); err == nil && ok {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func(v domain.Video) {
			defer sem.Release(1)

			info, err := uc.Prober.Probe(ctx, v.Path)
			if err != nil {
				uc.logger().Warn("refresh: probe failed",
					slog.String("video", v.Name),
					slog.String("error", err.Error()))
				return
			}
			if info.DurationSeconds <= 0 {
				return
			}
			if err := uc.Durations.Set(ctx, v.Name, info.DurationSeconds, ttl); err != nil {
				uc.logger().Warn("refresh: duration cache write failed",
					slog.String("video", v.Name),
					slog.String("error", err.Error()))
				return
			}
			probed.Add(1)
		}(video)
	}

	// Wait for in-flight probes even after a cancelled acquire.
	if err := sem.Acquire(context.Background(), workers); err == nil {
		sem.Release(workers)
	}
	return int(probed.Load())
}

func (uc RefreshLibrary) generateThumbnails(ctx context.Context, videos []domain.Video) int {
	if uc.Thumbs == nil {
		return 0
	}
	if uc.Pressure != nil && uc.Pressure.Low() {
		uc.logger().Info("refresh: skipping thumbnails, disk space low")
		return 0
	}

	workers := int64(uc.Workers)
	if workers <= 0 {
		workers = defaultProbeWorkers
	}

	sem := semaphore.NewWeighted(workers)
	var generated atomic.Int64

	for _, video := range videos {
		if uc.Thumbs.Has(video.Name) {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func(v domain.Video) {
			defer sem.Release(1)

			if err := uc.Thumbs.Generate(ctx, v); err != nil {
				uc.logger().Warn("refresh: thumbnail generation failed",
					slog.String("video", v.Name),
					slog.String("error", err.Error()))
				return
			}
			generated.Add(1)
		}(video)
	}

	if err := sem.Acquire(context.Background(), workers); err == nil {
		sem.Release(workers)
	}
	return int(generated.Load())
}

func (uc RefreshLibrary) logger() *slog.Logger {
	if uc.Logger != nil {
		return uc.Logger
	}
	return slog.Default()
}
