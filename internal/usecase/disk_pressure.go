package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"mediastream/internal/domain/ports"
)

// DiskPressure periodically checks available disk space under the media
// root and suspends thumbnail generation when free space drops below
// MinFreeBytes. Generation resumes once free space exceeds ResumeBytes
// (hysteresis prevents rapid suspend/resume cycles).
type DiskPressure struct {
	Library      ports.Library
	Logger       *slog.Logger
	MinFreeBytes int64 // threshold below which generation is suspended
	ResumeBytes  int64 // threshold above which generation may resume
	Interval     time.Duration

	low atomic.Bool
}

// Low reports whether the last check found free space below the
// threshold.
func (dp *DiskPressure) Low() bool { return dp.low.Load() }

// Run starts the periodic disk pressure check loop. It blocks until ctx
// is cancelled.
func (dp *DiskPressure) Run(ctx context.Context) {
	if dp.Library == nil || dp.MinFreeBytes <= 0 {
		return
	}

	interval := dp.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	resume := dp.ResumeBytes
	if resume <= dp.MinFreeBytes {
		resume = dp.MinFreeBytes * 2
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dp.check(resume)
		}
	}
}

func (dp *DiskPressure) check(resume int64) {
	free := dp.Library.Stats().DiskFreeBytes
	if free <= 0 {
		// Zero means the statfs call failed; the library logs that
		// itself. Leave the current state untouched.
		return
	}

	switch {
	case !dp.low.Load() && free < dp.MinFreeBytes:
		dp.low.Store(true)
		dp.logger().Warn("disk_pressure: low disk space, thumbnail generation suspended",
			slog.Int64("freeBytes", free),
			slog.Int64("thresholdBytes", dp.MinFreeBytes),
		)
	case dp.low.Load() && free >= resume:
		dp.low.Store(false)
		dp.logger().Info("disk_pressure: disk space recovered, thumbnail generation resumed",
			slog.Int64("freeBytes", free),
			slog.Int64("resumeBytes", resume),
		)
	}
}

func (dp *DiskPressure) logger() *slog.Logger {
	if dp.Logger != nil {
		return dp.Logger
	}
	return slog.Default()
}
