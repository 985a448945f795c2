package domain

import "time"

// WatchEntry records how far a viewer got into a video. One entry per
// video; writes upsert.
type WatchEntry struct {
	VideoName       string    `json:"videoName"`
	PositionSeconds float64   `json:"positionSeconds"`
	DurationSeconds float64   `json:"durationSeconds"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Progress returns the watched fraction in [0, 1].
func (e WatchEntry) Progress() float64 {
	if e.DurationSeconds <= 0 {
		return 0
	}
	p := e.PositionSeconds / e.DurationSeconds
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
