package domain

import (
	"errors"
	"time"
)

// Video is a single entry in the library index. Name is the
// library-relative file name (forward slashes) and the public identifier
// used in every API path; Path is the resolved on-disk location.
type Video struct {
	Name            string    `json:"name"`
	Path            string    `json:"-"`
	Size            int64     `json:"size"`
	ModTime         time.Time `json:"modTime"`
	DurationSeconds float64   `json:"durationSeconds"`
	HasThumbnail    bool      `json:"hasThumbnail"`
}

// Validate checks domain invariants for Video.
func (v Video) Validate() error {
	if v.Name == "" {
		return errors.New("video name is required")
	}
	if v.Path == "" {
		return errors.New("video path is required")
	}
	if v.Size < 0 {
		return errors.New("size must not be negative")
	}
	if v.DurationSeconds < 0 {
		return errors.New("durationSeconds must not be negative")
	}
	return nil
}

// LibraryStats is a point-in-time summary of the scanned library.
type LibraryStats struct {
	Videos        int       `json:"videos"`
	TotalBytes    int64     `json:"totalBytes"`
	DiskFreeBytes int64     `json:"diskFreeBytes"`
	LastScanAt    time.Time `json:"lastScanAt"`
}
