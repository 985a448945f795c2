package domain

import "time"

// Favorite marks a video as pinned by the viewer.
type Favorite struct {
	VideoName string    `json:"videoName"`
	AddedAt   time.Time `json:"addedAt"`
}
