package domain

import (
	"errors"
	"strings"
	"time"
)

// AnonymousUsername is used when a comment arrives without a username.
const AnonymousUsername = "Anonymous"

// Comment is a timestamped remark attached to a video. TimestampSeconds
// points into the video's timeline, not wall-clock time.
type Comment struct {
	ID               string    `json:"id"`
	VideoName        string    `json:"videoName"`
	Username         string    `json:"username"`
	Text             string    `json:"text"`
	TimestampSeconds float64   `json:"timestampSeconds"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Validate checks domain invariants for Comment.
func (c Comment) Validate() error {
	if c.VideoName == "" {
		return errors.New("video name is required")
	}
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("comment text is required")
	}
	if c.TimestampSeconds < 0 {
		return errors.New("timestampSeconds must not be negative")
	}
	return nil
}
