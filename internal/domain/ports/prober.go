package ports

import (
	"context"

	"mediastream/internal/domain"
)

type Prober interface {
	Probe(ctx context.Context, path string) (domain.MediaInfo, error)
}

type Thumbnailer interface {
	Generate(ctx context.Context, video domain.Video) error
	Has(videoName string) bool
	Path(videoName string) string
}
