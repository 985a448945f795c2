package ports

import (
	"context"

	"mediastream/internal/domain"
)

type Library interface {
	// List applies search, order and pagination from the filter. A
	// non-nil restrict set limits results to those names. The second
	// return value is the match count before limit/offset.
	List(filter domain.LibraryFilter, restrict map[string]struct{}) ([]domain.Video, int)
	Get(name string) (domain.Video, error)
	// ResolvePath re-validates that name stays under the media root
	// and returns the absolute on-disk location.
	ResolvePath(name string) (string, error)
	Rescan(ctx context.Context) (int, error)
	Stats() domain.LibraryStats
}
