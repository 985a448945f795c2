package stream

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const (
	// DefaultChunkSize bounds how much of a resource is held in
	// memory between writes.
	DefaultChunkSize = 1 << 20

	// DefaultCacheMaxAge is the max-age advertised on streamed
	// responses, in seconds.
	DefaultCacheMaxAge = 86400
)

// Descriptor is a point-in-time snapshot of the resource being
// served. It is taken per request, never cached across requests.
type Descriptor struct {
	Size        int64
	ContentType string
}

// Response describes one streamed exchange. Body is consumed at most
// once; the caller owns closing it on every exit path.
type Response struct {
	Status  int
	Headers http.Header
	Body    *Body
}

type Option func(*settings)

type settings struct {
	chunkSize   int
	cacheMaxAge int
}

func WithChunkSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func WithCacheMaxAge(seconds int) Option {
	return func(s *settings) {
		if seconds > 0 {
			s.cacheMaxAge = seconds
		}
	}
}

// NewResponse plans the transfer of src as described by d. A nil rng
// streams the whole resource with status 200; otherwise the slice is
// streamed with status 206 and a Content-Range header. src is
// positioned at the start offset, by seeking when it supports that
// and by discarding reads when it does not.
func NewResponse(src io.Reader, d Descriptor, rng *Range, opts ...Option) (*Response, error) {
	cfg := settings{chunkSize: DefaultChunkSize, cacheMaxAge: DefaultCacheMaxAge}
	for _, opt := range opts {
		opt(&cfg)
	}

	if d.Size < 0 {
		return nil, fmt.Errorf("negative resource size %d", d.Size)
	}

	status := http.StatusOK
	start := int64(0)
	length := d.Size

	if rng != nil {
		r := *rng
		if r.End >= d.Size {
			r.End = d.Size - 1
		}
		if r.Start < 0 || r.Start >= d.Size || r.End < r.Start {
			return nil, ErrUnsatisfiable
		}
		status = http.StatusPartialContent
		start = r.Start
		length = r.Length()
	}

	if start > 0 {
		if err := skipTo(src, start); err != nil {
			return nil, fmt.Errorf("position source at %d: %w", start, err)
		}
	}

	contentType := d.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)
	headers.Set("Accept-Ranges", "bytes")
	headers.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cfg.cacheMaxAge))
	headers.Set("Content-Length", strconv.FormatInt(length, 10))
	if status == http.StatusPartialContent {
		headers.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, start+length-1, d.Size))
	}

	return &Response{
		Status:  status,
		Headers: headers,
		Body:    newBody(src, length, cfg.chunkSize),
	}, nil
}

func skipTo(src io.Reader, offset int64) error {
	if seeker, ok := src.(io.Seeker); ok {
		_, err := seeker.Seek(offset, io.SeekStart)
		return err
	}
	_, err := io.CopyN(io.Discard, src, offset)
	return err
}
