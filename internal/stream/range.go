package stream

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMalformed reports a Range header that could not be parsed.
	// Callers fall back to a full-body response instead of failing
	// the request.
	ErrMalformed = errors.New("malformed range header")

	// ErrUnsatisfiable reports a well-formed range that lies outside
	// the resource.
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// Range is an inclusive byte span within a resource.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange interprets a Range request header against a resource of
// size bytes. An empty header yields a nil range, meaning the full
// body is served. A single bytes=start-end span is accepted, with the
// open-ended (bytes=start-) and suffix (bytes=-n) forms; multiple
// spans count as malformed. An end offset past the resource is
// clamped to the last byte, a start offset past the resource is
// unsatisfiable.
func ParseRange(header string, size int64) (*Range, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, nil
	}
	if size <= 0 {
		return nil, ErrUnsatisfiable
	}

	if !strings.HasPrefix(strings.ToLower(header), "bytes=") {
		return nil, ErrMalformed
	}

	spec := strings.TrimSpace(header[len("bytes="):])
	if spec == "" || strings.Contains(spec, ",") {
		return nil, ErrMalformed
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return nil, ErrMalformed
	}

	startStr := strings.TrimSpace(parts[0])
	endStr := strings.TrimSpace(parts[1])

	if startStr == "" {
		if endStr == "" {
			return nil, ErrMalformed
		}
		suffix, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || suffix <= 0 {
			return nil, ErrMalformed
		}
		if suffix > size {
			suffix = size
		}
		return &Range{Start: size - suffix, End: size - 1}, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, ErrMalformed
	}
	if start >= size {
		return nil, ErrUnsatisfiable
	}

	if endStr == "" {
		return &Range{Start: start, End: size - 1}, nil
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < 0 {
		return nil, ErrMalformed
	}
	if end >= size {
		end = size - 1
	}
	if end < start {
		return nil, ErrUnsatisfiable
	}
	return &Range{Start: start, End: end}, nil
}
