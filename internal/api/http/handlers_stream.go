package apihttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mediastream/internal/domain"
	"mediastream/internal/metrics"
	"mediastream/internal/stream"
)

const historyTouchTimeout = 5 * time.Second

func (s *Server) handleStreamData(w http.ResponseWriter, r *http.Request, name string) {
	if s.streamVideo == nil {
		writeNotConfigured(w, "video streaming")
		return
	}

	src, err := s.streamVideo.Execute(r.Context(), name)
	if err != nil {
		writeStoreError(w, err, "video")
		return
	}

	size := src.Video.Size
	rangeHeader := r.Header.Get("Range")

	rng, err := stream.ParseRange(rangeHeader, size)
	metrics.RangeRequestsTotal.WithLabelValues(rangeOutcome(rangeHeader, err)).Inc()
	switch {
	case errors.Is(err, stream.ErrUnsatisfiable):
		_ = src.File.Close()
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		metrics.StreamsStartedTotal.WithLabelValues(strconv.Itoa(http.StatusRequestedRangeNotSatisfiable)).Inc()
		return
	case errors.Is(err, stream.ErrMalformed):
		// Lenient per the original server: an unparseable Range header
		// degrades to the full resource, not an error.
		rng = nil
	case err != nil:
		_ = src.File.Close()
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	var opts []stream.Option
	if s.chunkSize > 0 {
		opts = append(opts, stream.WithChunkSize(s.chunkSize))
	}
	if s.cacheMaxAge > 0 {
		opts = append(opts, stream.WithCacheMaxAge(s.cacheMaxAge))
	}

	resp, err := stream.NewResponse(src.File, stream.Descriptor{Size: size, ContentType: src.ContentType}, rng, opts...)
	if errors.Is(err, stream.ErrUnsatisfiable) {
		_ = src.File.Close()
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		metrics.StreamsStartedTotal.WithLabelValues(strconv.Itoa(http.StatusRequestedRangeNotSatisfiable)).Inc()
		return
	}
	if err != nil {
		_ = src.File.Close()
		s.logger.Error("stream: response setup failed",
			slog.String("video", name),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.Status)
	metrics.StreamsStartedTotal.WithLabelValues(strconv.Itoa(resp.Status)).Inc()

	if r.Method == http.MethodHead {
		return
	}

	s.touchHistory(r, src.Video)

	written, err := resp.Body.WriteTo(w)
	metrics.StreamBytesTotal.Add(float64(written))
	if err != nil {
		// Usually the player closing the connection mid-playback.
		metrics.StreamInterruptionsTotal.Inc()
		s.logger.Debug("stream: copy interrupted",
			slog.String("video", name),
			slog.Int64("written", written),
			slog.String("error", err.Error()),
		)
	}
}

// touchHistory refreshes the video's watch entry so it surfaces in the
// recent list. Runs detached from the request: a slow store must not
// delay the first body chunk, and a client disconnect must not cancel
// the write.
func (s *Server) touchHistory(r *http.Request, video domain.Video) {
	if s.history == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), historyTouchTimeout)
		defer cancel()

		entry, err := s.history.Get(ctx, video.Name)
		if errors.Is(err, domain.ErrNotFound) {
			entry = domain.WatchEntry{VideoName: video.Name, DurationSeconds: video.DurationSeconds}
		} else if err != nil {
			s.logger.Warn("stream: history read failed",
				slog.String("video", video.Name),
				slog.String("error", err.Error()),
			)
			return
		}

		if err := s.history.Upsert(ctx, entry); err != nil {
			s.logger.Warn("stream: history touch failed",
				slog.String("video", video.Name),
				slog.String("error", err.Error()),
			)
			return
		}
		s.BroadcastHistory(entry)
	}()
}

func rangeOutcome(header string, err error) string {
	switch {
	case strings.TrimSpace(header) == "":
		return "full"
	case errors.Is(err, stream.ErrMalformed):
		return "malformed"
	case errors.Is(err, stream.ErrUnsatisfiable):
		return "unsatisfiable"
	case strings.HasPrefix(strings.TrimSpace(header), "bytes=-"):
		return "suffix"
	default:
		return "partial"
	}
}
