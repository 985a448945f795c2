package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "media",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "path"})

	StreamsStartedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "streams_started_total",
		Help:      "Total stream responses started, by status (200, 206, 416).",
	}, []string{"status"})

	StreamBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "stream_bytes_total",
		Help:      "Total bytes written to clients by the stream endpoint.",
	})

	RangeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "range_requests_total",
		Help:      "Range header parse outcomes: full, partial, suffix, malformed, unsatisfiable.",
	}, []string{"outcome"})

	StreamInterruptionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "stream_interruptions_total",
		Help:      "Streams aborted before the final chunk, usually client disconnects.",
	})

	LibraryVideos = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "media",
		Name:      "library_videos",
		Help:      "Number of videos in the library index after the last scan.",
	})

	LibraryScanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "media",
		Name:      "library_scan_duration_seconds",
		Help:      "Duration of library rescans in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	ThumbnailsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "thumbnails_generated_total",
		Help:      "Total thumbnails generated by refresh runs.",
	})

	ProbesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "media",
		Name:      "probes_total",
		Help:      "ffprobe runs that stored a duration in the cache.",
	})

	WSClientsConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "media",
		Name:      "ws_clients_connected",
		Help:      "Number of currently connected WebSocket clients.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		StreamsStartedTotal,
		StreamBytesTotal,
		RangeRequestsTotal,
		StreamInterruptionsTotal,
		LibraryVideos,
		LibraryScanDuration,
		ThumbnailsGeneratedTotal,
		ProbesTotal,
		WSClientsConnected,
	)
}
