package apihttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mediastream/internal/domain"
	domainports "mediastream/internal/domain/ports"
	"mediastream/internal/services/names"
	"mediastream/internal/usecase"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type ListVideosUseCase interface {
	Execute(ctx context.Context, filter domain.LibraryFilter) (usecase.VideoPage, error)
}

type StreamVideoUseCase interface {
	Execute(ctx context.Context, name string) (usecase.StreamSource, error)
}

type RefreshLibraryUseCase interface {
	Execute(ctx context.Context) (usecase.RefreshResult, error)
}

type NameIndexer interface {
	Index() names.Index
}

type Server struct {
	listVideos     ListVideosUseCase
	streamVideo    StreamVideoUseCase
	refreshLibrary RefreshLibraryUseCase
	library        domainports.Library
	history        domainports.HistoryStore
	favorites      domainports.FavoriteStore
	playlists      domainports.PlaylistStore
	comments       domainports.CommentStore
	playerSettings domainports.PlayerSettingsStore
	thumbs         domainports.Thumbnailer
	durations      domainports.DurationCache
	names          NameIndexer
	storeMode      string
	chunkSize      int
	cacheMaxAge    int
	perPageDefault int
	rateRPS        float64
	rateBurst      int
	allowedOrigins []string
	logger         *slog.Logger
	handler        http.Handler
	wsHub          *wsHub
}

type ServerOption func(*Server)

func WithLibrary(library domainports.Library) ServerOption {
	return func(s *Server) {
		s.library = library
	}
}

func WithRefreshLibrary(uc RefreshLibraryUseCase) ServerOption {
	return func(s *Server) {
		s.refreshLibrary = uc
	}
}

func WithHistory(store domainports.HistoryStore) ServerOption {
	return func(s *Server) {
		s.history = store
	}
}

func WithFavorites(store domainports.FavoriteStore) ServerOption {
	return func(s *Server) {
		s.favorites = store
	}
}

func WithPlaylists(store domainports.PlaylistStore) ServerOption {
	return func(s *Server) {
		s.playlists = store
	}
}

func WithComments(store domainports.CommentStore) ServerOption {
	return func(s *Server) {
		s.comments = store
	}
}

func WithPlayerSettings(store domainports.PlayerSettingsStore) ServerOption {
	return func(s *Server) {
		s.playerSettings = store
	}
}

func WithThumbnails(thumbs domainports.Thumbnailer) ServerOption {
	return func(s *Server) {
		s.thumbs = thumbs
	}
}

func WithDurations(cache domainports.DurationCache) ServerOption {
	return func(s *Server) {
		s.durations = cache
	}
}

func WithNames(indexer NameIndexer) ServerOption {
	return func(s *Server) {
		s.names = indexer
	}
}

// WithStoreMode records which persistence backend is active ("mongo" or
// "jsonfile") so /healthz can report it.
func WithStoreMode(mode string) ServerOption {
	return func(s *Server) {
		s.storeMode = mode
	}
}

func WithChunkSize(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func WithCacheMaxAge(seconds int) ServerOption {
	return func(s *Server) {
		if seconds > 0 {
			s.cacheMaxAge = seconds
		}
	}
}

func WithPerPageDefault(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.perPageDefault = n
		}
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.rateRPS = rps
		}
		if burst > 0 {
			s.rateBurst = burst
		}
	}
}

// WithAllowedOrigins configures the CORS allowed origins whitelist.
// When empty (default), any origin is permitted (development mode).
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func NewServer(listVideos ListVideosUseCase, streamVideo StreamVideoUseCase, opts ...ServerOption) *Server {
	s := &Server{
		listVideos:     listVideos,
		streamVideo:    streamVideo,
		perPageDefault: defaultPerPage,
		rateRPS:        100,
		rateBurst:      200,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.wsHub = newWSHub(s.logger)
	go s.wsHub.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/videos", s.handleVideos)
	mux.HandleFunc("/videos/", s.handleVideoByName)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/history/", s.handleHistoryByName)
	mux.HandleFunc("/favorites", s.handleFavorites)
	mux.HandleFunc("/favorites/", s.handleFavoriteByName)
	mux.HandleFunc("/playlists", s.handlePlaylists)
	mux.HandleFunc("/playlists/", s.handlePlaylistByName)
	mux.HandleFunc("/settings/player", s.handlePlayerSettings)
	mux.HandleFunc("/names", s.handleNames)
	mux.HandleFunc("/library/rescan", s.handleLibraryRescan)
	mux.HandleFunc("/library/stats", s.handleLibraryStats)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.handleWS)

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "media-server",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/healthz"
		}),
	)
	s.handler = recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateRPS, s.rateBurst, metricsMiddleware(corsMiddleware(s.allowedOrigins, traced))))
	return s
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.wsHub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := &wsClient{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.wsHub.register <- client
	go client.writePump()
	go client.readPump()
}

// BroadcastLibrary sends a library event (scan results) to all
// connected WebSocket clients.
func (s *Server) BroadcastLibrary(result usecase.RefreshResult) {
	if s.wsHub != nil {
		s.wsHub.Broadcast("library", result)
	}
}

// BroadcastHistory sends an updated watch entry to all connected
// WebSocket clients.
func (s *Server) BroadcastHistory(entry domain.WatchEntry) {
	if s.wsHub != nil {
		s.wsHub.Broadcast("history", entry)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close shuts down the WebSocket hub, disconnecting all clients.
func (s *Server) Close() {
	if s.wsHub != nil {
		s.wsHub.Close()
	}
}

// splitNameRoute separates a videos route tail into the video name and
// the trailing action ("data", "thumbnail", "comments"). Video names
// may contain slashes, so the action is matched as a suffix rather
// than by position.
func splitNameRoute(tail string) (name, action string) {
	for _, candidate := range []string{"data", "thumbnail", "comments"} {
		suffix := "/" + candidate
		if strings.HasSuffix(tail, suffix) {
			return strings.TrimSuffix(tail, suffix), candidate
		}
	}
	return tail, ""
}
