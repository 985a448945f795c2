package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	apihttp "mediastream/internal/api/http"
	"mediastream/internal/app"
	"mediastream/internal/domain/ports"
	"mediastream/internal/metrics"
	"mediastream/internal/repository/jsonfile"
	mongorepo "mediastream/internal/repository/mongo"
	"mediastream/internal/repository/rediscache"
	"mediastream/internal/services/library"
	"mediastream/internal/services/media/ffprobe"
	"mediastream/internal/services/media/thumbnail"
	"mediastream/internal/services/names"
	"mediastream/internal/telemetry"
	"mediastream/internal/usecase"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "media-server",
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "media-server"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.String("storeMode", cfg.StoreMode()),
		slog.String("mediaDir", cfg.MediaDir),
		slog.String("stateDir", cfg.StateDir),
		slog.Bool("thumbnails", cfg.ThumbnailsEnabled),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer cancel()

	var (
		historyStore  ports.HistoryStore
		favoriteStore ports.FavoriteStore
		playlistStore ports.PlaylistStore
		commentStore  ports.CommentStore
		settingsStore ports.PlayerSettingsStore
		mongoClient   *mongodriver.Client
	)

	if cfg.StoreMode() == "mongo" {
		client, err := mongorepo.Connect(ctx, cfg.MongoURI, options.Client().SetMonitor(otelmongo.NewMonitor()))
		if err != nil {
			logger.Error("mongo connect failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			logger.Error("mongo ping failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := mongorepo.EnsureIndexes(ctx, client, cfg.MongoDatabase); err != nil {
			logger.Warn("mongo ensure indexes failed", slog.String("error", err.Error()))
		}
		mongoClient = client
		historyStore = mongorepo.NewWatchHistoryRepository(client, cfg.MongoDatabase)
		favoriteStore = mongorepo.NewFavoriteRepository(client, cfg.MongoDatabase)
		playlistStore = mongorepo.NewPlaylistRepository(client, cfg.MongoDatabase)
		commentStore = mongorepo.NewCommentRepository(client, cfg.MongoDatabase)
		settingsStore = mongorepo.NewPlayerSettingsRepository(client, cfg.MongoDatabase)
	} else {
		history, err := jsonfile.NewWatchHistoryStore(cfg.StateDir, logger)
		if err != nil {
			logger.Error("watch history store init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		favorites, err := jsonfile.NewFavoriteStore(cfg.StateDir, logger)
		if err != nil {
			logger.Error("favorite store init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		playlists, err := jsonfile.NewPlaylistStore(cfg.StateDir, logger)
		if err != nil {
			logger.Error("playlist store init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		comments, err := jsonfile.NewCommentStore(cfg.StateDir, logger)
		if err != nil {
			logger.Error("comment store init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		settings, err := jsonfile.NewPlayerSettingsStore(cfg.StateDir, logger)
		if err != nil {
			logger.Error("player settings store init failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		historyStore = history
		favoriteStore = favorites
		playlistStore = playlists
		commentStore = comments
		settingsStore = settings
	}

	var durations ports.DurationCache
	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory duration cache",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			durations = rediscache.NewRedisDurationCache(redisClient)
		}
	}
	if durations == nil {
		durations = rediscache.NewMemoryDurationCache()
	}

	index, err := library.NewIndex(cfg.MediaDir, nil, logger)
	if err != nil {
		logger.Error("library init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	prober := ffprobe.New(cfg.FFProbePath)

	var thumbs ports.Thumbnailer
	if cfg.ThumbnailsEnabled {
		gen, err := thumbnail.New(cfg.FFMPEGPath, cfg.ThumbDir, logger)
		if err != nil {
			logger.Warn("thumbnail generator init failed", slog.String("error", err.Error()))
		} else {
			thumbs = gen
		}
	}

	pressure := &usecase.DiskPressure{
		Library:      index,
		Logger:       logger,
		MinFreeBytes: cfg.MinFreeBytes,
		ResumeBytes:  cfg.ResumeFreeBytes,
	}

	listUC := usecase.ListVideos{
		Library:   index,
		Playlists: playlistStore,
		Favorites: favoriteStore,
		Durations: durations,
		Thumbs:    thumbs,
		Logger:    logger,
	}
	streamUC := usecase.StreamVideo{Library: index, Logger: logger}

	// handler is assigned below, before any scan goroutine starts.
	var handler *apihttp.Server

	refreshUC := usecase.RefreshLibrary{
		Library:   index,
		Durations: durations,
		Prober:    prober,
		Thumbs:    thumbs,
		Logger:    logger,
		Workers:   cfg.ProbeWorkers,
		CacheTTL:  time.Duration(cfg.DurationCacheTTLSeconds) * time.Second,
		Interval:  time.Duration(cfg.ScanIntervalSeconds) * time.Second,
		Pressure:  pressure,
		Notify: func(result usecase.RefreshResult) {
			metrics.LibraryVideos.Set(float64(result.Videos))
			metrics.LibraryScanDuration.Observe(float64(result.ElapsedMs) / 1000)
			metrics.ThumbnailsGeneratedTotal.Add(float64(result.Thumbnails))
			metrics.ProbesTotal.Add(float64(result.Probed))
			handler.BroadcastLibrary(result)
		},
	}

	serverOptions := []apihttp.ServerOption{
		apihttp.WithLogger(logger),
		apihttp.WithLibrary(index),
		apihttp.WithRefreshLibrary(refreshUC),
		apihttp.WithHistory(historyStore),
		apihttp.WithFavorites(favoriteStore),
		apihttp.WithPlaylists(playlistStore),
		apihttp.WithComments(commentStore),
		apihttp.WithPlayerSettings(settingsStore),
		apihttp.WithDurations(durations),
		apihttp.WithNames(names.NewService(index)),
		apihttp.WithStoreMode(cfg.StoreMode()),
		apihttp.WithChunkSize(int(cfg.ChunkSizeBytes)),
		apihttp.WithCacheMaxAge(int(cfg.CacheMaxAgeSeconds)),
		apihttp.WithPerPageDefault(cfg.ItemsPerPage),
		apihttp.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		apihttp.WithAllowedOrigins(cfg.CORSAllowedOrigins),
	}
	if thumbs != nil {
		serverOptions = append(serverOptions, apihttp.WithThumbnails(thumbs))
	}

	handler = apihttp.NewServer(listUC, streamUC, serverOptions...)

	// Scan the media root in the background so the HTTP server starts immediately.
	if cfg.ScanOnStart {
		go func() {
			if _, err := refreshUC.Execute(rootCtx); err != nil {
				logger.Warn("initial library scan failed", slog.String("error", err.Error()))
			}
		}()
	}

	// Start periodic rescans.
	if cfg.ScanIntervalSeconds > 0 {
		go refreshUC.Run(rootCtx)
	}

	// Start disk pressure monitor.
	if cfg.MinFreeBytes > 0 {
		go pressure.Run(rootCtx)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // range streams can run for hours
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server started", slog.String("addr", cfg.HTTPAddr))

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	handler.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", slog.String("error", err.Error()))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close error", slog.String("error", err.Error()))
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
