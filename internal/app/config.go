package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the process configuration, resolved once at startup from
// environment variables. Invalid values fall back to their defaults
// rather than failing startup.
type Config struct {
	HTTPAddr string
	MediaDir string
	ThumbDir string
	StateDir string

	MongoURI      string // empty = JSON-file stores
	MongoDatabase string
	RedisAddr     string // empty = in-memory duration cache

	LogLevel  string
	LogFormat string

	ChunkSizeBytes          int64
	CacheMaxAgeSeconds      int64
	ItemsPerPage            int
	DurationCacheTTLSeconds int64

	ScanOnStart         bool
	ScanIntervalSeconds int64 // 0 = periodic rescan disabled
	ProbeWorkers        int
	FFMPEGPath          string
	FFProbePath         string
	ThumbnailsEnabled   bool

	MinFreeBytes    int64 // 0 = disk pressure checks disabled
	ResumeFreeBytes int64 // 0 = derived from MinFreeBytes

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	OTLPEndpoint    string // empty = tracing disabled
	TraceSampleRate float64
}

func LoadConfig() Config {
	mediaDir := getEnv("MEDIA_DIR", "./media")
	return Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		MediaDir: mediaDir,
		ThumbDir: getEnv("THUMB_DIR", filepath.Join(mediaDir, ".thumbs")),
		StateDir: getEnv("STATE_DIR", "./state"),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DB", "mediastream"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		ChunkSizeBytes:          getEnvInt64("CHUNK_SIZE_BYTES", 1<<20),
		CacheMaxAgeSeconds:      getEnvInt64("CACHE_MAX_AGE_SECONDS", 86400),
		ItemsPerPage:            int(getEnvInt64("ITEMS_PER_PAGE", 32)),
		DurationCacheTTLSeconds: getEnvInt64("DURATION_CACHE_TTL_SECONDS", 86400),

		ScanOnStart:         getEnvBool("SCAN_ON_START", true),
		ScanIntervalSeconds: getEnvInt64("SCAN_INTERVAL_SECONDS", 0),
		ProbeWorkers:        int(getEnvInt64("PROBE_WORKERS", 4)),
		FFMPEGPath:          getEnv("FFMPEG_PATH", "ffmpeg"),
		FFProbePath:         getEnv("FFPROBE_PATH", "ffprobe"),
		ThumbnailsEnabled:   getEnvBool("THUMBNAILS_ENABLED", true),

		MinFreeBytes:    getEnvInt64("MIN_FREE_BYTES", 0),
		ResumeFreeBytes: getEnvInt64("RESUME_FREE_BYTES", 0),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst: int(getEnvInt64("RATE_LIMIT_BURST", 200)),

		CORSAllowedOrigins: parseCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRate: getEnvFloat("OTEL_TRACE_SAMPLE_RATE", 0.1),
	}
}

// StoreMode reports which persistence backend the configuration selects.
func (c Config) StoreMode() string {
	if strings.TrimSpace(c.MongoURI) != "" {
		return "mongo"
	}
	return "jsonfile"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	if parsed < 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseCSV(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
