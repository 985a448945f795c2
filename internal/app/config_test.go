package app

import (
	"os"
	"path/filepath"
	"testing"
)

func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// Clear all env vars that LoadConfig reads so we get pure defaults.
	envVars := []string{
		"HTTP_ADDR", "MEDIA_DIR", "THUMB_DIR", "STATE_DIR",
		"MONGO_URI", "MONGO_DB", "REDIS_ADDR",
		"LOG_LEVEL", "LOG_FORMAT",
		"CHUNK_SIZE_BYTES", "CACHE_MAX_AGE_SECONDS", "ITEMS_PER_PAGE",
		"DURATION_CACHE_TTL_SECONDS",
		"SCAN_ON_START", "SCAN_INTERVAL_SECONDS", "PROBE_WORKERS",
		"FFMPEG_PATH", "FFPROBE_PATH", "THUMBNAILS_ENABLED",
		"MIN_FREE_BYTES", "RESUME_FREE_BYTES",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"CORS_ALLOWED_ORIGINS",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_TRACE_SAMPLE_RATE",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":8080"},
		{"MediaDir", cfg.MediaDir, "./media"},
		{"ThumbDir", cfg.ThumbDir, filepath.Join("./media", ".thumbs")},
		{"StateDir", cfg.StateDir, "./state"},
		{"MongoURI", cfg.MongoURI, ""},
		{"MongoDatabase", cfg.MongoDatabase, "mediastream"},
		{"RedisAddr", cfg.RedisAddr, ""},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"ChunkSizeBytes", cfg.ChunkSizeBytes, int64(1 << 20)},
		{"CacheMaxAgeSeconds", cfg.CacheMaxAgeSeconds, int64(86400)},
		{"ItemsPerPage", cfg.ItemsPerPage, 32},
		{"DurationCacheTTLSeconds", cfg.DurationCacheTTLSeconds, int64(86400)},
		{"ScanOnStart", cfg.ScanOnStart, true},
		{"ScanIntervalSeconds", cfg.ScanIntervalSeconds, int64(0)},
		{"ProbeWorkers", cfg.ProbeWorkers, 4},
		{"FFMPEGPath", cfg.FFMPEGPath, "ffmpeg"},
		{"FFProbePath", cfg.FFProbePath, "ffprobe"},
		{"ThumbnailsEnabled", cfg.ThumbnailsEnabled, true},
		{"MinFreeBytes", cfg.MinFreeBytes, int64(0)},
		{"ResumeFreeBytes", cfg.ResumeFreeBytes, int64(0)},
		{"RateLimitRPS", cfg.RateLimitRPS, float64(100)},
		{"RateLimitBurst", cfg.RateLimitBurst, 200},
		{"OTLPEndpoint", cfg.OTLPEndpoint, ""},
		{"TraceSampleRate", cfg.TraceSampleRate, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins: got %v, want nil/empty", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	setEnvs(t, map[string]string{
		"HTTP_ADDR":                   ":9090",
		"MEDIA_DIR":                   "/srv/videos",
		"THUMB_DIR":                   "/var/cache/thumbs",
		"STATE_DIR":                   "/var/lib/mediastream",
		"MONGO_URI":                   "mongodb://remote:27017",
		"MONGO_DB":                    "mydb",
		"REDIS_ADDR":                  "redis:6379",
		"LOG_LEVEL":                   "DEBUG",
		"LOG_FORMAT":                  "JSON",
		"CHUNK_SIZE_BYTES":            "262144",
		"CACHE_MAX_AGE_SECONDS":       "3600",
		"ITEMS_PER_PAGE":              "50",
		"DURATION_CACHE_TTL_SECONDS":  "7200",
		"SCAN_ON_START":               "false",
		"SCAN_INTERVAL_SECONDS":       "300",
		"PROBE_WORKERS":               "8",
		"FFMPEG_PATH":                 "/usr/bin/ffmpeg",
		"FFPROBE_PATH":                "/usr/bin/ffprobe",
		"THUMBNAILS_ENABLED":          "false",
		"MIN_FREE_BYTES":              "1073741824",
		"RESUME_FREE_BYTES":           "2147483648",
		"RATE_LIMIT_RPS":              "25.5",
		"RATE_LIMIT_BURST":            "40",
		"CORS_ALLOWED_ORIGINS":        "http://localhost:3000, https://example.com",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
		"OTEL_TRACE_SAMPLE_RATE":      "0.5",
	})

	cfg := LoadConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":9090"},
		{"MediaDir", cfg.MediaDir, "/srv/videos"},
		{"ThumbDir", cfg.ThumbDir, "/var/cache/thumbs"},
		{"StateDir", cfg.StateDir, "/var/lib/mediastream"},
		{"MongoURI", cfg.MongoURI, "mongodb://remote:27017"},
		{"MongoDatabase", cfg.MongoDatabase, "mydb"},
		{"RedisAddr", cfg.RedisAddr, "redis:6379"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"ChunkSizeBytes", cfg.ChunkSizeBytes, int64(262144)},
		{"CacheMaxAgeSeconds", cfg.CacheMaxAgeSeconds, int64(3600)},
		{"ItemsPerPage", cfg.ItemsPerPage, 50},
		{"DurationCacheTTLSeconds", cfg.DurationCacheTTLSeconds, int64(7200)},
		{"ScanOnStart", cfg.ScanOnStart, false},
		{"ScanIntervalSeconds", cfg.ScanIntervalSeconds, int64(300)},
		{"ProbeWorkers", cfg.ProbeWorkers, 8},
		{"FFMPEGPath", cfg.FFMPEGPath, "/usr/bin/ffmpeg"},
		{"FFProbePath", cfg.FFProbePath, "/usr/bin/ffprobe"},
		{"ThumbnailsEnabled", cfg.ThumbnailsEnabled, false},
		{"MinFreeBytes", cfg.MinFreeBytes, int64(1073741824)},
		{"ResumeFreeBytes", cfg.ResumeFreeBytes, int64(2147483648)},
		{"RateLimitRPS", cfg.RateLimitRPS, 25.5},
		{"RateLimitBurst", cfg.RateLimitBurst, 40},
		{"OTLPEndpoint", cfg.OTLPEndpoint, "collector:4318"},
		{"TraceSampleRate", cfg.TraceSampleRate, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", tt.got, tt.got, tt.want, tt.want)
			}
		})
	}

	wantOrigins := []string{"http://localhost:3000", "https://example.com"}
	if len(cfg.CORSAllowedOrigins) != len(wantOrigins) {
		t.Fatalf("CORSAllowedOrigins: got %d entries, want %d", len(cfg.CORSAllowedOrigins), len(wantOrigins))
	}
	for i, got := range cfg.CORSAllowedOrigins {
		if got != wantOrigins[i] {
			t.Errorf("CORSAllowedOrigins[%d]: got %q, want %q", i, got, wantOrigins[i])
		}
	}
}

func TestStoreMode(t *testing.T) {
	tests := []struct {
		name     string
		mongoURI string
		want     string
	}{
		{"empty uri selects jsonfile", "", "jsonfile"},
		{"whitespace uri selects jsonfile", "   ", "jsonfile"},
		{"uri selects mongo", "mongodb://localhost:27017", "mongo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{MongoURI: tt.mongoURI}
			if got := cfg.StoreMode(); got != tt.want {
				t.Errorf("StoreMode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThumbDirFollowsMediaDir(t *testing.T) {
	t.Setenv("MEDIA_DIR", "/srv/videos")
	t.Setenv("THUMB_DIR", "")
	os.Unsetenv("THUMB_DIR")

	cfg := LoadConfig()

	if want := filepath.Join("/srv/videos", ".thumbs"); cfg.ThumbDir != want {
		t.Errorf("ThumbDir = %q, want %q", cfg.ThumbDir, want)
	}
}

func TestGetEnvInt64InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback int64
		want     int64
	}{
		{"empty string", "", 42, 42},
		{"not a number", "abc", 42, 42},
		{"negative number", "-5", 42, 42},
		{"zero", "0", 42, 0},
		{"valid positive", "100", 42, 100},
		{"whitespace around number", "  50  ", 42, 50},
		{"float", "3.14", 42, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_VAR", tt.envVal)
			got := getEnvInt64("TEST_INT_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("getEnvInt64(%q, %d) = %d, want %d", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetEnvFloatInvalidFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback float64
		want     float64
	}{
		{"empty string", "", 1.5, 1.5},
		{"not a number", "abc", 1.5, 1.5},
		{"negative", "-2", 1.5, 1.5},
		{"zero", "0", 1.5, 0},
		{"valid", "12.25", 1.5, 12.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT_VAR", tt.envVal)
			got := getEnvFloat("TEST_FLOAT_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("getEnvFloat(%q, %f) = %f, want %f", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback bool
		want     bool
	}{
		{"empty uses fallback true", "", true, true},
		{"empty uses fallback false", "", false, false},
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"yes", "YES", false, true},
		{"on", "on", false, true},
		{"false", "false", true, false},
		{"zero", "0", true, false},
		{"no", "No", true, false},
		{"off", "off", true, false},
		{"garbage uses fallback", "banana", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.envVal)
			got := getEnvBool("TEST_BOOL_VAR", tt.fallback)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %t) = %t, want %t", tt.envVal, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"whitespace only", "   ", nil},
		{"single value", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"multiple values", "a,b,c", []string{"a", "b", "c"}},
		{"values with spaces", " a , b , c ", []string{"a", "b", "c"}},
		{"trailing comma", "a,b,", []string{"a", "b"}},
		{"empty entries filtered", "a,,b,,c", []string{"a", "b", "c"}},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCSV(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("parseCSV(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseCSV(%q) returned %d elements, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("parseCSV(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("TEST_EXISTING", "hello")

	if got := getEnv("TEST_EXISTING", "default"); got != "hello" {
		t.Errorf("getEnv(existing) = %q, want %q", got, "hello")
	}

	// Unset to test fallback
	t.Setenv("TEST_MISSING_XYZ", "")
	os.Unsetenv("TEST_MISSING_XYZ")
	if got := getEnv("TEST_MISSING_XYZ", "default"); got != "default" {
		t.Errorf("getEnv(missing) = %q, want %q", got, "default")
	}
}

func TestLogLevelCaseInsensitive(t *testing.T) {
	// LoadConfig lowercases LOG_LEVEL, so "DEBUG" -> "debug"
	t.Setenv("LOG_LEVEL", "DEBUG")
	cfg := LoadConfig()
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}

	t.Setenv("LOG_LEVEL", "Warn")
	cfg = LoadConfig()
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "warn")
	}
}
