package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth for the HTTP API (disabled when empty)
	APIKey string

	// Conversion
	DefaultOutput string
	IndentWidth   int
	Encoding      string
	MaxLineBytes  int

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool

	// Logging; empty means the caller's default level
	LogLevel string

	// Conversion latency stats window
	StatsWindow time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("SECTREE_PORT", "8090"),

		APIKey: os.Getenv("SECTREE_API_KEY"),

		DefaultOutput: envOr("SECTREE_DEFAULT_OUTPUT", "output.json"),
		IndentWidth:   envInt("SECTREE_INDENT", 2),
		Encoding:      envOr("SECTREE_ENCODING", "utf-8"),
		MaxLineBytes:  envInt("SECTREE_MAX_LINE_BYTES", 1024*1024),

		MaxUploadBytes: envInt64("SECTREE_MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("SECTREE_PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: strings.ToLower(os.Getenv("SECTREE_LOG_LEVEL")),

		StatsWindow: envDuration("SECTREE_STATS_WINDOW", 1*time.Hour),
	}

	if cfg.IndentWidth < 0 {
		cfg.IndentWidth = 2
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = 1024 * 1024
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.IndentWidth > 8 {
		return fmt.Errorf("SECTREE_INDENT must be between 0 and 8, got %d", c.IndentWidth)
	}
	if strings.TrimSpace(c.DefaultOutput) == "" {
		return fmt.Errorf("SECTREE_DEFAULT_OUTPUT must not be blank")
	}
	if _, err := ParseLevel(c.LogLevel, slog.LevelInfo); err != nil {
		return err
	}
	return nil
}

// Indent returns the JSON indentation string for IndentWidth.
func (c Config) Indent() string {
	return strings.Repeat(" ", c.IndentWidth)
}

// ParseLevel maps a level name to a slog.Level; "" yields fallback.
func ParseLevel(name string, fallback slog.Level) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "":
		return fallback, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return fallback, fmt.Errorf("SECTREE_LOG_LEVEL: unknown level %q", name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
