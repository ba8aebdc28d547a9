package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// NER backends
	PrimaryURL    string
	SecondaryURL  string
	SecondaryKey  string
	NERTimeout    time.Duration
	MaxChunkRunes int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Grounding thresholds
	NameMatchThreshold float64
	TextMatchThreshold float64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("MINWON_API_KEY"),

		PrimaryURL:    os.Getenv("NER_PRIMARY_URL"),
		SecondaryURL:  os.Getenv("NER_SECONDARY_URL"),
		SecondaryKey:  os.Getenv("NER_SECONDARY_KEY"),
		NERTimeout:    envDuration("NER_TIMEOUT", 20*time.Second),
		MaxChunkRunes: envInt("NER_MAX_CHUNK_RUNES", 2000),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		NameMatchThreshold: envFloat("NAME_MATCH_THRESHOLD", 0.8),
		TextMatchThreshold: envFloat("TEXT_MATCH_THRESHOLD", 0.6),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.NERTimeout <= 0 {
		cfg.NERTimeout = 20 * time.Second
	}
	if cfg.MaxChunkRunes <= 0 {
		cfg.MaxChunkRunes = 2000
	}
	if cfg.NameMatchThreshold <= 0 || cfg.NameMatchThreshold > 1 {
		cfg.NameMatchThreshold = 0.8
	}
	if cfg.TextMatchThreshold <= 0 || cfg.TextMatchThreshold > 1 {
		cfg.TextMatchThreshold = 0.6
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("MINWON_API_KEY is required")
	}
	// Backends are optional: with neither configured the extractor runs
	// in regex-only mode. A secondary key without a URL is a mistake.
	if c.SecondaryKey != "" && c.SecondaryURL == "" {
		return fmt.Errorf("NER_SECONDARY_KEY set without NER_SECONDARY_URL")
	}
	return nil
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

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
