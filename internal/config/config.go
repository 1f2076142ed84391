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

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Working storage: uploads land in WorkDir/in, split outputs in
	// WorkDir/out/<jobID>.
	WorkDir string

	// Job state
	JobTTL time.Duration

	// Split plan naming
	NameMaxRunes int

	// Printed-TOC fallback for PDFs without embedded bookmarks
	TOCFallbackPrinted bool
	TOCScanPages       int
	TOCPageOffset      int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8092"),

		APIKey: os.Getenv("DOCSPLIT_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 209715200), // 200MB

		WorkDir: envOr("WORK_DIR", "./work"),

		JobTTL: envDuration("JOB_TTL", 2*time.Hour),

		NameMaxRunes: envInt("NAME_MAX_RUNES", 100),

		TOCFallbackPrinted: envBool("TOC_FALLBACK_PRINTED", false),
		TOCScanPages:       envInt("TOC_SCAN_PAGES", 20),
		TOCPageOffset:      envInt("TOC_PAGE_OFFSET", 0),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 209715200
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 2 * time.Hour
	}
	if cfg.NameMaxRunes <= 0 {
		cfg.NameMaxRunes = 100
	}
	if cfg.TOCScanPages <= 0 {
		cfg.TOCScanPages = 20
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSPLIT_API_KEY is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("WORK_DIR must not be empty")
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
