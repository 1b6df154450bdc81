package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultServiceBaseURL = "https://prizm.environicsanalytics.com/api/pcode"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourcePath     string
	TargetPath     string
	ServiceBaseURL string

	MaxConcurrency int
	RateLimitMs    int
	LookupTimeout  time.Duration

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SourcePath:     getEnv("SOURCE_PATH", "./File/Source.csv"),
		TargetPath:     getEnv("TARGET_PATH", "./File/Target.csv"),
		ServiceBaseURL: getEnv("SERVICE_BASE_URL", defaultServiceBaseURL),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 0),
		LookupTimeout:  time.Duration(getEnvInt("LOOKUP_TIMEOUT_SECONDS", 15)) * time.Second,

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate reports the first setting that would make a run impossible.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourcePath) == "" {
		return errors.New("config: source path is empty")
	}
	if strings.TrimSpace(c.TargetPath) == "" {
		return errors.New("config: target path is empty")
	}
	u, err := url.Parse(c.ServiceBaseURL)
	if err != nil {
		return fmt.Errorf("config: service base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: service base url %q is not absolute", c.ServiceBaseURL)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: max concurrency must be >= 1, got %d", c.MaxConcurrency)
	}
	if c.RateLimitMs < 0 {
		return fmt.Errorf("config: rate limit must be >= 0, got %d", c.RateLimitMs)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("config: lookup timeout must be positive, got %v", c.LookupTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
