package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote document store
	DocstoreBaseURL string
	DocstoreToken   string
	DocstoreTimeout time.Duration

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sync settings
	RefreshInterval      time.Duration
	ProbeInterval        time.Duration
	CacheCapacity        int
	RemoteReadsPerMinute int64

	// Session
	UserID    string
	ProfileID string
	Location  *time.Location

	// Logging
	LogLevel string
}

// Load reads the process environment, after merging a .env file from the
// working directory when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Defaults
		DocstoreTimeout:      30 * time.Second,
		RefreshInterval:      5 * time.Minute,
		ProbeInterval:        15 * time.Second,
		CacheCapacity:        10,
		RemoteReadsPerMinute: 60,
		ProfileID:            "default",
		Location:             time.Local,
		LogLevel:             "info",
		RedisDB:              0,
	}

	cfg.DocstoreBaseURL = os.Getenv("DOCSTORE_BASE_URL")
	if cfg.DocstoreBaseURL == "" {
		return nil, fmt.Errorf("DOCSTORE_BASE_URL is required")
	}

	cfg.DocstoreToken = os.Getenv("DOCSTORE_TOKEN")

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	} else {
		cfg.RedisAddr = "localhost:6379"
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if timeout := os.Getenv("DOCSTORE_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid DOCSTORE_TIMEOUT: %w", err)
		}
		cfg.DocstoreTimeout = d
	}

	if interval := os.Getenv("REFRESH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
		}
		cfg.RefreshInterval = d
	}

	if interval := os.Getenv("PROBE_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
		}
		cfg.ProbeInterval = d
	}

	if capacity := os.Getenv("CACHE_CAPACITY"); capacity != "" {
		n, err := strconv.Atoi(capacity)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_CAPACITY: %w", err)
		}
		cfg.CacheCapacity = n
	}

	if reads := os.Getenv("REMOTE_READS_PER_MINUTE"); reads != "" {
		n, err := strconv.ParseInt(reads, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REMOTE_READS_PER_MINUTE: %w", err)
		}
		cfg.RemoteReadsPerMinute = n
	}

	cfg.UserID = os.Getenv("USER_ID")

	if profile := os.Getenv("PROFILE_ID"); profile != "" {
		cfg.ProfileID = profile
	}

	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DocstoreBaseURL == "" {
		return fmt.Errorf("docstore base URL is empty")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.DocstoreTimeout <= 0 {
		return fmt.Errorf("docstore timeout must be positive: %v", c.DocstoreTimeout)
	}

	if c.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh interval too small: %v", c.RefreshInterval)
	}

	if c.ProbeInterval < time.Second {
		return fmt.Errorf("probe interval too small: %v", c.ProbeInterval)
	}

	if c.CacheCapacity < 1 || c.CacheCapacity > 100 {
		return fmt.Errorf("cache capacity must be between 1 and 100")
	}

	if c.RemoteReadsPerMinute < 1 {
		return fmt.Errorf("remote reads per minute must be positive")
	}

	if c.ProfileID == "" {
		return fmt.Errorf("profile id is empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}
