// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mindfultube/internal/retry"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ~/.config/mindfultube.
const FileName = "mindfultube.yaml"

var (
	// ErrInvalidConfig wraps every load and validation failure.
	ErrInvalidConfig = errors.New("config: invalid configuration")
	// ErrMissingAPIKey indicates a command needs a key that is not configured.
	ErrMissingAPIKey = errors.New("config: missing API key")
)

// Config holds all application configuration.
type Config struct {
	// DataFile is the JSON state document.
	DataFile string `yaml:"data_file"`
	// DailyLimit caps how many videos one feed releases.
	DailyLimit int `yaml:"daily_limit"`

	YouTubeAPIKey string `yaml:"youtube_api_key"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	// TranscriptLanguages are BCP 47 tags in preference order.
	TranscriptLanguages []string `yaml:"transcript_languages"`

	// RequestTimeout bounds all network work of one command.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// LockTimeout bounds the wait for the state file lock.
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// Retry settings. MaxRetries 0 makes every external call a single attempt.
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`

	LogLevel string `yaml:"log_level"`

	// Source is the config file that was read, empty when none was found.
	Source string `yaml:"-"`
}

// Overrides are command-line values applied after the environment.
// Zero values leave the loaded setting alone.
type Overrides struct {
	DataFile   string
	DailyLimit int
	LogLevel   string
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		DataFile:            "mindfultube_data.json",
		DailyLimit:          2,
		GeminiModel:         "gemini-2.5-flash",
		TranscriptLanguages: []string{"en", "en-US"},
		RequestTimeout:      60 * time.Second,
		LockTimeout:         5 * time.Second,
		MaxRetries:          0,
		InitialBackoff:      1 * time.Second,
		MaxBackoff:          30 * time.Second,
		LogLevel:            "info",
	}
}

// Load builds the configuration.
// Priority: overrides > env vars > .env > config file > defaults.
// An explicit path must exist; otherwise the file is optional.
func Load(path string, o Overrides) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: load .env: %w", ErrInvalidConfig, err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.apply(o)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// loadFromFile reads path, or the first default location that exists.
func (c *Config) loadFromFile(path string) error {
	paths := []string{path}
	if path == "" {
		paths = []string{FileName}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, ".config", "mindfultube", FileName))
		}
	}

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == "" {
				continue
			}
			return fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		c.Source = p
		return nil
	}

	return nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("MINDFULTUBE_DATA_FILE"); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv("MINDFULTUBE_DAILY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MINDFULTUBE_DAILY_LIMIT: %w", err)
		}
		c.DailyLimit = n
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("MINDFULTUBE_GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	return nil
}

func (c *Config) apply(o Overrides) {
	if o.DataFile != "" {
		c.DataFile = o.DataFile
	}
	if o.DailyLimit != 0 {
		c.DailyLimit = o.DailyLimit
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if c.DailyLimit < 1 {
		return fmt.Errorf("daily_limit must be at least 1, got %d", c.DailyLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}

// Retry returns the backoff settings for external calls.
func (c *Config) Retry() retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = c.MaxRetries
	rc.InitialBackoff = c.InitialBackoff
	rc.MaxBackoff = c.MaxBackoff
	return rc
}

// RequireYouTubeKey reports whether the Data API key is configured.
func (c *Config) RequireYouTubeKey() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: set YOUTUBE_API_KEY or youtube_api_key", ErrMissingAPIKey)
	}
	return nil
}

// RequireGeminiKey reports whether the Gemini key is configured.
func (c *Config) RequireGeminiKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY or gemini_api_key", ErrMissingAPIKey)
	}
	return nil
}
