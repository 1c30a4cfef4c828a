package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"MINDFULTUBE_DATA_FILE",
	"MINDFULTUBE_DAILY_LIMIT",
	"YOUTUBE_API_KEY",
	"GEMINI_API_KEY",
	"MINDFULTUBE_GEMINI_MODEL",
}

// isolate runs the test in an empty directory with a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "mindfultube_data.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.DailyLimit != 2 {
		t.Errorf("DailyLimit = %d, want 2", cfg.DailyLimit)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want none", cfg.Source)
	}
	if err := cfg.RequireYouTubeKey(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("RequireYouTubeKey = %v, want ErrMissingAPIKey", err)
	}
	if err := cfg.RequireGeminiKey(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("RequireGeminiKey = %v, want ErrMissingAPIKey", err)
	}
}

func TestLoadFileInWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), `
data_file: state.json
daily_limit: 3
transcript_languages: [en-GB, en]
request_timeout: 10s
max_retries: 2
log_level: debug
`)

	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "state.json" || cfg.DailyLimit != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.TranscriptLanguages) != 2 || cfg.TranscriptLanguages[0] != "en-GB" {
		t.Errorf("TranscriptLanguages = %v", cfg.TranscriptLanguages)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Source != FileName {
		t.Errorf("Source = %q", cfg.Source)
	}

	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", level, err)
	}

	rc := cfg.Retry()
	if rc.MaxRetries != 2 || rc.InitialBackoff != time.Second || rc.MaxBackoff != 30*time.Second {
		t.Errorf("Retry = %+v", rc)
	}
}

func TestLoadFileInHomeDirectory(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".config", "mindfultube", FileName), "daily_limit: 5\n")

	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DailyLimit != 5 {
		t.Errorf("DailyLimit = %d, want 5", cfg.DailyLimit)
	}
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"), Overrides{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "daily_limit: [not a number\n")

	if _, err := Load(path, Overrides{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "data_file: from-file.json\ndaily_limit: 3\ngemini_model: file-model\nyoutube_api_key: file-key\n")
	writeFile(t, filepath.Join(dir, ".env"), "YOUTUBE_API_KEY=dotenv-key\nGEMINI_API_KEY=dotenv-gemini\n")
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("MINDFULTUBE_GEMINI_MODEL", "env-model")
	t.Setenv("MINDFULTUBE_DAILY_LIMIT", "4")

	cfg, err := Load(path, Overrides{DataFile: "flag.json", DailyLimit: 7})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"flag beats file", cfg.DataFile, "flag.json"},
		{"flag beats env", cfg.DailyLimit, 7},
		{"env beats file", cfg.GeminiModel, "env-model"},
		{"env beats .env", cfg.YouTubeAPIKey, "env-key"},
		{".env fills unset", cfg.GeminiAPIKey, "dotenv-gemini"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if err := cfg.RequireYouTubeKey(); err != nil {
		t.Errorf("RequireYouTubeKey: %v", err)
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	isolate(t)
	t.Setenv("MINDFULTUBE_DAILY_LIMIT", "two")

	if _, err := Load("", Overrides{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero daily limit", func(c *Config) { c.DailyLimit = 0 }},
		{"negative daily limit", func(c *Config) { c.DailyLimit = -1 }},
		{"empty data file", func(c *Config) { c.DataFile = " " }},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero lock timeout", func(c *Config) { c.LockTimeout = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero initial backoff", func(c *Config) { c.InitialBackoff = 0 }},
		{"max below initial", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOverrideRejectedByValidation(t *testing.T) {
	isolate(t)

	_, err := Load("", Overrides{DailyLimit: -3})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}
