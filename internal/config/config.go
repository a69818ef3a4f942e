// Package config loads canvasd server configuration from an optional TOML
// file, with defaults suitable for local development. Flags on the serve
// command override file values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the canvasd server settings.
type Config struct {
	// Listen is the HTTP listen address (host:port).
	Listen string `toml:"listen"`

	// FetchTimeoutSeconds bounds a single image-URL fetch.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`

	// MaxUploadBytes caps the request body size for image uploads.
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// MaxSessions caps the number of live sessions. 0 means unlimited.
	MaxSessions int `toml:"max_sessions"`

	// CacheDir is the directory for the image fetch cache. Empty selects
	// the user cache directory; "off" disables caching.
	CacheDir string `toml:"cache_dir"`

	// CacheTTLMinutes is the image fetch cache time-to-live.
	CacheTTLMinutes int `toml:"cache_ttl_minutes"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		Listen:              ":8080",
		FetchTimeoutSeconds: 5,
		MaxUploadBytes:      32 << 20,
		MaxSessions:         1024,
		CacheTTLMinutes:     60,
	}
}

// Load reads a TOML config file over the defaults. A missing path returns
// the defaults unchanged; a missing file at a non-empty path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// FetchTimeout returns the image fetch deadline as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// CacheTTL returns the image cache time-to-live as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// CacheEnabled reports whether the image fetch cache should be used.
func (c Config) CacheEnabled() bool {
	return c.CacheDir != "off"
}
