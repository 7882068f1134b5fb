// Package config loads migration configuration from the environment
// and an optional TOML settings file.
//
// Target-store credentials come from environment variables (with a
// .env file loaded first if present). Site-specific policy knobs that
// are artifacts of the legacy theme (the promoted-heading CSS classes,
// the legacy domain) live in the settings file so they are data, not
// code.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Default target-store coordinates. Overridable via environment.
const (
	DefaultProjectID = "q8w3slte"
	DefaultDataset   = "production"
)

// Site holds legacy-site policy settings from the TOML file.
type Site struct {
	// LegacyBaseURL is the legacy site's own domain, used to
	// absolutise bare relative paths and asset filenames.
	LegacyBaseURL string `toml:"legacy_base_url"`

	// TargetBaseURL is the new storefront's domain, used when
	// resolving legacy link shortcodes to absolute URLs.
	TargetBaseURL string `toml:"target_base_url"`

	// PromoteHeadingClasses are the CSS classes that mark a legacy
	// "primary heading", promoted out-of-band instead of emitted as
	// a body block. The first <h1> is always promoted regardless.
	PromoteHeadingClasses []string `toml:"promote_heading_classes"`

	// CacheFile is the JSON asset-cache path.
	CacheFile string `toml:"cache_file"`

	// MaxImageWidth and MaxImageHeight bound image resizing.
	// Images are never upscaled past their native dimensions.
	MaxImageWidth  int `toml:"max_image_width"`
	MaxImageHeight int `toml:"max_image_height"`

	// JPEGQuality is the re-encode quality for transcoded images.
	JPEGQuality int `toml:"jpeg_quality"`

	// DownloadRatePerSec throttles legacy-host downloads.
	DownloadRatePerSec float64 `toml:"download_rate_per_sec"`
}

// Config is the resolved configuration for one run.
type Config struct {
	// ProjectID and Dataset identify the target store.
	ProjectID string
	Dataset   string

	// Token is the write-capable API token. Required for any
	// non-dry-run write; may be empty for dry runs.
	Token string

	Site Site
}

// Load resolves configuration from .env, the environment and the
// optional TOML settings file at settingsPath ("" skips the file).
func Load(settingsPath string) (*Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID: envOr("SANITY_PROJECT_ID", DefaultProjectID),
		Dataset:   envOr("SANITY_DATASET", DefaultDataset),
		Token:     os.Getenv("SANITY_API_TOKEN"),
		Site: Site{
			LegacyBaseURL:      "https://www.hifiworks-legacy.co.nz",
			TargetBaseURL:      "https://www.hifiworks.co.nz",
			CacheFile:          ".migration-asset-cache.json",
			MaxImageWidth:      1600,
			MaxImageHeight:     1600,
			JPEGQuality:        82,
			DownloadRatePerSec: 5,
		},
	}

	if settingsPath != "" {
		data, err := os.ReadFile(settingsPath)
		if err != nil {
			return nil, fmt.Errorf("read settings %s: %w", settingsPath, err)
		}
		if err := toml.Unmarshal(data, &cfg.Site); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", settingsPath, err)
		}
	}

	return cfg, nil
}

// RequireToken returns ErrMissingCredentials when no API token is
// configured. Called before any live write.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("%w: SANITY_API_TOKEN is not set", domain.ErrMissingCredentials)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
