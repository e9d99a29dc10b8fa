// Package config loads outbound service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/erazemk/garderoba/internal/bgremove"
	"github.com/erazemk/garderoba/internal/labeler"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GARDEROBA"

// MinHTTPTimeout is the shortest accepted outbound timeout. A bare number
// such as "30" parses as nanoseconds, so durations need a unit suffix.
const MinHTTPTimeout = time.Second

// Config holds settings that come from the environment rather than flags.
type Config struct {
	PhotoRoom      ServiceConfig
	Vision         ServiceConfig
	HTTPTimeout    time.Duration
	MaxUploadBytes int64
}

// ServiceConfig is an external API endpoint and its key.
type ServiceConfig struct {
	URL    string
	APIKey string
}

// Load reads envFile (if it exists) into the process environment and then
// builds the config from GARDEROBA_* variables. Variables already set in the
// environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("photoroom_url", bgremove.DefaultEndpoint)
	v.SetDefault("photoroom_api_key", "")
	v.SetDefault("vision_url", labeler.DefaultEndpoint)
	v.SetDefault("vision_api_key", "")
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("max_upload_bytes", 10<<20)

	cfg := &Config{
		PhotoRoom: ServiceConfig{
			URL:    v.GetString("photoroom_url"),
			APIKey: v.GetString("photoroom_api_key"),
		},
		Vision: ServiceConfig{
			URL:    v.GetString("vision_url"),
			APIKey: v.GetString("vision_api_key"),
		},
		HTTPTimeout:    v.GetDuration("http_timeout"),
		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
	}

	if cfg.HTTPTimeout < MinHTTPTimeout {
		return nil, fmt.Errorf("%s_HTTP_TIMEOUT must be at least %s (use a unit, e.g. 30s), got %s",
			EnvPrefix, MinHTTPTimeout, cfg.HTTPTimeout)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("%s_MAX_UPLOAD_BYTES must be positive", EnvPrefix)
	}

	return cfg, nil
}
