package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// Settings configures the CLI: where NAV data comes from, how it is cached,
// logging and tracing.
type Settings struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheDriver    string        `yaml:"cache_driver"`
	CachePath      string        `yaml:"cache_path"`
	LogLevel       string        `yaml:"log_level"`
	SearchLimit    int           `yaml:"search_limit"`
	OTLPEndpoint   string        `yaml:"otlp_endpoint"`
	ServiceName    string        `yaml:"service_name"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:        "https://api.mfapi.in",
		RequestTimeout: 30 * time.Second,
		CacheDriver:    CacheMemory,
		CachePath:      "navcalc-cache.db",
		LogLevel:       "info",
		SearchLimit:    100,
		ServiceName:    "navcalc",
	}
}

// LoadSettings builds settings from defaults, then the YAML file at path (if
// path is non-empty), then NAVCALC_* environment variables. A .env file in
// the working directory is loaded first when present.
func LoadSettings(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	s := DefaultSettings()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
		}
	}

	if err := s.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("NAVCALC_BASE_URL", &s.BaseURL)
	str("NAVCALC_CACHE_DRIVER", &s.CacheDriver)
	str("NAVCALC_CACHE_PATH", &s.CachePath)
	str("NAVCALC_LOG_LEVEL", &s.LogLevel)
	str("NAVCALC_OTLP_ENDPOINT", &s.OTLPEndpoint)
	str("NAVCALC_SERVICE_NAME", &s.ServiceName)

	if v, ok := lookup("NAVCALC_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid NAVCALC_REQUEST_TIMEOUT %q: %w", v, err)
		}
		s.RequestTimeout = d
	}
	if v, ok := lookup("NAVCALC_SEARCH_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid NAVCALC_SEARCH_LIMIT %q: %w", v, err)
		}
		s.SearchLimit = n
	}
	return nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", s.BaseURL)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	switch s.CacheDriver {
	case CacheMemory:
	case CacheSQLite:
		if s.CachePath == "" {
			return fmt.Errorf("cache_path is required for the sqlite cache")
		}
	default:
		return fmt.Errorf("cache_driver must be %s or %s, got %q", CacheMemory, CacheSQLite, s.CacheDriver)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", s.LogLevel)
	}
	if s.SearchLimit <= 0 {
		return fmt.Errorf("search_limit must be positive")
	}
	return nil
}
