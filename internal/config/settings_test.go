package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// chdir moves into dir for the duration of the test so godotenv sees only
// the test's .env file.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadSettings_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)
}

func TestLoadSettings_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "navcalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://localhost:9999\n"+
			"request_timeout: 5s\n"+
			"cache_driver: sqlite\n"+
			"cache_path: /tmp/nav.db\n"+
			"search_limit: 20\n"), 0o644))

	t.Setenv("NAVCALC_SEARCH_LIMIT", "50")
	t.Setenv("NAVCALC_LOG_LEVEL", "debug")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", s.BaseURL)
	assert.Equal(t, 5*time.Second, s.RequestTimeout)
	assert.Equal(t, CacheSQLite, s.CacheDriver)
	assert.Equal(t, 50, s.SearchLimit)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NAVCALC_OTLP_ENDPOINT=collector:4318\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("NAVCALC_OTLP_ENDPOINT") })

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", s.OTLPEndpoint)
}

func TestLoadSettings_InvalidEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NAVCALC_REQUEST_TIMEOUT", "soon")
	_, err := LoadSettings("")
	assert.ErrorContains(t, err, "NAVCALC_REQUEST_TIMEOUT")
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"bad url", func(s *Settings) { s.BaseURL = "ftp://example" }},
		{"zero timeout", func(s *Settings) { s.RequestTimeout = 0 }},
		{"unknown driver", func(s *Settings) { s.CacheDriver = "redis" }},
		{"sqlite without path", func(s *Settings) { s.CacheDriver = CacheSQLite; s.CachePath = "" }},
		{"bad level", func(s *Settings) { s.LogLevel = "trace" }},
		{"zero limit", func(s *Settings) { s.SearchLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
}
