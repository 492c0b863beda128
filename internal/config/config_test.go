package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	t.Setenv("WL_TEST_TMDB_KEY", "abc123")
	path := writeConfig(t, `
[tmdb]
api_key = "${WL_TEST_TMDB_KEY}"
timeout = "5s"
cache_ttl = "30m"

[database]
path = "/tmp/wl.db"

[log]
level = "debug"

[refresh]
interval = "6h"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.TMDB.APIKey)
	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.TMDB.CacheTTL)
	assert.Equal(t, "en", cfg.TMDB.Language)
	assert.Equal(t, "https://api.themoviedb.org", cfg.TMDB.BaseURL)
	assert.Equal(t, "/tmp/wl.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 6*time.Hour, cfg.Refresh.Interval)
	assert.NoError(t, cfg.RequireAPIKey())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, time.Hour, cfg.TMDB.CacheTTL)
	assert.Equal(t, "/data/watchlist/watchlist.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 12*time.Hour, cfg.Refresh.Interval)
	assert.Equal(t, time.Hour, cfg.Refresh.SearchCacheTTL)
	assert.ErrorIs(t, cfg.RequireAPIKey(), ErrNoAPIKey)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "from-env")
	cfg, err := Load(writeConfig(t, "[log]\nlevel = \"info\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
api_key = "${WL_TEST_NONEXISTENT_KEY}"
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"WL_TEST_NONEXISTENT_KEY"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "WL_TEST_NONEXISTENT_KEY")
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
cache_ttl = "-5m"

[log]
level = "verbose"

[refresh]
interval = "-1h"
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errors, 3)
	assert.Contains(t, err.Error(), "tmdb.cache_ttl")
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "refresh.interval")
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[tmdb\napi_key = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_NoFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")
	cfg := Default()
	assert.Equal(t, "k", cfg.TMDB.APIKey)
	assert.Empty(t, cfg.Validate())
}

func TestValidate_BaseURL(t *testing.T) {
	cfg := Default()
	cfg.TMDB.BaseURL = "not a url"
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "tmdb.base_url")
}

func TestWriteDefault_Loads(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	path := filepath.Join(t.TempDir(), "watchlist", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.TMDB.APIKey)

	assert.ErrorIs(t, WriteDefault(path), os.ErrExist, "never overwrites")
}

func TestConfigError(t *testing.T) {
	assert.Empty(t, (&ConfigError{Path: "x.toml"}).Error())

	e := &ConfigError{Path: "x.toml", Missing: []string{"A", "B"}, Errors: []string{"log.level: bad"}}
	assert.True(t, e.HasErrors())
	msg := e.Error()
	assert.Contains(t, msg, "x.toml")
	assert.Contains(t, msg, "missing environment variables: A, B")
	assert.Contains(t, msg, "  - log.level: bad")
}
