// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	TMDB     TMDBConfig     `toml:"tmdb"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Refresh  RefreshConfig  `toml:"refresh"`
}

type TMDBConfig struct {
	APIKey   string        `toml:"api_key"`
	Language string        `toml:"language"`
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`
	// CacheTTL is how long fetched movie details are reused in memory.
	CacheTTL time.Duration `toml:"cache_ttl"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"` // empty = stderr only
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type RefreshConfig struct {
	// Interval is how old a series' episode data may get before it is
	// refreshed again.
	Interval       time.Duration `toml:"interval"`
	SearchCacheTTL time.Duration `toml:"search_cache_ttl"`
}

// ErrNoAPIKey is returned by RequireAPIKey when no TMDB key is configured.
var ErrNoAPIKey = errors.New("tmdb.api_key is not set (set TMDB_API_KEY or add it to the config file)")

// Default returns the configuration used when no file exists.
// The TMDB key is taken from TMDB_API_KEY.
func Default() *Config {
	cfg := &Config{}
	cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	cfg.applyDefaults()
	return cfg
}

// Load reads, substitutes, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and
// applies defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TMDB.Language == "" {
		c.TMDB.Language = "en"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10 * time.Second
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = time.Hour
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath()
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Refresh.Interval == 0 {
		c.Refresh.Interval = 12 * time.Hour
	}
	if c.Refresh.SearchCacheTTL == 0 {
		c.Refresh.SearchCacheTTL = time.Hour
	}
}

// RequireAPIKey reports ErrNoAPIKey when catalog access is not configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return ErrNoAPIKey
	}
	return nil
}

// DefaultDatabasePath returns $XDG_DATA_HOME/watchlist/watchlist.db.
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./watchlist.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "watchlist", "watchlist.db")
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references. Unresolvable references
// are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	})
	return out, missing
}
