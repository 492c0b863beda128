package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid). A missing API key is
// not an error here; commands that need the catalog call RequireAPIKey.
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb: must not be negative, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups: must not be negative, got %d", c.Log.MaxBackups))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}

	if u, err := url.Parse(c.TMDB.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: must be an absolute URL, got %q", c.TMDB.BaseURL))
	}
	if c.TMDB.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.timeout: must not be negative, got %s", c.TMDB.Timeout))
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.cache_ttl: must not be negative, got %s", c.TMDB.CacheTTL))
	}

	if c.Refresh.Interval < 0 {
		errs = append(errs, fmt.Sprintf("refresh.interval: must not be negative, got %s", c.Refresh.Interval))
	}
	if c.Refresh.SearchCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("refresh.search_cache_ttl: must not be negative, got %s", c.Refresh.SearchCacheTTL))
	}

	return errs
}
