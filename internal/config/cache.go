package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled.  Only GET requests under PathPrefix are cached; any non-GET
// request under the same prefix drops the cached entries of its entity
// group so the next read refetches.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	PathPrefix   string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  Defaults are used when a
// variable is unset.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "eco:cache"),
		PathPrefix:   envStr("CACHE_PATH_PREFIX", "/api/"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	if !strings.HasSuffix(c.PathPrefix, "/") {
		c.PathPrefix += "/"
	}
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	return c
}
