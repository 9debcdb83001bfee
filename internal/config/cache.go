package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is disabled.
// Methods lists the HTTP methods to cache (e.g. GET, HEAD). TTL defines the
// lifetime of cache entries. KeyStrategy determines which parts of the request
// contribute to the cache key. Prefix and MaxBodyBytes control namespacing
// and the maximum size of responses to cache.
type CacheConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Methods      []string      `mapstructure:"methods"`
	TTL          time.Duration `mapstructure:"ttl"`
	KeyStrategy  string        `mapstructure:"key_strategy"`
	Prefix       string        `mapstructure:"prefix"`
	MaxBodyBytes int           `mapstructure:"max_body_bytes"`
}

// Cacheable reports whether responses to method may be cached. Only safe
// methods qualify, whatever the configuration says.
func (c CacheConfig) Cacheable(method string) bool {
	method = strings.ToUpper(method)
	if method != "GET" && method != "HEAD" {
		return false
	}
	for _, m := range c.Methods {
		if m == method {
			return true
		}
	}
	return false
}

func (c *CacheConfig) normalize() {
	methods := c.Methods[:0]
	for _, m := range c.Methods {
		m = strings.TrimSpace(strings.ToUpper(m))
		if m != "" {
			methods = append(methods, m)
		}
	}
	c.Methods = methods
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.Prefix == "" {
		c.Prefix = "cache"
	}
}
