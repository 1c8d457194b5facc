package client

import (
	"strings"

	"github.com/guttosm/famroot-client/internal/cache"
)

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.log.Info().Msg("Cache cleared")
}

// ClearCachePartition drops one partition and returns how many entries it held.
func (c *Client) ClearCachePartition(name string) int {
	return c.cache.ClearPartition(name)
}

// CleanupCache drops expired entries and returns how many were removed.
func (c *Client) CleanupCache() int {
	return c.cache.Cleanup()
}

// CacheStats returns aggregate and per-partition cache statistics.
func (c *Client) CacheStats() cache.PoolStats {
	return c.cache.Stats()
}

// CacheKeys returns the cached keys, most recently used first within each partition.
func (c *Client) CacheKeys() []string {
	return c.cache.Keys()
}

// InvalidateURL drops every cached response for the given URLs, whatever the
// method, params or body. Query strings are ignored on both sides.
func (c *Client) InvalidateURL(urls ...string) int {
	if len(urls) == 0 {
		return 0
	}
	targets := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		targets[strings.TrimRight(urlPath(u), "/")] = struct{}{}
	}

	n := c.cache.DeleteFunc(func(_ string, v cachedResponse) bool {
		return urlMatches(v.URL, targets)
	})
	if n > 0 {
		c.log.Debug().Strs("urls", urls).Int("removed", n).Msg("Cache entries invalidated")
	}
	return n
}
