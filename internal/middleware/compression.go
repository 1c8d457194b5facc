package middleware

import (
	"compress/gzip"

	ginzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// DefaultGzipLevel is the level used when none is configured.
const DefaultGzipLevel = gzip.DefaultCompression

// uncompressedPaths are scraped or probed by machines that gain nothing from gzip.
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression gzips responses for clients that accept it at the given
// compress/gzip level. Level 0 disables compression; levels outside the
// gzip range fall back to DefaultGzipLevel.
func Compression(level int) gin.HandlerFunc {
	if level == gzip.NoCompression {
		return func(c *gin.Context) { c.Next() }
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = DefaultGzipLevel
	}
	return ginzip.Gzip(level, ginzip.WithExcludedPaths(uncompressedPaths))
}
