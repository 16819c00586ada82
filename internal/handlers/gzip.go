package handlers

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// compressWriter implements gin.ResponseWriter
type compressWriter struct {
	gin.ResponseWriter
	zw *gzip.Writer
}

// Write compresses data before writing to the response
func (c *compressWriter) Write(p []byte) (int, error) {
	c.Header().Del("Content-Length")
	return c.zw.Write(p)
}

// WriteString writes string data with compression
func (c *compressWriter) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

// WriteHeader drops Content-Length set by handlers for the plain body
func (c *compressWriter) WriteHeader(code int) {
	c.Header().Del("Content-Length")
	c.ResponseWriter.WriteHeader(code)
}

// Pool for gzip writers to reuse them
var gzipPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return w
	},
}

// gzipMiddleware compresses responses for clients accepting gzip
func (h *Handlers) gzipMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Accept-Encoding")

		if c.Request.Method == http.MethodHead ||
			!strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gz := gzipPool.Get().(*gzip.Writer)
		defer gzipPool.Put(gz)
		gz.Reset(c.Writer)

		c.Writer = &compressWriter{
			ResponseWriter: c.Writer,
			zw:             gz,
		}
		c.Header("Content-Encoding", "gzip")

		defer func() {
			if err := gz.Close(); err != nil {
				h.zlog.Debug().Msgf("failed to close gzip writer: %v", err)
			}
		}()

		c.Next()
	}
}
