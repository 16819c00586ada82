package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/apps"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "sessionid"
	sessionMaxAge     = 1209600
	corsMaxAge        = 86400 * time.Second
)

var (
	corsAllowHeaders = []string{
		"accept", "accept-encoding", "authorization", "content-type",
		"dnt", "origin", "user-agent", "x-csrftoken", "x-requested-with",
	}
	corsAllowMethods = []string{
		http.MethodDelete, http.MethodGet, http.MethodOptions,
		http.MethodPatch, http.MethodPost, http.MethodPut,
	}
	// debugHosts are accepted when debug is on and no hosts are configured
	debugHosts = []string{".localhost", "127.0.0.1", "[::1]"}
)

// BuildChain maps middleware names to handlers keeping their order
func (h *Handlers) BuildChain(names []string) ([]gin.HandlerFunc, error) {
	chain := make([]gin.HandlerFunc, 0, len(names))
	for _, name := range names {
		var mw gin.HandlerFunc
		switch name {
		case apps.MiddlewareSecurity:
			mw = h.securityMiddleware()
		case apps.MiddlewareCORS:
			mw = h.corsMiddleware()
		case apps.MiddlewareSessions:
			mw = h.sessionsMiddleware()
		case apps.MiddlewareCommon:
			mw = h.commonMiddleware()
		case apps.MiddlewareCSRF:
			mw = h.csrfMiddleware()
		case apps.MiddlewareAuthentication:
			mw = h.authenticationMiddleware()
		case apps.MiddlewareMessages:
			mw = h.messagesMiddleware()
		case apps.MiddlewareClickjacking:
			mw = h.clickjackingMiddleware()
		case apps.MiddlewareGzip:
			mw = h.gzipMiddleware()
		default:
			return nil, fmt.Errorf("unknown middleware %q", name)
		}
		chain = append(chain, mw)
	}
	return chain, nil
}

// requestLogger writes one line per request with zerolog
func (h *Handlers) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.zlog.Info().
			Str("method", c.Request.Method).
			Str("uri", c.Request.RequestURI).
			Int("status", c.Writer.Status()).
			Int("size", c.Writer.Size()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (h *Handlers) securityMiddleware() gin.HandlerFunc {
	s := h.cfg.Security
	return secure.New(secure.Config{
		SSLRedirect:        s.SSLRedirect,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		ContentTypeNosniff: s.ContentTypeNosniff,
		BrowserXssFilter:   s.BrowserXSSFilter,
	})
}

func (h *Handlers) corsMiddleware() gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:     corsAllowMethods,
		AllowHeaders:     corsAllowHeaders,
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	}
	if len(h.cfg.CORS.AllowedOrigins) > 0 {
		conf.AllowOrigins = h.cfg.CORS.AllowedOrigins
	} else {
		conf.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(conf)
}

func (h *Handlers) sessionsMiddleware() gin.HandlerFunc {
	store := cookie.NewStore(h.sessionKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   h.cfg.Security.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionCookieName, store)
}

// commonMiddleware rejects requests whose Host is not allowed
func (h *Handlers) commonMiddleware() gin.HandlerFunc {
	allowed := h.cfg.AllowedHosts
	if h.cfg.Debug && len(allowed) == 0 {
		allowed = debugHosts
	}
	return func(c *gin.Context) {
		host := splitDomain(c.Request.Host)
		if host == "" || !validateHost(host, allowed) {
			h.zlog.Warn().Msgf("invalid HTTP_HOST header: %q", c.Request.Host)
			h.errorJSON(c, http.StatusBadRequest, "bad request", fmt.Errorf("%w: %q", apperrors.ErrDisallowedHost, c.Request.Host))
			return
		}
		c.Next()
	}
}

// clickjackingMiddleware sets X-Frame-Options unless a handler already did
func (h *Handlers) clickjackingMiddleware() gin.HandlerFunc {
	value := h.cfg.Security.XFrameOptions
	return func(c *gin.Context) {
		if c.Writer.Header().Get("X-Frame-Options") == "" {
			c.Header("X-Frame-Options", value)
		}
		c.Next()
	}
}

// splitDomain lowercases host and strips port and trailing dot
func splitDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "[") {
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return ""
		}
		return host[:end+1]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if strings.Count(host, ":") > 0 {
		return ""
	}
	return strings.TrimSuffix(host, ".")
}

// validateHost matches host against patterns. "*" matches anything, a
// pattern with leading dot matches the domain and its subdomains.
func validateHost(host string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.ToLower(p)
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
		case host == p:
			return true
		}
	}
	return false
}
