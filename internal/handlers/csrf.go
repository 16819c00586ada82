package handlers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
	csrfFormField  = "csrfmiddlewaretoken"
	csrfCookieAge  = 31449600
	csrfContextKey = "csrf_token"
	csrfFailureKey = "csrf_failure"
)

type ginContextKey struct{}

// csrfMiddleware runs gorilla/csrf inside the gin chain. Failures are only
// recorded here and rejected by csrfCheck, so the rest of the chain still
// decorates the 403 response.
func (h *Handlers) csrfMiddleware() gin.HandlerFunc {
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		c.Request = r
		if reason := csrf.FailureReason(r); reason != nil {
			c.Set(csrfFailureKey, reason)
		}
		c.Set(csrfContextKey, csrf.Token(r))
		c.Next()
	})

	protect := csrf.Protect(csrfAuthKey(h.sessionKey),
		csrf.CookieName(csrfCookieName),
		csrf.RequestHeader(csrfHeaderName),
		csrf.FieldName(csrfFormField),
		csrf.MaxAge(csrfCookieAge),
		csrf.Path("/"),
		csrf.Secure(h.cfg.Security.CSRFCookieSecure),
		csrf.HttpOnly(false),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(next),
	)(next)

	return func(c *gin.Context) {
		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		if !requestIsSecure(r) {
			r = csrf.PlaintextHTTPRequest(r)
		}
		if h.csrfExempted(r.URL.Path) {
			r = csrf.UnsafeSkipCheck(r)
		}
		protect.ServeHTTP(c.Writer, r)
	}
}

// csrfCheck rejects requests that failed csrf verification. It runs after
// the whole middleware chain.
func (h *Handlers) csrfCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(csrfFailureKey); ok {
			h.errorJSON(c, http.StatusForbidden, "CSRF verification failed", fmt.Errorf("%w: %v", apperrors.ErrCSRFFailed, v))
			return
		}
		c.Next()
	}
}

func (h *Handlers) csrfExempted(path string) bool {
	for _, prefix := range h.csrfExempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// csrfToken returns the masked token for the request, empty when csrf
// middleware is not in chain
func csrfToken(c *gin.Context) string {
	return c.GetString(csrfContextKey)
}

// csrfAuthKey derives the cookie signing key from the secret key
func csrfAuthKey(secret []byte) []byte {
	sum := sha256.Sum256(append([]byte("csrf:"), secret...))
	return sum[:]
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
