package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"Example.COM:8000", "example.com"},
		{"example.com.", "example.com"},
		{"[::1]:8000", "[::1]"},
		{"[::1]", "[::1]"},
		{"[::1", ""},
		{"a:b:c", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitDomain(tt.in))
		})
	}
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		host     string
		patterns []string
		want     bool
	}{
		{"example.com", []string{"example.com"}, true},
		{"www.example.com", []string{"example.com"}, false},
		{"www.example.com", []string{".example.com"}, true},
		{"example.com", []string{".example.com"}, true},
		{"badexample.com", []string{".example.com"}, false},
		{"anything.test", []string{"*"}, true},
		{"example.com", []string{"EXAMPLE.com"}, true},
		{"example.com", nil, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s in %v", tt.host, tt.patterns), func(t *testing.T) {
			assert.Equal(t, tt.want, validateHost(tt.host, tt.patterns))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.ErrUserAlreadyExists, http.StatusConflict},
		{apperrors.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", apperrors.ErrInvalidUserType), http.StatusBadRequest},
		{fmt.Errorf("%w: x", apperrors.ErrTokenBlacklisted), http.StatusUnauthorized},
		{apperrors.ErrBlacklistNotInstalled, http.StatusNotImplemented},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestBuildChain(t *testing.T) {
	h := NewHandlers(testServerConf(), []byte(testKey), nil, nil, zerolog.Nop())

	chain, err := h.BuildChain(testServerConf().Middleware)
	require.NoError(t, err)
	assert.Len(t, chain, 8)

	_, err = h.BuildChain([]string{"security", "throttle"})
	assert.Error(t, err)
}

func TestClickjacking_HandlerOverride(t *testing.T) {
	h := NewHandlers(testServerConf(), []byte(testKey), nil, nil, zerolog.Nop())

	router := gin.New()
	router.Use(h.clickjackingMiddleware())
	router.GET("/embed", func(c *gin.Context) {
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Status(http.StatusNoContent)
	})
	router.GET("/plain", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/embed", nil))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
