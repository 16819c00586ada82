package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultApps = []string{
	Admin, Auth, ContentTypes, Sessions, Messages, StaticFiles,
	REST, JWT, TokenBlacklist, CORSHeaders, Users, Tutorials,
}

var defaultChain = []string{
	MiddlewareSecurity, MiddlewareCORS, MiddlewareSessions, MiddlewareCommon,
	MiddlewareCSRF, MiddlewareAuthentication, MiddlewareMessages, MiddlewareClickjacking,
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		apps    []string
		wantErr string
	}{
		{"defaults", defaultApps, ""},
		{"unknown", []string{"payments"}, "unknown installed component"},
		{"duplicate", []string{REST, REST}, "installed twice"},
		{"blacklist without jwt", []string{REST, TokenBlacklist}, `requires "rest_framework_simplejwt"`},
		{"admin without sessions", []string{Admin, Auth, ContentTypes, Messages}, `requires "sessions"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.apps)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.apps, r.Names())
		})
	}
}

func TestRegistry_NamesIsCopy(t *testing.T) {
	r, err := New(defaultApps)
	require.NoError(t, err)

	names := r.Names()
	names[0] = "changed"

	assert.Equal(t, Admin, r.Names()[0])
	assert.True(t, r.Installed(TokenBlacklist))
	assert.False(t, r.Installed("changed"))
}

func TestRegistry_Validate(t *testing.T) {
	full, err := New(defaultApps)
	require.NoError(t, err)

	t.Run("default chain", func(t *testing.T) {
		assert.NoError(t, full.Validate(defaultChain))
	})

	t.Run("authentication before sessions", func(t *testing.T) {
		err := full.Validate([]string{MiddlewareAuthentication, MiddlewareSessions})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"authentication" must be placed after "sessions"`)
	})

	t.Run("messages without sessions middleware", func(t *testing.T) {
		err := full.Validate([]string{MiddlewareMessages})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"messages" must be placed after "sessions"`)
	})

	t.Run("unknown middleware", func(t *testing.T) {
		err := full.Validate([]string{"security", "throttle"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown middleware "throttle"`)
	})

	t.Run("cors without corsheaders", func(t *testing.T) {
		r, err := New([]string{REST})
		require.NoError(t, err)

		err = r.Validate([]string{MiddlewareCORS})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `requires component "corsheaders"`)
	})
}
