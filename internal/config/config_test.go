package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	envSecretKey, envDebug, envAllowedHosts,
	"RUN_ADDRESS", "DATABASE_URI", "LOG_LEVEL", "TOKEN_FLUSH_INTERVAL",
}

// clearEnv unsets variables read by the config for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSecretKey, cfg.AuthConf.SecretKey)
	assert.False(t, cfg.ServerConf.Debug, "debug must be off when DJANGO_DEBUG is unset")
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.ServerConf.AllowedHosts)
	assert.Equal(t, []string{
		"security", "cors", "sessions", "common", "csrf", "authentication", "messages", "clickjacking",
	}, cfg.ServerConf.Middleware)
	assert.Equal(t, []string{
		"admin", "auth", "contenttypes", "sessions", "messages", "staticfiles",
		"rest_framework", "rest_framework_simplejwt", "rest_framework_simplejwt.token_blacklist",
		"corsheaders", "users", "tutorials",
	}, cfg.Apps)
	assert.Equal(t, []string{"http://localhost:3000", "https://yourdomain.com"}, cfg.ServerConf.CORS.AllowedOrigins)
	assert.Equal(t, "users.CustomUser", cfg.AuthConf.UserModel)
	assert.Equal(t, []string{"jwt"}, cfg.ServerConf.REST.AuthenticationClasses)
	assert.Equal(t, []string{"is_authenticated"}, cfg.ServerConf.REST.PermissionClasses)
	assert.Equal(t, "memory", cfg.storageKind())
	assert.Equal(t, zerolog.InfoLevel, cfg.LogConf.Level)
}

func TestNewConfig_TokenPolicy(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	p := cfg.AuthConf.Token
	assert.Equal(t, 60*time.Minute, p.AccessTokenLifetime)
	assert.Equal(t, 24*time.Hour, p.RefreshTokenLifetime)
	assert.LessOrEqual(t, p.AccessTokenLifetime, p.RefreshTokenLifetime)
	assert.True(t, p.RotateRefreshTokens)
	assert.True(t, p.BlacklistAfterRotation)
	assert.Equal(t, "HS256", p.Algorithm)
	assert.Equal(t, cfg.AuthConf.SecretKey, p.SigningKey)
	assert.Empty(t, p.VerifyingKey)
	assert.Equal(t, p.SigningKey, p.Key())
	assert.Equal(t, []string{"Bearer"}, p.AuthHeaderTypes)
}

func TestNewConfig_SecurityFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	s := cfg.ServerConf.Security
	assert.True(t, s.SSLRedirect)
	assert.True(t, s.SessionCookieSecure)
	assert.True(t, s.CSRFCookieSecure)
	assert.True(t, s.BrowserXSSFilter)
	assert.True(t, s.ContentTypeNosniff)
	assert.Equal(t, "DENY", s.XFrameOptions)
}

func TestNewConfig_PasswordValidators(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	v := cfg.AuthConf.PasswordValidators
	require.Len(t, v, 4)
	assert.Equal(t, "user_attribute_similarity", v[0].Name)
	assert.Equal(t, "minimum_length", v[1].Name)
	assert.Equal(t, 12, v[1].Options["min_length"])
	assert.Equal(t, "common_password", v[2].Name)
	assert.Equal(t, "numeric_password", v[3].Name)
}

func TestNewConfig_Debug(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"True", true},
		{"true", false},
		{"1", false},
		{"yes", false},
		{"False", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(envDebug, tt.value)

			cfg, err := NewConfig(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ServerConf.Debug)
		})
	}
}

func TestNewConfig_AllowedHosts(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"two hosts", "a.com,b.com", []string{"a.com", "b.com"}},
		{"spaces and empties", " a.com , ,b.com,", []string{"a.com", "b.com"}},
		{"duplicates", "a.com,a.com", []string{"a.com"}},
		{"subdomain pattern", ".example.com", []string{".example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(envAllowedHosts, tt.value)

			cfg, err := NewConfig(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ServerConf.AllowedHosts)
		})
	}
}

func TestNewConfig_EmptyAllowedHosts(t *testing.T) {
	clearEnv(t)
	t.Setenv(envAllowedHosts, "")

	_, err := NewConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed hosts")

	t.Setenv(envDebug, "True")
	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerConf.AllowedHosts)
}

func TestNewConfig_SecretKey(t *testing.T) {
	clearEnv(t)
	t.Setenv(envSecretKey, "s3cr3t")

	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.AuthConf.SecretKey)
	assert.Equal(t, "s3cr3t", cfg.AuthConf.Token.SigningKey)
}

func TestNewConfig_FlagsAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig([]string{"-a", "0.0.0.0:9000", "-l", "warn", "-f", "10m", "--print-settings"})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.ServerConf.ServerAddr)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogConf.Level)
	assert.Equal(t, 10*time.Minute, cfg.FlushConf.Interval)
	assert.True(t, cfg.PrintSettings)

	t.Setenv("RUN_ADDRESS", "127.0.0.1:7000")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_URI", "postgres://u:p@localhost:5432/db")

	cfg, err = NewConfig([]string{"-a", "0.0.0.0:9000", "-l", "warn"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.ServerConf.ServerAddr, "environment overrides flags")
	assert.Equal(t, zerolog.ErrorLevel, cfg.LogConf.Level)
	assert.Equal(t, "postgresql", cfg.storageKind())
}

func TestNewConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown flag", []string{"--nope"}, nil},
		{"bad log level", nil, map[string]string{"LOG_LEVEL": "loud"}},
		{"bad flush interval", nil, map[string]string{"TOKEN_FLUSH_INTERVAL": "soon"}},
		{"zero flush interval", []string{"-f", "0s"}, nil},
		{"bad address", []string{"-a", "nowhere"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := NewConfig(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestValidate_Constraints(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"access longer than refresh", func(c *Config) { c.AuthConf.Token.AccessTokenLifetime = 48 * time.Hour }},
		{"unsupported algorithm", func(c *Config) { c.AuthConf.Token.Algorithm = "RS256" }},
		{"bad frame option", func(c *Config) { c.ServerConf.Security.XFrameOptions = "ALLOW" }},
		{"no header types", func(c *Config) { c.AuthConf.Token.AuthHeaderTypes = nil }},
		{"empty middleware", func(c *Config) { c.ServerConf.Middleware = nil }},
		{"repeated middleware", func(c *Config) { c.ServerConf.Middleware = append(c.ServerConf.Middleware, "csrf") }},
		{"cors without app", func(c *Config) { c.Apps = c.Apps[:9] }},
		{"unknown validator", func(c *Config) { c.AuthConf.PasswordValidators[0].Name = "entropy" }},
		{"bad origin", func(c *Config) { c.ServerConf.CORS.AllowedOrigins = []string{"not an origin"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(nil)
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCheck(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"security.W001"}, warningIDs(cfg.Check()))

	t.Setenv(envSecretKey, "short-but-custom")
	t.Setenv(envDebug, "True")
	t.Setenv(envAllowedHosts, "*")
	cfg, err = NewConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"security.W002", "security.W003", "security.W004", "security.W005"}, warningIDs(cfg.Check()))

	t.Setenv(envSecretKey, "k4Jq9-zP2mN7xR1vT8wY3bC6dF0gH5jL_aS2eU4iO7pQ9rT1yW")
	t.Setenv(envDebug, "False")
	t.Setenv(envAllowedHosts, "tutorials.example.com")
	cfg, err = NewConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Check())
}

func warningIDs(warns []Warning) []string {
	ids := make([]string, 0, len(warns))
	for _, w := range warns {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestYAML_RedactsSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv(envSecretKey, "do-not-print-me")

	cfg, err := NewConfig(nil)
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "do-not-print-me")
	assert.Contains(t, s, "secret_key: "+redacted)
	assert.Contains(t, s, "access_token_lifetime: 1h0m0s")
	assert.Contains(t, s, "- clickjacking")
	assert.Contains(t, s, "min_length: 12")
	assert.Contains(t, s, "auth_user_model: users.CustomUser")
}
