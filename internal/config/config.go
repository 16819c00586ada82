package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apps"
	authconf "github.com/ar4ie13/tutorialplatform/internal/auth/config"
	flushconf "github.com/ar4ie13/tutorialplatform/internal/flusher/config"
	serverconf "github.com/ar4ie13/tutorialplatform/internal/handlers/config"
	logconf "github.com/ar4ie13/tutorialplatform/internal/logger/config"
	"github.com/ar4ie13/tutorialplatform/internal/passwords"
	passconf "github.com/ar4ie13/tutorialplatform/internal/passwords/config"
	pgconf "github.com/ar4ie13/tutorialplatform/internal/repository/db/postgresql/config"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// DefaultSecretKey is used when DJANGO_SECRET_KEY is not set. It is public, so
// Check reports it.
const DefaultSecretKey = "your-very-secret-key-here"

const (
	envSecretKey    = "DJANGO_SECRET_KEY"
	envDebug        = "DJANGO_DEBUG"
	envAllowedHosts = "DJANGO_ALLOWED_HOSTS"

	defaultAllowedHosts = "localhost,127.0.0.1"
)

// Config is a main configuration object
type Config struct {
	Apps       []string
	AuthConf   authconf.Config
	ServerConf serverconf.ServerConf
	PGConf     pgconf.PGConf
	FlushConf  flushconf.FlushConf
	LogConf    logconf.LogLevel

	// PrintSettings asks the binary to dump settings and exit.
	PrintSettings bool
}

// NewConfig creates new Config configuration object from command line
// arguments (without program name) and the process environment
func NewConfig(args []string) (*Config, error) {
	c := &Config{}
	if err := c.GetConfig(args); err != nil {
		return nil, err
	}

	return c, nil
}

// GetConfig applies defaults, flags and environment variables in this order
// and validates the result
func (c *Config) GetConfig(args []string) error {
	c.setDefaults()

	fs := pflag.NewFlagSet("tutorialplatform", pflag.ContinueOnError)
	fs.StringVarP(&c.ServerConf.ServerAddr, "address", "a", c.ServerConf.ServerAddr, "server startup address (host:port)")
	fs.StringVarP(&c.PGConf.DatabaseDSN, "database", "d", c.PGConf.DatabaseDSN, "database connection string, in-memory storage when empty")
	fs.VarP(&c.LogConf, "log-level", "l", "log level (debug, info, warn, error, fatal)")
	fs.DurationVarP(&c.FlushConf.Interval, "flush-interval", "f", c.FlushConf.Interval, "expired token flush interval")
	fs.BoolVar(&c.PrintSettings, "print-settings", false, "print effective settings as YAML and exit")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return err
	}

	return c.Validate()
}

func (c *Config) setDefaults() {
	c.Apps = []string{
		apps.Admin,
		apps.Auth,
		apps.ContentTypes,
		apps.Sessions,
		apps.Messages,
		apps.StaticFiles,
		apps.REST,
		apps.JWT,
		apps.TokenBlacklist,
		apps.CORSHeaders,
		apps.Users,
		apps.Tutorials,
	}

	c.ServerConf = serverconf.ServerConf{
		ServerAddr:   "localhost:8080",
		Debug:        false,
		AllowedHosts: SplitHosts(defaultAllowedHosts),
		Middleware: []string{
			apps.MiddlewareSecurity,
			apps.MiddlewareCORS,
			apps.MiddlewareSessions,
			apps.MiddlewareCommon,
			apps.MiddlewareCSRF,
			apps.MiddlewareAuthentication,
			apps.MiddlewareMessages,
			apps.MiddlewareClickjacking,
		},
		Security: serverconf.SecurityConf{
			SSLRedirect:         true,
			SessionCookieSecure: true,
			CSRFCookieSecure:    true,
			BrowserXSSFilter:    true,
			XFrameOptions:       "DENY",
			ContentTypeNosniff:  true,
		},
		CORS: serverconf.CORSConf{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"https://yourdomain.com",
			},
		},
		REST: serverconf.RESTConf{
			AuthenticationClasses: []string{"jwt"},
			PermissionClasses:     []string{"is_authenticated"},
		},
	}

	c.AuthConf = authconf.Config{
		SecretKey: DefaultSecretKey,
		Token: authconf.TokenPolicy{
			AccessTokenLifetime:    60 * time.Minute,
			RefreshTokenLifetime:   24 * time.Hour,
			RotateRefreshTokens:    true,
			BlacklistAfterRotation: true,
			Algorithm:              "HS256",
			SigningKey:             DefaultSecretKey,
			VerifyingKey:           "",
			AuthHeaderTypes:        []string{"Bearer"},
		},
		PasswordValidators: []passconf.ValidatorConf{
			{Name: passwords.UserAttributeSimilarity},
			{Name: passwords.MinimumLength, Options: map[string]any{"min_length": 12}},
			{Name: passwords.CommonPassword},
			{Name: passwords.NumericPassword},
		},
		UserModel:  "users.CustomUser",
		BcryptCost: 12,
	}

	c.PGConf = pgconf.PGConf{}
	c.FlushConf = flushconf.FlushConf{Interval: time.Hour}
	c.LogConf = logconf.LogLevel{Level: zerolog.InfoLevel}
}

func (c *Config) applyEnv() error {
	if secretKey := os.Getenv(envSecretKey); secretKey != "" {
		c.AuthConf.SecretKey = secretKey
		c.AuthConf.Token.SigningKey = secretKey
	}

	c.ServerConf.Debug = os.Getenv(envDebug) == "True"

	if hosts, ok := os.LookupEnv(envAllowedHosts); ok {
		c.ServerConf.AllowedHosts = SplitHosts(hosts)
	}

	if serverAddr := os.Getenv("RUN_ADDRESS"); serverAddr != "" {
		c.ServerConf.ServerAddr = serverAddr
	}

	if databaseDSN := os.Getenv("DATABASE_URI"); databaseDSN != "" {
		c.PGConf.DatabaseDSN = databaseDSN
	}

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		if err := c.LogConf.Set(logLevelStr); err != nil {
			return fmt.Errorf("failed to set log level from LOG_LEVEL: %w", err)
		}
	}

	if flushStr := os.Getenv("TOKEN_FLUSH_INTERVAL"); flushStr != "" {
		interval, err := time.ParseDuration(flushStr)
		if err != nil {
			return fmt.Errorf("cannot parse TOKEN_FLUSH_INTERVAL: %w", err)
		}
		c.FlushConf.Interval = interval
	}

	return nil
}

// Validate checks structural constraints of the configuration
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	for _, part := range []any{c.ServerConf, c.AuthConf, c.FlushConf} {
		if err := v.Struct(part); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if len(c.ServerConf.AllowedHosts) == 0 && !c.ServerConf.Debug {
		return errors.New("invalid configuration: allowed hosts must not be empty when debug is off")
	}

	registry, err := apps.New(c.Apps)
	if err != nil {
		return fmt.Errorf("invalid installed components: %w", err)
	}
	if err = registry.Validate(c.ServerConf.Middleware); err != nil {
		return fmt.Errorf("invalid middleware chain: %w", err)
	}

	if _, err = passwords.NewChain(c.AuthConf.PasswordValidators); err != nil {
		return fmt.Errorf("invalid password validators: %w", err)
	}

	return nil
}

// SplitHosts splits comma separated host list, trimming spaces and dropping
// empty and repeated items while keeping order
func SplitHosts(s string) []string {
	hosts := make([]string, 0)
	seen := make(map[string]struct{})
	for _, h := range strings.Split(s, ",") {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}
	return hosts
}
