package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

const redacted = "REDACTED"

type settingsView struct {
	SecretKey     string            `yaml:"secret_key"`
	Debug         bool              `yaml:"debug"`
	AllowedHosts  []string          `yaml:"allowed_hosts"`
	InstalledApps []string          `yaml:"installed_apps"`
	Middleware    []string          `yaml:"middleware"`
	REST          restView          `yaml:"rest_framework"`
	Token         tokenView         `yaml:"simple_jwt"`
	Security      securityView      `yaml:"security"`
	CORS          []string          `yaml:"cors_allowed_origins"`
	Validators    []map[string]any  `yaml:"auth_password_validators"`
	UserModel     string            `yaml:"auth_user_model"`
	Runtime       map[string]string `yaml:"runtime"`
}

type restView struct {
	AuthenticationClasses []string `yaml:"default_authentication_classes"`
	PermissionClasses     []string `yaml:"default_permission_classes"`
}

type tokenView struct {
	AccessTokenLifetime    string   `yaml:"access_token_lifetime"`
	RefreshTokenLifetime   string   `yaml:"refresh_token_lifetime"`
	RotateRefreshTokens    bool     `yaml:"rotate_refresh_tokens"`
	BlacklistAfterRotation bool     `yaml:"blacklist_after_rotation"`
	Algorithm              string   `yaml:"algorithm"`
	SigningKey             string   `yaml:"signing_key"`
	VerifyingKey           *string  `yaml:"verifying_key"`
	AuthHeaderTypes        []string `yaml:"auth_header_types"`
}

type securityView struct {
	SSLRedirect         bool   `yaml:"secure_ssl_redirect"`
	SessionCookieSecure bool   `yaml:"session_cookie_secure"`
	CSRFCookieSecure    bool   `yaml:"csrf_cookie_secure"`
	BrowserXSSFilter    bool   `yaml:"secure_browser_xss_filter"`
	XFrameOptions       string `yaml:"x_frame_options"`
	ContentTypeNosniff  bool   `yaml:"secure_content_type_nosniff"`
}

// YAML renders the effective settings with secrets redacted
func (c *Config) YAML() ([]byte, error) {
	view := settingsView{
		SecretKey:     redacted,
		Debug:         c.ServerConf.Debug,
		AllowedHosts:  c.ServerConf.AllowedHosts,
		InstalledApps: c.Apps,
		Middleware:    c.ServerConf.Middleware,
		REST: restView{
			AuthenticationClasses: c.ServerConf.REST.AuthenticationClasses,
			PermissionClasses:     c.ServerConf.REST.PermissionClasses,
		},
		Token: tokenView{
			AccessTokenLifetime:    c.AuthConf.Token.AccessTokenLifetime.String(),
			RefreshTokenLifetime:   c.AuthConf.Token.RefreshTokenLifetime.String(),
			RotateRefreshTokens:    c.AuthConf.Token.RotateRefreshTokens,
			BlacklistAfterRotation: c.AuthConf.Token.BlacklistAfterRotation,
			Algorithm:              c.AuthConf.Token.Algorithm,
			SigningKey:             redacted,
			AuthHeaderTypes:        c.AuthConf.Token.AuthHeaderTypes,
		},
		Security: securityView{
			SSLRedirect:         c.ServerConf.Security.SSLRedirect,
			SessionCookieSecure: c.ServerConf.Security.SessionCookieSecure,
			CSRFCookieSecure:    c.ServerConf.Security.CSRFCookieSecure,
			BrowserXSSFilter:    c.ServerConf.Security.BrowserXSSFilter,
			XFrameOptions:       c.ServerConf.Security.XFrameOptions,
			ContentTypeNosniff:  c.ServerConf.Security.ContentTypeNosniff,
		},
		CORS:      c.ServerConf.CORS.AllowedOrigins,
		UserModel: c.AuthConf.UserModel,
		Runtime: map[string]string{
			"address":        c.ServerConf.ServerAddr,
			"storage":        c.storageKind(),
			"log_level":      c.LogConf.String(),
			"flush_interval": c.FlushConf.Interval.String(),
		},
	}
	if c.AuthConf.Token.VerifyingKey != "" {
		key := redacted
		view.Token.VerifyingKey = &key
	}
	for _, v := range c.AuthConf.PasswordValidators {
		entry := map[string]any{"name": v.Name}
		if len(v.Options) > 0 {
			entry["options"] = v.Options
		}
		view.Validators = append(view.Validators, entry)
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return out, nil
}

func (c *Config) storageKind() string {
	if c.PGConf.DatabaseDSN == "" {
		return "memory"
	}
	return "postgresql"
}
