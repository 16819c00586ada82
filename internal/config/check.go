package config

import (
	"slices"
	"unicode/utf8"
)

const minSecretKeyLength = 50

// Warning is a deployment check result. Warnings never stop the service.
type Warning struct {
	ID      string
	Message string
}

// Check reports settings that are unsafe for production without changing them
func (c *Config) Check() []Warning {
	var warns []Warning

	if c.AuthConf.SecretKey == DefaultSecretKey {
		warns = append(warns, Warning{
			ID:      "security.W001",
			Message: "secret key is the built-in default, set DJANGO_SECRET_KEY",
		})
	} else if utf8.RuneCountInString(c.AuthConf.SecretKey) < minSecretKeyLength {
		warns = append(warns, Warning{
			ID:      "security.W002",
			Message: "secret key is shorter than 50 characters",
		})
	}

	if c.ServerConf.Debug {
		warns = append(warns, Warning{
			ID:      "security.W003",
			Message: "debug is enabled, error responses include internal details",
		})
		if c.ServerConf.Security.SSLRedirect {
			warns = append(warns, Warning{
				ID:      "security.W004",
				Message: "SSL redirect is on while debugging, plain HTTP requests are redirected to HTTPS",
			})
		}
	}

	if slices.Contains(c.ServerConf.AllowedHosts, "*") {
		warns = append(warns, Warning{
			ID:      "security.W005",
			Message: "allowed hosts contain a wildcard, Host header is not validated",
		})
	}

	return warns
}
