package config

import (
	"strings"
	"time"

	passconf "github.com/ar4ie13/tutorialplatform/internal/passwords/config"
)

// Config object for authentication service
type Config struct {
	SecretKey          string                   `validate:"required"`
	Token              TokenPolicy              `validate:"required"`
	PasswordValidators []passconf.ValidatorConf `validate:"dive"`
	UserModel          string                   `validate:"required"`
	BcryptCost         int                      `validate:"min=4,max=31"`
}

// TokenPolicy describes lifetimes and rotation rules of access and refresh tokens
type TokenPolicy struct {
	AccessTokenLifetime    time.Duration `validate:"gt=0,ltefield=RefreshTokenLifetime"`
	RefreshTokenLifetime   time.Duration `validate:"gt=0"`
	RotateRefreshTokens    bool
	BlacklistAfterRotation bool
	Algorithm              string `validate:"oneof=HS256 HS384 HS512"`
	SigningKey             string `validate:"required"`
	// VerifyingKey is used by asymmetric algorithms only and falls back to
	// SigningKey when empty.
	VerifyingKey    string
	AuthHeaderTypes []string `validate:"min=1,dive,required"`
}

// Key returns the key used to verify token signatures. HMAC algorithms
// verify with the signing key.
func (p TokenPolicy) Key() string {
	if strings.HasPrefix(p.Algorithm, "HS") || p.VerifyingKey == "" {
		return p.SigningKey
	}
	return p.VerifyingKey
}
