package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	authconf "github.com/ar4ie13/tutorialplatform/internal/auth/config"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/ar4ie13/tutorialplatform/internal/passwords"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=mocks/store_mock.go -package=mocks

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenStore tracks outstanding refresh tokens and the blacklist
type TokenStore interface {
	AddOutstandingToken(ctx context.Context, token models.OutstandingToken) error
	BlacklistToken(ctx context.Context, token models.OutstandingToken, at time.Time) error
	RotateToken(ctx context.Context, old, next models.OutstandingToken, at time.Time) error
	IsBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error)
}

type Auth struct {
	conf   authconf.Config
	method jwt.SigningMethod
	chain  *passwords.Chain
	// store is nil when the token blacklist is not installed
	store TokenStore
	now   func() time.Time
}

type Claims struct {
	jwt.RegisteredClaims
	TokenType string    `json:"token_type"`
	UserUUID  uuid.UUID `json:"user_id"`
}

// TokenPair is returned by token endpoints. Refresh is empty when refresh
// tokens are not rotated.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// NewAuth creates Auth object. Pass nil store to disable the blacklist.
func NewAuth(conf authconf.Config, chain *passwords.Chain, store TokenStore) (*Auth, error) {
	method := jwt.GetSigningMethod(conf.Token.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", conf.Token.Algorithm)
	}
	return &Auth{
		conf:   conf,
		method: method,
		chain:  chain,
		store:  store,
		now:    time.Now,
	}, nil
}

// BlacklistEnabled reports whether refresh tokens are tracked
func (a *Auth) BlacklistEnabled() bool {
	return a.store != nil
}

// GenerateUserUUID generates new UUID for user
func (a *Auth) GenerateUserUUID() uuid.UUID {
	return uuid.New()
}

// IssuePair creates access and refresh tokens for the user
func (a *Auth) IssuePair(ctx context.Context, userUUID uuid.UUID) (TokenPair, error) {
	access, _, err := a.buildJWTString(userUUID, TokenTypeAccess, a.conf.Token.AccessTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, claims, err := a.buildJWTString(userUUID, TokenTypeRefresh, a.conf.Token.RefreshTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}

	if a.store != nil {
		if err = a.store.AddOutstandingToken(ctx, outstanding(claims)); err != nil {
			return TokenPair{}, fmt.Errorf("failed to record refresh token: %w", err)
		}
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token, rotating the
// refresh token when configured
func (a *Auth) Refresh(ctx context.Context, refreshString string) (TokenPair, error) {
	claims, err := a.Verify(refreshString, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	if err = a.checkBlacklist(ctx, claims); err != nil {
		return TokenPair{}, err
	}

	access, _, err := a.buildJWTString(claims.UserUUID, TokenTypeAccess, a.conf.Token.AccessTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}
	if !a.conf.Token.RotateRefreshTokens {
		return TokenPair{Access: access}, nil
	}

	refresh, next, err := a.buildJWTString(claims.UserUUID, TokenTypeRefresh, a.conf.Token.RefreshTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}

	if a.store != nil {
		if a.conf.Token.BlacklistAfterRotation {
			err = a.store.RotateToken(ctx, outstanding(claims), outstanding(next), a.now())
		} else {
			err = a.store.AddOutstandingToken(ctx, outstanding(next))
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenBlacklisted) {
				return TokenPair{}, err
			}
			return TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
		}
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Blacklist revokes the refresh token
func (a *Auth) Blacklist(ctx context.Context, refreshString string) error {
	if a.store == nil {
		return apperrors.ErrBlacklistNotInstalled
	}
	claims, err := a.Verify(refreshString, TokenTypeRefresh)
	if err != nil {
		return err
	}
	if err = a.checkBlacklist(ctx, claims); err != nil {
		return err
	}
	if err = a.store.BlacklistToken(ctx, outstanding(claims), a.now()); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// ValidateUserUUID validates access token and returns the UUID of user
func (a *Auth) ValidateUserUUID(tokenString string) (uuid.UUID, error) {
	claims, err := a.Verify(tokenString, TokenTypeAccess)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserUUID, nil
}

// Verify checks signature, expiration and token type
func (a *Auth) Verify(tokenString, tokenType string) (*Claims, error) {
	claims, token, err := a.parseTokenString(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrTokenInvalid
	}
	if claims.UserUUID == uuid.Nil {
		return nil, apperrors.ErrInvalidUserUUID
	}
	if _, err = uuid.Parse(claims.ID); err != nil {
		return nil, fmt.Errorf("%w: bad jti", apperrors.ErrTokenInvalid)
	}
	if tokenType != "" && claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s, got %q", apperrors.ErrWrongTokenType, tokenType, claims.TokenType)
	}

	return claims, nil
}

// VerifyToken checks a token of any type and rejects blacklisted ones
func (a *Auth) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := a.Verify(tokenString, "")
	if err != nil {
		return nil, err
	}
	if err = a.checkBlacklist(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseAuthorizationHeader extracts the raw token from an Authorization
// header value. Empty header or a header of another scheme yields empty
// token and no error, leaving the request to other authenticators.
func (a *Auth) ParseAuthorizationHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if !slices.Contains(a.conf.Token.AuthHeaderTypes, parts[0]) {
		return "", nil
	}
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: header must contain two space-delimited values", apperrors.ErrTokenInvalid)
	}
	return parts[1], nil
}

// GenerateHashFromPassword validates password against the validator chain
// and returns bcrypt hash
func (a *Auth) GenerateHashFromPassword(password string, attrs passwords.Attributes) (string, error) {
	if a.chain != nil {
		if err := a.chain.Validate(password, attrs); err != nil {
			return "", err
		}
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), a.conf.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares password with bcrypt hash
func (a *Auth) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// PasswordHelpTexts describes configured password rules
func (a *Auth) PasswordHelpTexts() []string {
	if a.chain == nil {
		return nil
	}
	return a.chain.HelpTexts()
}

func (a *Auth) checkBlacklist(ctx context.Context, claims *Claims) error {
	if a.store == nil {
		return nil
	}
	blacklisted, err := a.store.IsBlacklisted(ctx, uuid.MustParse(claims.ID))
	if err != nil {
		return fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return apperrors.ErrTokenBlacklisted
	}
	return nil
}

// buildJWTString creates new signed JWT
func (a *Auth) buildJWTString(userUUID uuid.UUID, tokenType string, lifetime time.Duration) (string, *Claims, error) {
	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		TokenType: tokenType,
		UserUUID:  userUUID,
	}

	token := jwt.NewWithClaims(a.method, claims)
	tokenString, err := token.SignedString([]byte(a.conf.Token.SigningKey))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, claims, nil
}

// parseTokenString parses token string and returns claims and token (for validation)
func (a *Auth) parseTokenString(tokenString string) (*Claims, *jwt.Token, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{a.method.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.conf.Token.Key()), nil
	})
	if err != nil {
		return claims, token, err
	}
	return claims, token, nil
}

func outstanding(c *Claims) models.OutstandingToken {
	t := models.OutstandingToken{
		JTI:      uuid.MustParse(c.ID),
		UserUUID: c.UserUUID,
	}
	if c.IssuedAt != nil {
		t.CreatedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		t.ExpiresAt = c.ExpiresAt.Time
	}
	return t
}
