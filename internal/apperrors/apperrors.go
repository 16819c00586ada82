package apperrors

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyExists     = errors.New("user already exists")
	ErrInvalidUserUUID       = errors.New("invalid user uuid")
	ErrUserIsNotAuthorized   = errors.New("user is not authorized")
	ErrInvalidUsername       = errors.New("invalid username, use letters, digits and @/./+/-/_ only")
	ErrInvalidUserType       = errors.New("invalid user type")
	ErrInvalidPassword       = errors.New("invalid password")
	ErrPasswordValidation    = errors.New("password validation failed")
	ErrTokenInvalid          = errors.New("token is invalid")
	ErrTokenExpired          = errors.New("token is expired")
	ErrTokenBlacklisted      = errors.New("token is blacklisted")
	ErrWrongTokenType        = errors.New("wrong token type")
	ErrBlacklistNotInstalled = errors.New("token blacklist is not installed")
	ErrDisallowedHost        = errors.New("invalid host header")
	ErrCSRFFailed            = errors.New("csrf verification failed")
)
