package handlers

import (
	"errors"
	"net/http"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/gin-gonic/gin"
)

var (
	errPasswordValidation  = apperrors.ErrPasswordValidation
	errInvalidPassword     = apperrors.ErrInvalidPassword
	errUserIsNotAuthorized = apperrors.ErrUserIsNotAuthorized
)

// statusFor maps application errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidUsername),
		errors.Is(err, apperrors.ErrInvalidUserType),
		errors.Is(err, apperrors.ErrInvalidUserUUID),
		errors.Is(err, apperrors.ErrPasswordValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenBlacklisted),
		errors.Is(err, apperrors.ErrWrongTokenType),
		errors.Is(err, apperrors.ErrUserIsNotAuthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrBlacklistNotInstalled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// errorJSON aborts with {"error": msg}. Error details are exposed only in debug.
func (h *Handlers) errorJSON(c *gin.Context, status int, msg string, err error) {
	body := gin.H{"error": msg}
	if h.cfg.Debug && err != nil {
		body["details"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		h.zlog.Error().Err(err).Msg(msg)
	}
	c.AbortWithStatusJSON(status, body)
}
