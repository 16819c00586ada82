package handlers

import (
	"fmt"
	"net/http"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userContextKey     = "user_uuid"
	sessionUserKey     = "_auth_user_id"
	authenticationJWT  = "jwt"
	permissionAllowAny = "allow_any"
	permissionIsAuth   = "is_authenticated"
)

// authenticationMiddleware attaches the user stored in the session. Missing
// or stale session user leaves the request anonymous.
func (h *Handlers) authenticationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := currentSession(c)
		if !ok {
			c.Next()
			return
		}
		raw, ok := session.Get(sessionUserKey).(string)
		if !ok {
			c.Next()
			return
		}

		userUUID, err := uuid.Parse(raw)
		if err != nil {
			h.zlog.Debug().Msgf("bad user id in session: %v", err)
			c.Next()
			return
		}

		user, err := h.srv.GetUser(c, userUUID)
		if err != nil || !user.IsActive {
			h.zlog.Debug().Msgf("session user %s is not available: %v", userUUID, err)
			c.Next()
			return
		}

		// Set user UUID in the context for downstream handlers
		c.Set(userContextKey, user.UUID)
		c.Next()
	}
}

// apiAuthentication replaces the request user with the one authenticated by
// the configured API authentication classes
func (h *Handlers) apiAuthentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userContextKey, uuid.Nil)

		for _, class := range h.cfg.REST.AuthenticationClasses {
			if class != authenticationJWT {
				continue
			}

			token, err := h.auth.ParseAuthorizationHeader(c.GetHeader("Authorization"))
			if err != nil {
				h.unauthorized(c, err)
				return
			}
			if token == "" {
				continue
			}

			userUUID, err := h.auth.ValidateUserUUID(token)
			if err != nil {
				h.zlog.Debug().Msgf("error validating access token: %v", err)
				h.unauthorized(c, err)
				return
			}

			user, err := h.srv.GetUser(c, userUUID)
			if err != nil {
				h.zlog.Debug().Msgf("token user %s is not available: %v", userUUID, err)
				h.unauthorized(c, fmt.Errorf("%w: user not found", apperrors.ErrTokenInvalid))
				return
			}
			if !user.IsActive {
				h.unauthorized(c, fmt.Errorf("%w: user is inactive", apperrors.ErrTokenInvalid))
				return
			}
			c.Set(userContextKey, user.UUID)
			break
		}

		c.Next()
	}
}

// permission applies the default permission classes of API routes
func (h *Handlers) permission() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, class := range h.cfg.REST.PermissionClasses {
			switch class {
			case permissionAllowAny:
			case permissionIsAuth:
				if _, ok := currentUser(c); !ok {
					h.unauthorized(c, apperrors.ErrUserIsNotAuthorized)
					return
				}
			}
		}
		c.Next()
	}
}

func (h *Handlers) unauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	h.errorJSON(c, http.StatusUnauthorized, "authentication credentials were not provided or are invalid", err)
}

// currentUser returns the authenticated user of request
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return uuid.Nil, false
	}
	userUUID, ok := v.(uuid.UUID)
	if !ok || userUUID == uuid.Nil {
		return uuid.Nil, false
	}
	return userUUID, true
}
