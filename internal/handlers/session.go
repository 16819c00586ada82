package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// sessionInfo returns csrf token, session user and pending messages
func (h *Handlers) sessionInfo(c *gin.Context) {
	resp := sessionResponse{
		CSRFToken: csrfToken(c),
		Messages:  popMessages(c),
	}

	if userUUID, ok := currentUser(c); ok {
		user, err := h.srv.GetUser(c, userUUID)
		if err != nil {
			h.errorJSON(c, statusFor(err), "cannot get user", err)
			return
		}
		u := newUserResponse(user)
		resp.User = &u
	}

	c.JSON(http.StatusOK, resp)
}

// sessionLogin authenticates user by password and stores it in the session
func (h *Handlers) sessionLogin(c *gin.Context) {
	var loginReq LoginRequest

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, ok := h.checkCredentials(c, loginReq)
	if !ok {
		return
	}

	session, ok := currentSession(c)
	if !ok {
		h.errorJSON(c, http.StatusInternalServerError, "sessions are not enabled", nil)
		return
	}
	session.Clear()
	session.Set(sessionUserKey, user.UUID.String())
	if c.GetBool(messagesContextKey) {
		queueMessage(session, LevelInfo, fmt.Sprintf("signed in as %s", user.Username))
	}
	if err := session.Save(); err != nil {
		h.errorJSON(c, http.StatusInternalServerError, "cannot save session", err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// sessionLogout flushes the session
func (h *Handlers) sessionLogout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		h.errorJSON(c, http.StatusInternalServerError, "sessions are not enabled", nil)
		return
	}
	session.Clear()
	if err := session.Save(); err != nil {
		h.errorJSON(c, http.StatusInternalServerError, "cannot save session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
