package handlers

import (
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type" binding:"omitempty,oneof=student tutor admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type userResponse struct {
	UUID     uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	UserType string    `json:"user_type"`
	Joined   string    `json:"date_joined"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		UUID:     u.UUID,
		Username: u.Username,
		Email:    u.Email,
		UserType: string(u.UserType),
		Joined:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type sessionResponse struct {
	CSRFToken string        `json:"csrf_token,omitempty"`
	User      *userResponse `json:"user"`
	Messages  []Message     `json:"messages"`
}
