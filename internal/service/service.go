package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=service.go -destination=mocks/repository_mock.go -package=mocks

const maxUsernameLength = 150

// Service is a main object of service layer
type Service struct {
	repo Repository
	zlog zerolog.Logger
}

// NewService constructs new service object
func NewService(repo Repository, zlog zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		zlog: zlog,
	}
}

// Repository interface used to communicate with repository from service
type Repository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (models.User, error)
}

// checkUsername is a helper to validate username string
func (s *Service) checkUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}
	// letters, digits and @/./+/-/_ only
	for _, char := range username {
		if !(char >= 'a' && char <= 'z' ||
			char >= 'A' && char <= 'Z' ||
			char >= '0' && char <= '9' ||
			char == '@' || char == '.' || char == '+' || char == '-' || char == '_') {
			return false
		}
	}

	return true
}

// CreateUser used to create user by provided username and password hashed at auth layer
func (s *Service) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if !s.checkUsername(user.Username) {
		return models.User{}, apperrors.ErrInvalidUsername
	}

	if user.UserType == "" {
		user.UserType = models.UserTypeStudent
	}
	if !user.UserType.Valid() {
		return models.User{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidUserType, user.UserType)
	}

	user.UUID = uuid.New()
	user.IsActive = true
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return models.User{}, err
	}

	s.zlog.Debug().Msgf("user %s registered as %s", user.Username, user.UserType)
	return user, nil
}

// LoginUser used for logging users in
func (s *Service) LoginUser(ctx context.Context, username string) (models.User, error) {
	if !s.checkUsername(username) {
		return models.User{}, apperrors.ErrInvalidUsername
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}
	if !user.IsActive {
		return models.User{}, apperrors.ErrUserIsNotAuthorized
	}

	return user, nil
}

// GetUser returns user by UUID
func (s *Service) GetUser(ctx context.Context, userUUID uuid.UUID) (models.User, error) {
	if userUUID == uuid.Nil {
		return models.User{}, apperrors.ErrInvalidUserUUID
	}

	return s.repo.GetUserByUUID(ctx, userUUID)
}
