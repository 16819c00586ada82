package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/ar4ie13/tutorialplatform/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (*Service, *mocks.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	return NewService(repo, zerolog.Nop()), repo
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to student", func(t *testing.T) {
		srv, repo := newService(t)
		repo.EXPECT().
			CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u models.User) error {
				assert.NotEqual(t, uuid.Nil, u.UUID)
				assert.Equal(t, models.UserTypeStudent, u.UserType)
				assert.True(t, u.IsActive)
				return nil
			})

		user, err := srv.CreateUser(ctx, models.User{Username: "jane.doe+1", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.Equal(t, "jane.doe+1", user.Username)
	})

	t.Run("invalid username", func(t *testing.T) {
		srv, _ := newService(t)
		for _, name := range []string{"", "jane doe", "jane!", string(make([]byte, 151))} {
			_, err := srv.CreateUser(ctx, models.User{Username: name})
			assert.ErrorIs(t, err, apperrors.ErrInvalidUsername, name)
		}
	})

	t.Run("invalid user type", func(t *testing.T) {
		srv, _ := newService(t)
		_, err := srv.CreateUser(ctx, models.User{Username: "jane", UserType: "janitor"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidUserType)
	})

	t.Run("conflict", func(t *testing.T) {
		srv, repo := newService(t)
		repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(apperrors.ErrUserAlreadyExists)

		_, err := srv.CreateUser(ctx, models.User{Username: "jane", UserType: models.UserTypeTutor})
		assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
	})
}

func TestService_LoginUser(t *testing.T) {
	ctx := context.Background()

	t.Run("active", func(t *testing.T) {
		srv, repo := newService(t)
		want := models.User{UUID: uuid.New(), Username: "jane", IsActive: true}
		repo.EXPECT().GetUserByUsername(ctx, "jane").Return(want, nil)

		got, err := srv.LoginUser(ctx, "jane")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("inactive", func(t *testing.T) {
		srv, repo := newService(t)
		repo.EXPECT().GetUserByUsername(ctx, "jane").Return(models.User{Username: "jane"}, nil)

		_, err := srv.LoginUser(ctx, "jane")
		assert.ErrorIs(t, err, apperrors.ErrUserIsNotAuthorized)
	})

	t.Run("repository error", func(t *testing.T) {
		srv, repo := newService(t)
		boom := errors.New("boom")
		repo.EXPECT().GetUserByUsername(ctx, "jane").Return(models.User{}, boom)

		_, err := srv.LoginUser(ctx, "jane")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_GetUser(t *testing.T) {
	ctx := context.Background()
	srv, repo := newService(t)

	_, err := srv.GetUser(ctx, uuid.Nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidUserUUID)

	id := uuid.New()
	repo.EXPECT().GetUserByUUID(ctx, id).Return(models.User{UUID: id}, nil)
	user, err := srv.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.UUID)
}
