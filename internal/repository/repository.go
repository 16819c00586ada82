package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/ar4ie13/tutorialplatform/internal/repository/db/postgresql"
	"github.com/ar4ie13/tutorialplatform/internal/repository/db/postgresql/config"
	"github.com/ar4ie13/tutorialplatform/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository is implemented by every storage backend
type Repository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (models.User, error)
	AddOutstandingToken(ctx context.Context, token models.OutstandingToken) error
	BlacklistToken(ctx context.Context, token models.OutstandingToken, at time.Time) error
	RotateToken(ctx context.Context, old, next models.OutstandingToken, at time.Time) error
	IsBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error)
	FlushExpiredTokens(ctx context.Context, now time.Time) (int64, error)
	Close() error
}

var (
	_ Repository = (*postgresql.DB)(nil)
	_ Repository = (*memory.Storage)(nil)
)

// NewRepository returns PostgreSQL repository with applied migrations when DSN
// is set, in-memory storage otherwise
func NewRepository(ctx context.Context, conf config.PGConf, zlog zerolog.Logger) (Repository, error) {
	if conf.DatabaseDSN == "" {
		zlog.Info().Msg("using in-memory repository")
		return memory.NewStorage(), nil
	}

	repo, err := postgresql.NewDB(ctx, conf, zlog)
	if err != nil {
		return nil, err
	}
	zlog.Info().Msg("using PostgreSQL repository")
	zlog.Info().Msg("applying migrations")
	if err = postgresql.ApplyMigrations(conf, zlog); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return repo, nil
}
