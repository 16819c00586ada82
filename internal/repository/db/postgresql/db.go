package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/ar4ie13/tutorialplatform/internal/repository/db/postgresql/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DB is a main postgres repository object
type DB struct {
	pool *pgxpool.Pool
	zlog zerolog.Logger
}

// NewDB construct postgres DB object
func NewDB(ctx context.Context, cfg config.PGConf, zlog zerolog.Logger) (*DB, error) {
	pool, err := initPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize a connection pool: %w", err)
	}
	return &DB{
		pool: pool,
		zlog: zlog,
	}, nil
}

// initPool initializes pgx connection pool
func initPool(ctx context.Context, cfg config.PGConf) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize a connection pool: %w", err)
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping the DB: %w", err)
	}
	return pool, nil
}

// Close closes pgx pool
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// CreateUser stores user information to the db
func (db *DB) CreateUser(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (uuid, username, email, user_type, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (username) DO NOTHING`

	now := time.Now()
	tag, err := db.pool.Exec(ctx, query,
		user.UUID, user.Username, user.Email, string(user.UserType), user.PasswordHash, user.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserAlreadyExists
	}

	return nil
}

// GetUserByUsername retrieves user information from db
func (db *DB) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT uuid, username, email, user_type, password_hash, is_active, created_at, updated_at
		FROM users WHERE username = $1`

	return db.scanUser(db.pool.QueryRow(ctx, query, username))
}

// GetUserByUUID retrieves user information from db
func (db *DB) GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (models.User, error) {
	const query = `SELECT uuid, username, email, user_type, password_hash, is_active, created_at, updated_at
		FROM users WHERE uuid = $1`

	return db.scanUser(db.pool.QueryRow(ctx, query, userUUID))
}

func (db *DB) scanUser(row pgx.Row) (models.User, error) {
	var (
		user     models.User
		userType string
	)
	err := row.Scan(&user.UUID, &user.Username, &user.Email, &userType, &user.PasswordHash,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return models.User{}, apperrors.ErrUserNotFound
		default:
			return models.User{}, fmt.Errorf("failed to scan a response row: %w", err)
		}
	}
	user.UserType = models.UserType(userType)

	return user, nil
}

// AddOutstandingToken records an issued refresh token
func (db *DB) AddOutstandingToken(ctx context.Context, token models.OutstandingToken) error {
	const query = `
		INSERT INTO outstanding_tokens (jti, user_uuid, created_at, expires_at)
		VALUES ($1, $2, $3, $4) ON CONFLICT (jti) DO NOTHING`

	if _, err := db.pool.Exec(ctx, query, token.JTI, token.UserUUID, token.CreatedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert outstanding token: %w", err)
	}
	return nil
}

// BlacklistToken marks the token as blacklisted, recording it first when it
// was issued before the blacklist was enabled
func (db *DB) BlacklistToken(ctx context.Context, token models.OutstandingToken, at time.Time) error {
	const query = `
		INSERT INTO outstanding_tokens (jti, user_uuid, created_at, expires_at, blacklisted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jti) DO UPDATE SET blacklisted_at = COALESCE(outstanding_tokens.blacklisted_at, EXCLUDED.blacklisted_at)`

	_, err := db.pool.Exec(ctx, query, token.JTI, token.UserUUID, token.CreatedAt, token.ExpiresAt, at)
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// RotateToken blacklists the old refresh token and records the new one in a
// single transaction
func (db *DB) RotateToken(ctx context.Context, old, next models.OutstandingToken, at time.Time) error {
	const (
		queryBlacklist = `
		INSERT INTO outstanding_tokens (jti, user_uuid, created_at, expires_at, blacklisted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (jti) DO UPDATE SET blacklisted_at = $5
		WHERE outstanding_tokens.blacklisted_at IS NULL`

		queryInsert = `
		INSERT INTO outstanding_tokens (jti, user_uuid, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`
	)

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel: pgx.ReadCommitted,
	})
	if err != nil {
		return fmt.Errorf("failed to start a transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.zlog.Error().Err(rbErr).Msg("failed to rollback token rotation")
		}
	}()

	tag, err := tx.Exec(ctx, queryBlacklist, old.JTI, old.UserUUID, old.CreatedAt, old.ExpiresAt, at)
	if err != nil {
		return fmt.Errorf("failed to blacklist rotated token: %w", err)
	}
	// zero rows means a concurrent refresh already used this token
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenBlacklisted
	}

	if _, err = tx.Exec(ctx, queryInsert, next.JTI, next.UserUUID, next.CreatedAt, next.ExpiresAt); err != nil {
		return fmt.Errorf("failed to insert outstanding token: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsBlacklisted reports whether token with jti is blacklisted
func (db *DB) IsBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	const query = `SELECT blacklisted_at IS NOT NULL FROM outstanding_tokens WHERE jti = $1`

	var blacklisted bool
	err := db.pool.QueryRow(ctx, query, jti).Scan(&blacklisted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query token: %w", err)
	}
	return blacklisted, nil
}

// FlushExpiredTokens removes tokens expired before now, used by flusher service
func (db *DB) FlushExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM outstanding_tokens WHERE expires_at < $1`

	start := time.Now()
	defer func() {
		db.zlog.Debug().Msgf("request execution duration: %s", time.Since(start))
	}()

	tag, err := db.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to flush expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
