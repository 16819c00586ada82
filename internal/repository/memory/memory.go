// Package memory is an in-process storage used when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apperrors"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/google/uuid"
)

// Storage keeps users and outstanding tokens in maps guarded by a mutex
type Storage struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]models.User
	byUsername map[string]uuid.UUID
	tokens     map[uuid.UUID]models.OutstandingToken
}

// NewStorage constructs empty Storage
func NewStorage() *Storage {
	return &Storage{
		users:      make(map[uuid.UUID]models.User),
		byUsername: make(map[string]uuid.UUID),
		tokens:     make(map[uuid.UUID]models.OutstandingToken),
	}
}

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

// CreateUser stores user
func (s *Storage) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[user.Username]; ok {
		return apperrors.ErrUserAlreadyExists
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.UUID] = user
	s.byUsername[user.Username] = user.UUID
	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return s.users[id], nil
}

// GetUserByUUID retrieves user by UUID
func (s *Storage) GetUserByUUID(_ context.Context, userUUID uuid.UUID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userUUID]
	if !ok {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, nil
}

// AddOutstandingToken records an issued refresh token
func (s *Storage) AddOutstandingToken(_ context.Context, token models.OutstandingToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[token.JTI]; !ok {
		s.tokens[token.JTI] = token
	}
	return nil
}

// BlacklistToken marks token as blacklisted
func (s *Storage) BlacklistToken(_ context.Context, token models.OutstandingToken, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist(token, at)
	return nil
}

func (s *Storage) blacklist(token models.OutstandingToken, at time.Time) bool {
	stored, ok := s.tokens[token.JTI]
	if !ok {
		stored = token
	}
	if stored.BlacklistedAt != nil {
		return false
	}
	stored.BlacklistedAt = &at
	s.tokens[token.JTI] = stored
	return true
}

// RotateToken blacklists old and records next atomically
func (s *Storage) RotateToken(_ context.Context, old, next models.OutstandingToken, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.blacklist(old, at) {
		return apperrors.ErrTokenBlacklisted
	}
	s.tokens[next.JTI] = next
	return nil
}

// IsBlacklisted reports whether token is blacklisted
func (s *Storage) IsBlacklisted(_ context.Context, jti uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[jti]
	return ok && token.BlacklistedAt != nil, nil
}

// FlushExpiredTokens removes tokens expired before now
func (s *Storage) FlushExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for jti, token := range s.tokens {
		if token.ExpiresAt.Before(now) {
			delete(s.tokens, jti)
			n++
		}
	}
	return n, nil
}
