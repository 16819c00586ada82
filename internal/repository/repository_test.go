package repository

import (
	"context"
	"testing"

	"github.com/ar4ie13/tutorialplatform/internal/repository/db/postgresql/config"
	"github.com/ar4ie13/tutorialplatform/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepository_MemoryWithoutDSN(t *testing.T) {
	repo, err := NewRepository(context.Background(), config.PGConf{}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	assert.IsType(t, &memory.Storage{}, repo)
}

func TestNewRepository_BadDSN(t *testing.T) {
	_, err := NewRepository(context.Background(), config.PGConf{DatabaseDSN: "postgres://%zz"}, zerolog.Nop())
	assert.Error(t, err)
}
