package main

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/config"
	"github.com/Zhima-Mochi/storefront/internal/domain/account"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/id"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/security"
	"github.com/Zhima-Mochi/storefront/internal/infrastructure/seed"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	v := config.New()
	v.Set("ENV", "test")
	v.Set("STORAGE_DRIVER", config.StorageMemory)
	v.Set("TOKEN_SECRET", "")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestConfigDefaultsForLocalRun(t *testing.T) {
	cfg := memoryConfig(t)
	assert.Equal(t, config.StorageMemory, cfg.StorageDriver)
	assert.NotEmpty(t, cfg.TokenSecret, "dev-like envs get a fallback secret")
	assert.Positive(t, cfg.ShutdownTimeout)
	assert.Positive(t, cfg.TokenTTL)
}

func TestOpenMemoryStorageWiresEveryRepository(t *testing.T) {
	ctx := context.Background()
	repos, err := openStorage(ctx, memoryConfig(t), observability.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.close()) })

	require.NotNil(t, repos.accounts)
	require.NotNil(t, repos.catalog)
	require.NotNil(t, repos.orders)
	require.NotNil(t, repos.reviews)
	require.NotNil(t, repos.chat)
	require.NotNil(t, repos.placement)

	hasher := security.NewArgon2Hasher(security.Argon2Params{MemoryKiB: 1024, Iterations: 1, Parallelism: 1})
	res, err := seed.NewSeeder(repos.accounts, repos.catalog, repos.reviews, hasher, id.NewUUIDGenerator(), nil).Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	admin, err := repos.accounts.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, account.RoleManager, admin.Role)
}
