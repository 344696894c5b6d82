// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/config"
)

/*
TestLoad_MemoryDefaults verifies defaults when only the driver is chosen.
*/
func TestLoad_MemoryDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.CacheMemory, cfg.CacheProvider)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.StoreRetryAttempts)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_PostgresRequiresURL checks the conditional requirement on DATABASE_URL.
*/
func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

/*
TestLoad_RejectsUnknownValues covers typos in driver and cache names.
*/
func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")
		_, err := config.Load()
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})

	t.Run("cache", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("CACHE_PROVIDER", "memcached")
		_, err := config.Load()
		assert.ErrorContains(t, err, "CACHE_PROVIDER")
	})

	t.Run("redis_without_url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("CACHE_PROVIDER", "redis")
		_, err := config.Load()
		assert.ErrorContains(t, err, "REDIS_URL")
	})
}

/*
TestLoad_BootstrapAdminPairing requires both bootstrap credentials or neither.
*/
func TestLoad_BootstrapAdminPairing(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("BOOTSTRAP_ADMIN_USERNAME", "admin")

	_, err := config.Load()
	assert.ErrorContains(t, err, "BOOTSTRAP_ADMIN")
}

/*
TestLoad_ExtraOrigins parses the comma separated origin list.
*/
func TestLoad_ExtraOrigins(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EXTRA_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
