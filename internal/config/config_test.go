package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/seeds/deliveries.json", cfg.SeedPath)
	assert.Equal(t, 2*time.Minute, cfg.RouteCacheTTL)
	assert.Equal(t, "America/Toronto", cfg.Location().String())
	assert.True(t, cfg.SeedOnStart)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/tiffin")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ROUTE_CACHE_TTL", "30s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.RouteCacheTTL)
	assert.True(t, cfg.CacheEnabled())
	assert.False(t, cfg.GeocodingEnabled())
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ORS_API_KEY=abc123\nPORT=9090\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("ORS_API_KEY")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.GeocodingEnabled())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"driver", "DB_DRIVER", "mysql"},
		{"ttl", "ROUTE_CACHE_TTL", "0s"},
		{"timezone", "TIMEZONE", "Mars/Olympus"},
		{"dsn", "DATABASE_URL", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
