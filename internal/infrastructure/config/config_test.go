package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"SUPPLY_APP_NAME", "SUPPLY_APP_ENV", "SUPPLY_APP_PORT",
		"SUPPLY_DATABASE_HOST", "SUPPLY_DATABASE_PORT", "SUPPLY_DATABASE_PASSWORD",
		"SUPPLY_DATABASE_SSLMODE", "SUPPLY_JWT_SECRET", "SUPPLY_PUSH_ENABLED",
	}
	original := map[string]string{}
	for _, k := range envKeys {
		original[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()
	clearEnv := func() {
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("defaults apply when nothing is set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "supplyoffice-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "supplyoffice", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "supplyoffice:events", cfg.Push.Channel)
		assert.Equal(t, 16, cfg.Push.ClientBufferSize)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	})

	t.Run("env vars override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("SUPPLY_APP_PORT", "9090")
		os.Setenv("SUPPLY_DATABASE_HOST", "db.internal")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("SUPPLY_APP_ENV", "production")
		os.Setenv("SUPPLY_DATABASE_PASSWORD", "secret")
		os.Setenv("SUPPLY_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects short jwt secret and disabled ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("SUPPLY_APP_ENV", "production")
		os.Setenv("SUPPLY_JWT_SECRET", "short")
		os.Setenv("SUPPLY_DATABASE_PASSWORD", "secret")
		os.Setenv("SUPPLY_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")

		os.Setenv("SUPPLY_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("SUPPLY_DATABASE_SSLMODE", "disable")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss:word/",
		DBName:   "supplyoffice",
		SSLMode:  "disable",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss:word/@")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
