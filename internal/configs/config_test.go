package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"APP_NAME", "PORT", "CORS_ALLOWED_ORIGINS", "DATABASE_URL",
	"REGION_API_BASE_URL", "REGION_API_TIMEOUT", "REGION_API_DELAY",
	"REGION_SESSION_IDLE_TTL", "REGION_SESSION_MAX",
	"REDIS_ENABLED", "REDIS_ADDR", "REDIS_TTL",
	"RABBITMQ_ENABLED", "RABBITMQ_URL",
	"FLUENTBIT_ENABLED", "FLUENTBIT_HOST", "FLUENTBIT_PORT", "FLUENTBIT_LOG_LEVEL",
	"STDOUT_LOG_LEVEL", "STDOUT_LOG_JSON",
}

// clearEnv сбрасывает переменные так, чтобы t.Setenv восстановил их после теста
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/market")
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "marketplace-service", cfg.AppName)
	assert.Equal(t, "8080", cfg.Rest.PORT)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Rest.CorsAllowedOrigins)
	assert.Equal(t, "https://ibnux.github.io/data-indonesia", cfg.RegionAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RegionAPI.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 10000, cfg.Sessions.MaxSessions)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "debug", cfg.StdoutLogger.Level)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://u:p@db:5432/market\n" +
		"PORT=9090\n" +
		"CORS_ALLOWED_ORIGINS=https://rumah.id, https://admin.rumah.id,\n" +
		"REDIS_ENABLED=true\n" +
		"REDIS_TTL=30m\n" +
		"REGION_API_DELAY=250ms\n" +
		"REGION_SESSION_IDLE_TTL=5m\n" +
		"REGION_SESSION_MAX=50\n" +
		"FLUENTBIT_ENABLED=true\n" +
		"FLUENTBIT_HOST=fluent-bit\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Rest.PORT)
	assert.Equal(t, []string{"https://rumah.id", "https://admin.rumah.id"}, cfg.Rest.CorsAllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 250*time.Millisecond, cfg.RegionAPI.Delay)
	assert.Equal(t, 5*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 50, cfg.Sessions.MaxSessions)
	assert.True(t, cfg.FluentBit.Enabled)
	assert.Equal(t, 24224, cfg.FluentBit.Port)
	assert.Equal(t, "info", cfg.FluentBit.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing explicit env file", func(t *testing.T) {
		clearEnv(t)
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("database url required", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("rabbitmq url required when enabled", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("DATABASE_URL", "postgres://localhost/market")
		t.Setenv("RABBITMQ_ENABLED", "true")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfig_FluentWithoutHostIsDisabled(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/market")
	t.Setenv("FLUENTBIT_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestEnvHelpers_FallBackOnParseErrors(t *testing.T) {
	t.Setenv("TEST_INT", "abc")
	t.Setenv("TEST_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "soon")

	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))
	assert.True(t, getEnvAsBool("TEST_BOOL", true))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnvAsString("TEST_UNSET_STRING", "fallback"))
}
