package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "elo_db.sqlite", cfg.SQLitePath)
	assert.Equal(t, "change-me", cfg.AdminPassword)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.False(t, cfg.Backup.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DATABASE_URL":             "postgres://league@localhost/league",
		"JWT_SECRET":               "s3cret",
		"PORT":                     "9000",
		"LOG_LEVEL":                "debug",
		"CORS_ORIGINS":             "https://a.example, https://b.example,",
		"BACKUP_R2_ACCOUNT_ID":     "acc",
		"BACKUP_ACCESS_KEY_ID":     "key",
		"BACKUP_SECRET_ACCESS_KEY": "secret",
		"BACKUP_BUCKET":            "league",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.Backup.Enabled())
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"PORT": "eighty"}))
	assert.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{"PORT": "70000"}))
	assert.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{"LOG_LEVEL": "chatty"}))
	assert.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{"DATABASE_URL": "postgres://x"}))
	assert.Error(t, err, "postgres deployments must set JWT_SECRET")
}
