package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort                = 8080
	defaultSQLitePath          = "elo_db.sqlite"
	defaultAdminPassword       = "change-me"
	defaultLeaderboardSyncSpec = "0 0 * * * *"
)

type BackupConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
	Prefix          string
}

// Enabled reports whether enough is set to upload backups.
func (b BackupConfig) Enabled() bool {
	return b.AccountID != "" && b.AccessKeyID != "" && b.SecretAccessKey != "" && b.BucketName != ""
}

type Config struct {
	DatabaseURL         string
	SQLitePath          string
	Port                int
	AdminPassword       string
	AdminPasswordHash   string
	JWTSecret           string
	RedisURL            string
	CORSOrigins         []string
	LeaderboardSyncSpec string
	LogLevel            slog.Level
	Backup              BackupConfig
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getenv("DATABASE_URL"),
		SQLitePath:          valueOr(getenv("SQLITE_PATH"), defaultSQLitePath),
		AdminPassword:       valueOr(getenv("ADMIN_PASSWORD"), defaultAdminPassword),
		AdminPasswordHash:   getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:           getenv("JWT_SECRET"),
		RedisURL:            getenv("REDIS_URL"),
		LeaderboardSyncSpec: valueOr(getenv("LEADERBOARD_SYNC_SPEC"), defaultLeaderboardSyncSpec),
		Backup: BackupConfig{
			AccountID:       getenv("BACKUP_R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("BACKUP_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("BACKUP_SECRET_ACCESS_KEY"),
			BucketName:      getenv("BACKUP_BUCKET"),
			PublicBaseURL:   getenv("BACKUP_PUBLIC_BASE_URL"),
			Prefix:          valueOr(getenv("BACKUP_PREFIX"), "backups/"),
		},
	}

	port := defaultPort
	if portStr := getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
		}
		port = p
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}
	cfg.Port = port

	if levelStr := getenv("LOG_LEVEL"); levelStr != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	cfg.CORSOrigins = []string{"*"}
	if origins := getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.JWTSecret == "" {
		if cfg.DatabaseURL != "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
		}
		// local sqlite setups get a secret tied to the admin password
		sum := sha256.Sum256([]byte("owl-league:" + cfg.AdminPassword))
		cfg.JWTSecret = hex.EncodeToString(sum[:])
	}

	return cfg, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
