package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Reset     ResetConfig
	RateLimit RateLimitConfig
	Argon2    Argon2Config

	// DefaultOrganizationID is the tenant used when registration or
	// login arrives without an organization slug.
	DefaultOrganizationID uint
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds the Postgres connection string shared by sqlx and GORM.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type ResetConfig struct {
	TokenTTL time.Duration
}

type RateLimitConfig struct {
	Window    time.Duration
	Threshold int64
}

type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Load reads configuration once at startup from .env (if present) and
// the environment. The returned Config is treated as immutable; values
// are passed explicitly into constructors.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Missing .env is fine in containerized deployments where all
	// settings arrive through the environment.
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("PG_USER", "koinonia")
	v.SetDefault("PG_DB", "koinonia")
	v.SetDefault("PG_SSLMODE", "disable")
	v.SetDefault("JWT_TTL_MINUTES", 60*24)
	v.SetDefault("RESET_TOKEN_TTL_MINUTES", 30)
	v.SetDefault("RATE_LIMIT_WINDOW_MINUTES", 15)
	v.SetDefault("RATE_LIMIT_THRESHOLD", 5)
	v.SetDefault("ARGON2_MEMORY_KB", 64*1024)
	v.SetDefault("ARGON2_ITERATIONS", 3)
	v.SetDefault("ARGON2_PARALLELISM", 2)
	v.SetDefault("DEFAULT_ORGANIZATION_ID", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Environment: v.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("PG_HOST"),
			Port:     v.GetString("PG_PORT"),
			User:     v.GetString("PG_USER"),
			Password: v.GetString("PG_PASSWORD"),
			DBName:   v.GetString("PG_DB"),
			SSLMode:  v.GetString("PG_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    time.Duration(v.GetInt("JWT_TTL_MINUTES")) * time.Minute,
		},
		Reset: ResetConfig{
			TokenTTL: time.Duration(v.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Window:    time.Duration(v.GetInt("RATE_LIMIT_WINDOW_MINUTES")) * time.Minute,
			Threshold: v.GetInt64("RATE_LIMIT_THRESHOLD"),
		},
		Argon2: Argon2Config{
			Memory:      v.GetUint32("ARGON2_MEMORY_KB"),
			Iterations:  v.GetUint32("ARGON2_ITERATIONS"),
			Parallelism: uint8(v.GetUint("ARGON2_PARALLELISM")),
			SaltLength:  16,
			KeyLength:   32,
		},
		DefaultOrganizationID: v.GetUint("DEFAULT_ORGANIZATION_ID"),
	}

	if cfg.JWT.Secret == "" {
		if cfg.Server.Environment == "production" {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWT.Secret = "dev-secret-key-change-me"
	}

	return cfg, nil
}
