package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	CorsConfig
	AuthConfig
	DatabaseConfig
	RateLimitConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetReadTimeout() time.Duration
	GetWriteTimeout() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Auth
	Database
	RateLimit
}

// New loads an optional .env file from the working directory and returns the
// environment backed configuration.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}

// Validate rejects configurations that must never reach production.
func Validate(c Config) error {
	if !c.IsProduction() {
		return nil
	}
	access, refresh := c.GetAccessTokenSecret(), c.GetRefreshTokenSecret()
	if access == "" || refresh == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set in production")
	}
	if access == refresh {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.GetDatabaseURL() == "" {
		return errors.New("DATABASE_URL must be set in production")
	}
	return nil
}
