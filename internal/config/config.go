package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/hearth/internal/provider/anthropic"
)

// Config represents the relay configuration. It is loaded once at startup and
// immutable for the process lifetime.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Anthropic anthropic.Config
}

// AppConfig contains runtime posture settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"production"`
}

// IsDevelopment reports whether error responses may carry diagnostic detail.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"180"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// RateLimitConfig contains the per-client request window settings.
type RateLimitConfig struct {
	MaxRequests   int `env:"RATE_LIMIT_MAX"            envDefault:"100"`
	WindowMinutes int `env:"RATE_LIMIT_WINDOW_MINUTES" envDefault:"15"`
}

// RedisConfig contains the optional shared limiter backend. An empty address
// selects the in-process limiter.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*AppConfig
	*ServerConfig
	*CORSConfig
	*RateLimitConfig
	*RedisConfig
	*anthropic.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.App,
		&cfg.Server,
		&cfg.CORS,
		&cfg.RateLimit,
		&cfg.Redis,
		&cfg.Anthropic,
	}
}
