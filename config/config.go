package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects where projects, users and reports are read from
type StoreConfig struct {
	Type    string        `mapstructure:"type"` // "http" or "file"
	BaseURL string        `mapstructure:"base_url"`
	DBPath  string        `mapstructure:"db_path"`
	Timeout time.Duration `mapstructure:"timeout"`
	Watch   bool          `mapstructure:"watch"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type        string        `mapstructure:"type"` // "memory", "redis" or "bolt"
	RedisURL    string        `mapstructure:"redis_url"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	BoltPath    string        `mapstructure:"bolt_path"`
	TTL         time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds matcher defaults
type MatchingConfig struct {
	MinScore       int    `mapstructure:"min_score"`
	Language       string `mapstructure:"language"`
	VocabularyFile string `mapstructure:"vocabulary_file"`
	Debug          bool   `mapstructure:"debug"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client
	Store int `mapstructure:"store"`  // outbound store requests per second
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"` // empty uses the environment default
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/alkarama/")

	// ALKARAMA_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("ALKARAMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env if present.
// Variables already set in the environment are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Store defaults (json-server on its usual port)
	v.SetDefault("store.type", "http")
	v.SetDefault("store.base_url", "http://localhost:5000")
	v.SetDefault("store.db_path", "db.json")
	v.SetDefault("store.timeout", "10s")
	v.SetDefault("store.watch", true)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.redis_prefix", "alkarama:")
	v.SetDefault("cache.bolt_path", "alkarama-cache.db")
	v.SetDefault("cache.ttl", "30s")

	// Matching defaults
	v.SetDefault("matching.min_score", 1)
	v.SetDefault("matching.language", "en")
	v.SetDefault("matching.vocabulary_file", "")
	v.SetDefault("matching.debug", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.store", 20)

	v.SetDefault("logging.level", "")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("server environment must be 'development', 'production' or 'test', got: %s", config.Server.Environment)
	}

	switch config.Store.Type {
	case "http":
		if config.Store.BaseURL == "" {
			return fmt.Errorf("store base URL is required when store type is 'http'")
		}
	case "file":
		if config.Store.DBPath == "" {
			return fmt.Errorf("store db path is required when store type is 'file'")
		}
	default:
		return fmt.Errorf("store type must be 'http' or 'file', got: %s", config.Store.Type)
	}

	switch config.Cache.Type {
	case "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache type is 'redis'")
		}
	case "bolt":
		if config.Cache.BoltPath == "" {
			return fmt.Errorf("bolt path is required when cache type is 'bolt'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'bolt', got: %s", config.Cache.Type)
	}

	if config.Matching.MinScore < 0 {
		return fmt.Errorf("matching min score must not be negative, got: %d", config.Matching.MinScore)
	}

	if config.Matching.Language != "en" && config.Matching.Language != "ar" {
		return fmt.Errorf("matching language must be 'en' or 'ar', got: %s", config.Matching.Language)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Store < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}
