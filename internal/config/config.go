package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string // listen address, e.g. ":8008"
	GinMode string // debug, release or test
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver   string        // json, sqlite, postgres or redis
	DataDir  string        // directory for the json driver
	DSN      string        // file path (sqlite) or connection string (postgres)
	CacheTTL time.Duration // List snapshot cache; 0 disables it
}

// RedisConfig contains settings for the redis driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig enables change-event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}

	addr := getEnv("ADDR", "")
	if addr == "" {
		addr = ":" + getEnv("PORT", "8008")
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: addr,
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", DriverJSON)),
			DataDir:  getEnv("DATA_DIR", "data"),
			DSN:      getEnv("DB_DSN", "werkzeugverwaltung.db"),
			CacheTTL: cacheTTL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "werkzeugverwaltung.changes"),
		},
	}

	switch cfg.Store.Driver {
	case DriverJSON, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want json, sqlite, postgres or redis)", cfg.Store.Driver)
	}
	if cfg.Store.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative")
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	redisPass := ""
	if c.Redis.Password != "" {
		redisPass = "***"
	}
	dsn := c.Store.DSN
	if c.Store.Driver == DriverPostgres {
		dsn = "*** (masked) ***"
	}
	return fmt.Sprintf("Config{Addr: %s, Store: %s, DataDir: %s, DSN: %s, CacheTTL: %s, Redis: %s/%d pass=%q, Kafka: %v}",
		c.Server.Address, c.Store.Driver, c.Store.DataDir, dsn, c.Store.CacheTTL,
		c.Redis.Addr, c.Redis.DB, redisPass, c.Kafka.Brokers)
}
