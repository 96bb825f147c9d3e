package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NewRelic    NewRelicConfig
	JWT         JWTConfig
	TripRequest TripRequestConfig
	Search      SearchConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConnections int
	MaxIdleConns   int
	MigrationsPath string
	AutoMigrate    bool
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// TripRequestConfig controls the ephemeral trip-request cache
type TripRequestConfig struct {
	TTL           time.Duration
	DefaultRadius float64 // km
	DefaultLimit  int
}

// SearchConfig controls persistent driver proximity search
type SearchConfig struct {
	DefaultRadiusKM float64
	DefaultPageSize int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", "ride_hailing"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
			AutoMigrate:    getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 100),
			MinIdleConn: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 10),
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "RideHailing-Backend"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your_jwt_secret_key_here"),
			Expiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		},
		TripRequest: TripRequestConfig{
			TTL:           time.Duration(getEnvAsInt("TRIP_REQUEST_TTL_SECONDS", 300)) * time.Second,
			DefaultRadius: getEnvAsFloat64("TRIP_REQUEST_RADIUS_KM", 5.0),
			DefaultLimit:  getEnvAsInt("TRIP_REQUEST_NEARBY_LIMIT", 20),
		},
		Search: SearchConfig{
			DefaultRadiusKM: getEnvAsFloat64("DRIVER_SEARCH_RADIUS_KM", 2.0),
			DefaultPageSize: getEnvAsInt("DRIVER_SEARCH_PAGE_SIZE", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.TripRequest.TTL <= 0 {
		return fmt.Errorf("TRIP_REQUEST_TTL_SECONDS must be positive")
	}
	if c.JWT.Secret == "your_jwt_secret_key_here" && c.Server.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
