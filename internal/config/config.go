package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	S3         S3Config
	Classifier ClassifierConfig
	Embedding  EmbeddingConfig
	Parser     ParserConfig
	Prediction PredictionConfig
	Sentry     SentryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT verification configuration. Token issuance lives in the
// external auth service; this process only verifies bearer tokens to resolve
// the userId each endpoint needs.
type JWTConfig struct {
	AccessSecret string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// SentryConfig configures error tracking. DSN empty disables reporting.
type SentryConfig struct {
	DSN         string
	Environment string
}

// S3Config holds S3 storage configuration, used to archive the original
// bytes of each uploaded resume file.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// ClassifierConfig configures the candidate-strength classifier bridge.
type ClassifierConfig struct {
	ModelPath string
	TimeoutMS int
}

// EmbeddingConfig configures the sentence-embedding worker bridge.
type EmbeddingConfig struct {
	ModelID       string
	TimeoutMS     int
	CacheDisabled bool
}

// ParserConfig configures the resume-parser subprocess bridge.
type ParserConfig struct {
	Path      string
	TimeoutMS int
}

// PredictionConfig bounds concurrent predict requests.
type PredictionConfig struct {
	PoolSize       int
	QueueTimeoutMS int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "shortlist"),
			Password:        getEnv("DB_PASSWORD", "shortlist"),
			DBName:          getEnv("DB_NAME", "shortlist"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "eu-central"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		Classifier: ClassifierConfig{
			ModelPath: getEnv("CLASSIFIER_MODEL_PATH", ""),
			TimeoutMS: getEnvAsInt("PREDICTION_TIMEOUT_MS", 30000),
		},
		Embedding: EmbeddingConfig{
			ModelID:       getEnv("EMBEDDING_MODEL_ID", ""),
			TimeoutMS:     getEnvAsInt("EMBEDDING_TIMEOUT_MS", 15000),
			CacheDisabled: getEnvAsBool("EMBEDDING_CACHE_DISABLED", false),
		},
		Parser: ParserConfig{
			Path:      getEnv("RESUME_PARSER_PATH", ""),
			TimeoutMS: getEnvAsInt("PARSER_TIMEOUT_MS", 30000),
		},
		Prediction: PredictionConfig{
			PoolSize:       getEnvAsInt("PREDICTION_POOL_SIZE", 6),
			QueueTimeoutMS: getEnvAsInt("PREDICTION_QUEUE_TIMEOUT_MS", 2000),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SERVER_ENV", "development"),
		},
	}

	if cfg.JWT.AccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
