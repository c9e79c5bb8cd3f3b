package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Blob     BlobConfig
	DocAI    DocAIConfig
	Oracle   OracleConfig
	Pipeline PipelineConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// BlobConfig locates the document blob store.
type BlobConfig struct {
	RawBucket string // bucket (or root directory for the filesystem store)
}

// DocAIConfig holds the primary extraction service configuration
type DocAIConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// OracleConfig holds the structuring model configuration
type OracleConfig struct {
	Endpoint    string
	APIKey      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds worker-queue behavior
type PipelineConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Blob: BlobConfig{
			RawBucket: getEnv("RAW_BUCKET", "./data/raw"),
		},
		DocAI: DocAIConfig{
			Endpoint: getEnv("DOCAI_ENDPOINT", ""),
			APIKey:   getEnv("DOCAI_API_KEY", ""),
			Timeout:  getEnvAsDuration("DOCAI_TIMEOUT", 60*time.Second),
		},
		Oracle: OracleConfig{
			Endpoint:    getEnv("ORACLE_ENDPOINT", ""),
			APIKey:      getEnv("ORACLE_API_KEY", ""),
			ModelID:     getEnv("ORACLE_MODEL_ID", "eu.amazon.nova-micro-v1:0"),
			MaxTokens:   getEnvAsInt("ORACLE_MAX_TOKENS", 2000),
			Temperature: getEnvAsFloat32("ORACLE_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("ORACLE_TIMEOUT", 45*time.Second),
		},
		Pipeline: PipelineConfig{
			Workers:        getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:      getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("PIPELINE_PROCESS_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Oracle.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "ORACLE_ENDPOINT is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
