// Package config loads application configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Redis (trade-log change notifications)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Pipeline (external trading backend → API)
	PipelineAPIKey string

	// Brokerage
	BrokerageTimeout time.Duration
}

var appConfig *Config

// Load reads configuration from environment variables, falling back to
// development defaults. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tradepilot"),
		DBPassword: getEnv("DB_PASSWORD", "tradepilot"),
		DBName:     getEnv("DB_NAME", "tradepilot"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),
	}

	redisDBStr := getEnv("REDIS_DB", "0")
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		log.Printf("Warning: invalid REDIS_DB value '%s', falling back to 0\n", redisDBStr)
		redisDB = 0
	}
	config.RedisDB = redisDB

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	timeoutStr := getEnv("BROKERAGE_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid BROKERAGE_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = 30 * time.Second
	}
	config.BrokerageTimeout = timeout

	appConfig = config
	return config, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
