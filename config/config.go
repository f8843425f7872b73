package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	Uploads   UploadsConfig
	RateLimit RateLimitConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
	// Origins allowed by the CORS middleware. Comma-separated in env.
	AllowedOrigin string
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	// AdminEmails lists provider accounts allowed to become admins.
	AdminEmails string
}

type UploadsConfig struct {
	S3Bucket  string
	S3Region  string
	PublicURL string
}

// RateLimitConfig carries one window/limit pair per traffic class.
type RateLimitConfig struct {
	General WindowConfig
	Admin   WindowConfig
	Contact WindowConfig
	Upload  WindowConfig
}

type WindowConfig struct {
	Window      time.Duration
	MaxRequests int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	GitHubToken string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			AdminEmails:     getEnv("ADMIN_EMAILS", ""),
		},
		Uploads: UploadsConfig{
			S3Bucket:  getEnv("UPLOADS_S3_BUCKET", ""),
			S3Region:  getEnv("UPLOADS_S3_REGION", "us-east-1"),
			PublicURL: getEnv("UPLOADS_PUBLIC_URL", ""),
		},
		RateLimit: RateLimitConfig{
			General: WindowConfig{
				Window:      getEnvAsDuration("RATE_GENERAL_WINDOW", time.Minute),
				MaxRequests: getEnvAsInt("RATE_GENERAL_MAX", 100),
			},
			Admin: WindowConfig{
				Window:      getEnvAsDuration("RATE_ADMIN_WINDOW", time.Minute),
				MaxRequests: getEnvAsInt("RATE_ADMIN_MAX", 200),
			},
			Contact: WindowConfig{
				Window:      getEnvAsDuration("RATE_CONTACT_WINDOW", 15*time.Minute),
				MaxRequests: getEnvAsInt("RATE_CONTACT_MAX", 3),
			},
			Upload: WindowConfig{
				Window:      getEnvAsDuration("RATE_UPLOAD_WINDOW", time.Minute),
				MaxRequests: getEnvAsInt("RATE_UPLOAD_MAX", 10),
			},
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			GitHubToken: getEnv("GITHUB_TOKEN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	for _, w := range []WindowConfig{
		c.RateLimit.General, c.RateLimit.Admin, c.RateLimit.Contact, c.RateLimit.Upload,
	} {
		if w.Window <= 0 || w.MaxRequests <= 0 {
			return fmt.Errorf("rate limit windows and maximums must be positive")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
