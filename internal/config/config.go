// Package config loads runtime configuration from the environment and holds
// the domain limits shared by the services.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-complaintdesk-secret"

// Config holds application configuration.
type Config struct {
	Port  string
	Debug bool

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	TokenTTL  time.Duration
	OTPExpiry time.Duration

	MailDriver     string
	MailHost       string
	MailPort       string
	MailUsername   string
	MailPassword   string
	MailFrom       string
	MailFromName   string
	SendGridAPIKey string

	StorageDisk    string
	StorageRoot    string
	S3Bucket       string
	AWSRegion      string
	AWSEndpointURL string

	TokenPruneSchedule string
}

// Load reads the .env file if present and builds a Config from the
// environment, falling back to development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:  getEnv("APP_PORT", "8080"),
		Debug: getEnvBool("APP_DEBUG", false),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "complaints"),
		DBPath:     getEnv("DB_PATH", "complaints.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		OTPExpiry: time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", int(DefaultOTPExpiry/time.Minute))) * time.Minute,

		MailDriver:     strings.ToLower(getEnv("MAIL_DRIVER", "log")),
		MailHost:       getEnv("MAIL_HOST", "smtp.gmail.com"),
		MailPort:       getEnv("MAIL_PORT", "587"),
		MailUsername:   getEnv("MAIL_USERNAME", ""),
		MailPassword:   getEnv("MAIL_PASSWORD", ""),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@complaintdesk.local"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "Complaint Desk"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		StorageDisk:    strings.ToLower(getEnv("STORAGE_DISK", "local")),
		StorageRoot:    getEnv("STORAGE_ROOT", "storage/app"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),

		TokenPruneSchedule: getEnv("TOKEN_PRUNE_SCHEDULE", "@hourly"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("WARNING: using default JWT_SECRET, set it in your environment")
	}
	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("WARNING: invalid integer for %s: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("WARNING: invalid boolean for %s: %v", key, err)
		return defaultValue
	}
	return b
}
