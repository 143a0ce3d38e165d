// Package config loads runtime settings from the environment (optionally seeded
// from a .env file) and holds the service-wide constants.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting read at startup.
type Config struct {
	Env      string
	HTTPAddr string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTIssuer string

	RabbitMQURL string

	TelegramBotToken    string
	TelegramAlertChatID int64

	// ReportTransitions is "free" (any status to any status) or "forward".
	ReportTransitions string
}

const devSecret = "dev-only-insecure-secret"

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARN: no .env file loaded, using process environment")
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8000"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", "brgyalert"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "brgyalert"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTIssuer:         getEnv("JWT_ISSUER", DefaultIssuer),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		ReportTransitions: strings.ToLower(getEnv("REPORT_TRANSITIONS", "free")),
	}

	defaultPort := "5432"
	if cfg.DBDriver == "mysql" {
		defaultPort = "3306"
	}
	cfg.DBPort = getEnv("DB_PORT", defaultPort)

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if raw := getEnv("TELEGRAM_ALERT_CHAT_ID", ""); raw != "" {
		if cfg.TelegramAlertChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALERT_CHAT_ID: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or mysql, got %q", c.DBDriver)
	}
	switch c.ReportTransitions {
	case "free", "forward":
	default:
		return fmt.Errorf("REPORT_TRANSITIONS must be free or forward, got %q", c.ReportTransitions)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required")
		}
		log.Println("WARN: JWT_SECRET not set, using development secret")
		c.JWTSecret = devSecret
	}
	return nil
}

// IsProduction reports whether the service runs outside local development.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the driver-specific connection string.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
