package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Compliance   ComplianceConfig
	Notification NotificationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// ComplianceConfig tunes the compliance engine and its daily job.
type ComplianceConfig struct {
	Timezone     string
	Location     *time.Location
	ReadTimeout  time.Duration
	Workers      int
	RunHour      int
	LookbackDays int
	Locale       string
	RulesFile    string
}

// NotificationConfig sizes the alarm notification workers.
type NotificationConfig struct {
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
	SSEBuffer     int
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	config := &Config{}
	var errs []error

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, &errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25, &errs)),
	}

	// Application configuration
	config.App = AppConfig{
		Port:           getEnvInt("APP_PORT", 8080, &errs),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour, &errs),
	}

	// Compliance configuration
	config.Compliance = ComplianceConfig{
		Timezone:     getEnv("COMPLIANCE_TIMEZONE", "UTC"),
		ReadTimeout:  getEnvDuration("COMPLIANCE_READ_TIMEOUT", 10*time.Second, &errs),
		Workers:      getEnvInt("COMPLIANCE_WORKERS", 4, &errs),
		RunHour:      getEnvInt("COMPLIANCE_RUN_HOUR", 2, &errs),
		LookbackDays: getEnvInt("COMPLIANCE_LOOKBACK_DAYS", 7, &errs),
		Locale:       getEnv("COMPLIANCE_LOCALE", "en"),
		RulesFile:    getEnv("COMPLIANCE_RULES_FILE", ""),
	}
	loc, err := time.LoadLocation(config.Compliance.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid COMPLIANCE_TIMEZONE: %w", err))
	}
	config.Compliance.Location = loc

	// Notification configuration
	config.Notification = NotificationConfig{
		Workers:       getEnvInt("NOTIFICATION_WORKERS", 2, &errs),
		BatchSize:     getEnvInt("NOTIFICATION_BATCH_SIZE", 100, &errs),
		FlushInterval: getEnvDuration("NOTIFICATION_FLUSH_INTERVAL", 5*time.Second, &errs),
		SSEBuffer:     getEnvInt("SSE_BUFFER_SIZE", 10, &errs),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Compliance.RunHour < 0 || c.Compliance.RunHour > 23 {
		return fmt.Errorf("COMPLIANCE_RUN_HOUR must be between 0 and 23")
	}
	if c.Compliance.LookbackDays < 1 {
		return fmt.Errorf("COMPLIANCE_LOOKBACK_DAYS must be at least 1")
	}
	if c.Compliance.Workers < 1 {
		return fmt.Errorf("COMPLIANCE_WORKERS must be at least 1")
	}
	return nil
}

// ValidateServer adds the checks only the HTTP service needs.
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
