package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Ledger   LedgerConfig
	Lock     LockConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	Version        string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// LedgerConfig holds the attendance rules
type LedgerConfig struct {
	Policy                string
	ExpectedDailyMinutes  int
	FridayExpectedMinutes int
	WeeklyCapHours        int
	YearlyCapHours        int
	ReportWindowDays      int
	ContestMinLength      int
}

type LockConfig struct {
	Backend       string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		Version:        getEnv("APP_VERSION", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Ledger configuration
	dailyMinutes, err := getEnvInt("LEDGER_EXPECTED_DAILY_MINUTES", 480)
	if err != nil {
		return nil, err
	}
	fridayMinutes, err := getEnvInt("LEDGER_FRIDAY_EXPECTED_MINUTES", dailyMinutes)
	if err != nil {
		return nil, err
	}
	weeklyCap, err := getEnvInt("LEDGER_WEEKLY_CAP_HOURS", 40)
	if err != nil {
		return nil, err
	}
	yearlyCap, err := getEnvInt("LEDGER_YEARLY_CAP_HOURS", 80)
	if err != nil {
		return nil, err
	}
	windowDays, err := getEnvInt("LEDGER_REPORT_WINDOW_DAYS", 5)
	if err != nil {
		return nil, err
	}
	contestMin, err := getEnvInt("LEDGER_CONTEST_MIN_LENGTH", 10)
	if err != nil {
		return nil, err
	}

	config.Ledger = LedgerConfig{
		Policy:                getEnv("LEDGER_DUPLICATE_CLOCK_IN_POLICY", "permissive"),
		ExpectedDailyMinutes:  dailyMinutes,
		FridayExpectedMinutes: fridayMinutes,
		WeeklyCapHours:        weeklyCap,
		YearlyCapHours:        yearlyCap,
		ReportWindowDays:      windowDays,
		ContestMinLength:      contestMin,
	}

	// Lock configuration
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	lockTTL, err := time.ParseDuration(getEnv("LOCK_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_TTL: %w", err)
	}

	config.Lock = LockConfig{
		Backend:       getEnv("LOCK_BACKEND", "local"),
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		TTL:           lockTTL,
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
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Ledger.Policy != "permissive" && c.Ledger.Policy != "strict" {
		return fmt.Errorf("LEDGER_DUPLICATE_CLOCK_IN_POLICY must be permissive or strict")
	}
	if c.Ledger.ExpectedDailyMinutes <= 0 || c.Ledger.FridayExpectedMinutes <= 0 {
		return fmt.Errorf("expected working minutes must be positive")
	}
	if c.Ledger.WeeklyCapHours <= 0 || c.Ledger.YearlyCapHours <= 0 {
		return fmt.Errorf("overtime caps must be positive")
	}
	if c.Ledger.ReportWindowDays < 1 || c.Ledger.ReportWindowDays > 28 {
		return fmt.Errorf("LEDGER_REPORT_WINDOW_DAYS must be between 1 and 28")
	}
	switch c.Lock.Backend {
	case "local":
	case "redis":
		if c.Lock.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis lock backend")
		}
	default:
		return fmt.Errorf("unsupported LOCK_BACKEND: %s", c.Lock.Backend)
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

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
