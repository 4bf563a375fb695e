// Package config loads application configuration from environment
// variables, with a .env file picked up in development via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	httpiface "github.com/studymind/studymind-server/internal/interface/http"

	"github.com/studymind/studymind-server/internal/infrastructure/external/gemini"
	"github.com/studymind/studymind-server/internal/infrastructure/persistence/postgres"
	"github.com/studymind/studymind-server/internal/infrastructure/persistence/redis"
	"github.com/studymind/studymind-server/internal/infrastructure/scheduler"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIG
// ══════════════════════════════════════════════════════════════════════════════

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Database  postgres.Config
	Redis     redis.Config
	Gemini    GeminiConfig
	HTTP      httpiface.Config
	Scheduler SchedulerConfig
	Log       LogConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Version     string

	// Timezone for reminder scheduling.
	Timezone string
	Location *time.Location

	ShutdownTimeout time.Duration
}

// GeminiConfig holds the AI provider settings.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	VisionModel     string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
}

// SchedulerConfig holds background job settings.
type SchedulerConfig struct {
	Enabled           bool
	DeadlineCheckTime string
	JobTimeout        time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// ══════════════════════════════════════════════════════════════════════════════
// LOADING
// ══════════════════════════════════════════════════════════════════════════════

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:       loadAppConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Gemini:    loadGeminiConfig(),
		HTTP:      loadHTTPConfig(),
		Scheduler: loadSchedulerConfig(),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	timezone := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "studymind-server"),
		Environment:     Environment(getEnv("APP_ENV", "development")),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadDatabaseConfig() postgres.Config {
	cfg := postgres.DefaultConfig()
	cfg.Host = getEnv("DB_HOST", "localhost")
	cfg.Port = getEnvInt("DB_PORT", cfg.Port)
	cfg.Database = getEnv("DB_NAME", cfg.Database)
	cfg.User = getEnv("DB_USER", cfg.User)
	cfg.Password = getEnv("DB_PASSWORD", "")
	cfg.SSLMode = getEnv("DB_SSLMODE", cfg.SSLMode)
	cfg.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(cfg.MaxConns)))
	cfg.MinConns = int32(getEnvInt("DB_MIN_CONNS", int(cfg.MinConns)))
	cfg.MaxConnLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", cfg.MaxConnLifetime)
	cfg.MaxConnIdleTime = getEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.MaxConnIdleTime)
	cfg.ConnectTimeout = getEnvDuration("DB_CONNECT_TIMEOUT", cfg.ConnectTimeout)
	return cfg
}

func loadRedisConfig() redis.Config {
	cfg := redis.DefaultConfig()
	cfg.Host = getEnv("REDIS_HOST", cfg.Host)
	cfg.Port = getEnvInt("REDIS_PORT", cfg.Port)
	cfg.Password = getEnv("REDIS_PASSWORD", "")
	cfg.DB = getEnvInt("REDIS_DB", cfg.DB)
	cfg.PoolSize = getEnvInt("REDIS_POOL_SIZE", cfg.PoolSize)
	cfg.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", cfg.MinIdleConns)
	cfg.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", cfg.DialTimeout)
	cfg.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", cfg.WriteTimeout)
	return cfg
}

func loadGeminiConfig() GeminiConfig {
	defaults := gemini.DefaultClientConfig("")
	return GeminiConfig{
		APIKey:          getEnv("GEMINI_API_KEY", ""),
		BaseURL:         getEnv("GEMINI_BASE_URL", defaults.BaseURL),
		Model:           getEnv("GEMINI_MODEL", defaults.Model),
		VisionModel:     getEnv("GEMINI_VISION_MODEL", defaults.VisionModel),
		Timeout:         getEnvDuration("GEMINI_TIMEOUT", defaults.Timeout),
		Temperature:     getEnvFloat("GEMINI_TEMPERATURE", defaults.Temperature),
		MaxOutputTokens: getEnvInt("GEMINI_MAX_OUTPUT_TOKENS", defaults.MaxOutputTokens),
	}
}

func loadHTTPConfig() httpiface.Config {
	cfg := httpiface.DefaultConfig()
	cfg.Host = getEnv("HTTP_HOST", cfg.Host)
	cfg.Port = getEnvInt("HTTP_PORT", cfg.Port)
	cfg.ReadTimeout = getEnvDuration("HTTP_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvDuration("HTTP_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.EnableCORS = getEnvBool("HTTP_ENABLE_CORS", cfg.EnableCORS)
	cfg.AllowedOrigins = getEnvSlice("HTTP_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.RateLimitPerMinute = getEnvInt("HTTP_RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	return cfg
}

func loadSchedulerConfig() SchedulerConfig {
	defaults := scheduler.DefaultConfig()
	return SchedulerConfig{
		Enabled:           getEnvBool("SCHEDULER_ENABLED", true),
		DeadlineCheckTime: getEnv("SCHEDULER_DEADLINE_CHECK_TIME", defaults.DeadlineCheckTime),
		JobTimeout:        getEnvDuration("SCHEDULER_JOB_TIMEOUT", defaults.JobTimeout),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Gemini.APIKey == "" && c.IsProduction() {
		errs = append(errs, "GEMINI_API_KEY is required in production")
	}
	if c.Database.Host == "" {
		errs = append(errs, "DB_HOST is required")
	}
	if _, err := time.Parse("15:04", c.Scheduler.DeadlineCheckTime); err != nil {
		errs = append(errs, "SCHEDULER_DEADLINE_CHECK_TIME must be HH:MM")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvSlice(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
