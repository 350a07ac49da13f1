package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/joho/godotenv"
)

// DefaultCORSOrigins are the local dashboard origins. Credentials are only
// sent to explicitly listed origins.
const DefaultCORSOrigins = "http://localhost:5173,http://localhost:8080"

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Leave    LeaveConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Path string
}

// LeaveConfig holds the engine's tunable rules
type LeaveConfig struct {
	LWPWarnOnly        bool
	CasualBackdateDays int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", DefaultCORSOrigins),
	}

	config.Database = DatabaseConfig{
		Path: getEnv("DB_PATH", "leave.db"),
	}

	warnOnly, err := strconv.ParseBool(getEnv("LEAVE_LWP_WARN_ONLY", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_LWP_WARN_ONLY: %w", err)
	}
	backdate, err := strconv.Atoi(getEnv("LEAVE_CL_BACKDATE_DAYS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_CL_BACKDATE_DAYS: %w", err)
	}
	config.Leave = LeaveConfig{
		LWPWarnOnly:        warnOnly,
		CasualBackdateDays: backdate,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT %d out of range", c.App.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Leave.CasualBackdateDays < 0 {
		return fmt.Errorf("LEAVE_CL_BACKDATE_DAYS must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// LeaveOptions maps the leave settings onto the validator options.
func (c *Config) LeaveOptions() leave.Options {
	return leave.Options{
		CasualBackdateDays: c.Leave.CasualBackdateDays,
		LWPWarnOnly:        c.Leave.LWPWarnOnly,
	}
}

// SlogLevel parses LOG_LEVEL.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid LOG_LEVEL %q", c.App.LogLevel)
	}
	return level, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
