package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v2"

	"invoicer/internal/logger"
)

// Store kinds understood by store.Open.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Config struct {
	// Storage Configuration
	Store       string `yaml:"store"`
	DataDir     string `yaml:"data_dir"`
	DSN         string `yaml:"dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	RedisPrefix string `yaml:"redis_prefix"`

	// Invoice Defaults
	Currency        string `yaml:"currency"`
	DefaultTemplate string `yaml:"default_template"`
	DueDays         int    `yaml:"due_days"`
	DefaultTerms    string `yaml:"default_terms"`

	// Logging Configuration
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	LogTimeFormat string `yaml:"log_time_format"`
	LogOutput     string `yaml:"log_output"`
}

// Default returns the built-in configuration before file and environment overrides.
func Default() *Config {
	return &Config{
		Store:           StoreFile,
		DataDir:         defaultDataDir(),
		RedisPrefix:     "invoicer:",
		Currency:        "USD",
		DefaultTemplate: "professional",
		DueDays:         14,
		DefaultTerms:    "Payment due within 14 days",
		LogLevel:        "warn",
		LogFormat:       "console",
		LogTimeFormat:   "2006-01-02T15:04:05Z07:00",
		LogOutput:       "stderr",
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// INVOICER_CONFIG, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("INVOICER_CONFIG"); path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	config.Store = getEnv("INVOICER_STORE", config.Store)
	config.DataDir = getEnv("INVOICER_DATA_DIR", config.DataDir)
	config.DSN = getEnv("INVOICER_DSN", config.DSN)
	config.RedisAddr = getEnv("INVOICER_REDIS_ADDR", config.RedisAddr)
	config.RedisPrefix = getEnv("INVOICER_REDIS_PREFIX", config.RedisPrefix)
	config.Currency = getEnv("INVOICER_CURRENCY", config.Currency)
	config.DefaultTemplate = getEnv("INVOICER_DEFAULT_TEMPLATE", config.DefaultTemplate)
	config.DefaultTerms = getEnv("INVOICER_DEFAULT_TERMS", config.DefaultTerms)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)
	config.LogFormat = getEnv("LOG_FORMAT", config.LogFormat)
	config.LogTimeFormat = getEnv("LOG_TIME_FORMAT", config.LogTimeFormat)
	config.LogOutput = getEnv("LOG_OUTPUT", config.LogOutput)

	var err error
	if config.RedisDB, err = getEnvInt("INVOICER_REDIS_DB", config.RedisDB); err != nil {
		return nil, err
	}
	if config.DueDays, err = getEnvInt("INVOICER_DUE_DAYS", config.DueDays); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the store selection and invoice defaults.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("INVOICER_DATA_DIR is required for the file store")
		}
	case StoreSQLite:
		if c.DSN == "" && c.DataDir == "" {
			return fmt.Errorf("INVOICER_DSN or INVOICER_DATA_DIR is required for the sqlite store")
		}
	case StorePostgres:
		if c.DSN == "" {
			return fmt.Errorf("INVOICER_DSN is required for the postgres store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("INVOICER_REDIS_ADDR is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.DueDays <= 0 {
		return fmt.Errorf("INVOICER_DUE_DAYS must be positive, got %d", c.DueDays)
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite store.
func (c *Config) SQLitePath() string {
	if c.DSN != "" {
		return c.DSN
	}
	return filepath.Join(c.DataDir, "invoicer.db")
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".invoicer"
	}
	return filepath.Join(home, ".invoicer")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
