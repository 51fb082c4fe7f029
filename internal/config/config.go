// Package config provides configuration management for the showfmt tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when none is given and it exists.
const DefaultPath = "configs/showfmt.yaml"

// Environment overrides.
const (
	EnvLogLevel    = "SHOWFMT_LOG_LEVEL"
	EnvWorkers     = "SHOWFMT_WORKERS"
	EnvStrictDates = "SHOWFMT_STRICT_DATES"
)

// Configuration validation errors.
var (
	ErrMissingGenerator   = errors.New("normalizer.generator is required")
	ErrMissingCountry     = errors.New("normalizer.default_country is required")
	ErrInvalidWorkers     = errors.New("batch.workers must be at least 1")
	ErrInvalidExtension   = errors.New("batch.extension must start with '.'")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidEnvironment = errors.New("invalid environment override")
)

// Config represents the complete showfmt configuration.
type Config struct {
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Batch      BatchConfig      `yaml:"batch"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// NormalizerConfig controls the single-document pipeline.
type NormalizerConfig struct {
	Generator      string `yaml:"generator"`
	DefaultCountry string `yaml:"default_country"`
	StrictDates    bool   `yaml:"strict_dates"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Extension  string `yaml:"extension"`
	Workers    int    `yaml:"workers"`
	SkipHidden bool   `yaml:"skip_hidden"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	SkipUnchanged bool `yaml:"skip_unchanged"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Normalizer: NormalizerConfig{
			Generator:      "showfmt",
			DefaultCountry: "USA",
		},
		Batch: BatchConfig{
			Extension: ".json",
			Workers:   runtime.GOMAXPROCS(0),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file keep
// their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load returns the config at path. An empty path selects DefaultPath when that file
// exists, and the defaults otherwise.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return LoadConfig(DefaultPath)
	}

	return Default(), nil
}

// ApplyEnv loads the given dotenv files, skipping any that do not exist, then applies
// the SHOWFMT_* overrides. Variables already set in the process environment win over
// dotenv values.
func (c *Config) ApplyEnv(files ...string) error {
	var existing []string

	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}

	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if level, ok := os.LookupEnv(EnvLogLevel); ok && level != "" {
		c.Logging.Level = strings.ToLower(level)
	}

	if workers, ok := os.LookupEnv(EnvWorkers); ok && workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvironment, EnvWorkers, workers)
		}

		c.Batch.Workers = n
	}

	if strict, ok := os.LookupEnv(EnvStrictDates); ok && strict != "" {
		b, err := strconv.ParseBool(strict)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvironment, EnvStrictDates, strict)
		}

		c.Normalizer.StrictDates = b
	}

	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Normalizer.Generator) == "" {
		return ErrMissingGenerator
	}

	if strings.TrimSpace(c.Normalizer.DefaultCountry) == "" {
		return ErrMissingCountry
	}

	if c.Batch.Workers < 1 {
		return ErrInvalidWorkers
	}

	if !strings.HasPrefix(c.Batch.Extension, ".") {
		return ErrInvalidExtension
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Generator: %s, Workers: %d, StrictDates: %t, Level: %s}",
		c.Normalizer.Generator,
		c.Batch.Workers,
		c.Normalizer.StrictDates,
		c.Logging.Level,
	)
}
