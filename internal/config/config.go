package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// PathsConfig contains the file system layout: where archive files land and
// where result tables are written.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutDir  string `yaml:"out_dir" envconfig:"OUT_DIR" validate:"required"`
}

// FetchConfig paces archive retrieval.
type FetchConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Concurrency       int           `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"gte=1,lte=32"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Paths: PathsConfig{
			DataDir: "nhanes_data",
			OutDir:  "national_stats",
		},
		Fetch: FetchConfig{
			RequestsPerSecond: 2,
			Concurrency:       4,
			Timeout:           5 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then an optional YAML file,
// then NHANES_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("NHANES", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints via struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// ResolvedDataDir returns the data directory, made absolute against the
// working directory when configured relative.
func (c *Config) ResolvedDataDir() string { return resolve(c.Paths.DataDir) }

// ResolvedOutDir returns the output directory, made absolute against the
// working directory when configured relative.
func (c *Config) ResolvedOutDir() string { return resolve(c.Paths.OutDir) }

func resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile looks for a config file in common locations.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
