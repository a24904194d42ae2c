package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Fuabioo/zipread/internal/archive"
	"github.com/Fuabioo/zipread/internal/logger"
)

// Config holds global configuration for zipread.
type Config struct {
	Limits LimitsConfig `json:"limits" yaml:"limits"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// LimitsConfig holds the resource limits applied before extraction.
type LimitsConfig struct {
	MaxExtractedSizeBytes uint64  `json:"max_extracted_size_bytes" yaml:"max_extracted_size_bytes"`
	MaxFileCount          int     `json:"max_file_count" yaml:"max_file_count"`
	MaxCompressionRatio   float64 `json:"max_compression_ratio" yaml:"max_compression_ratio"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	limits := archive.DefaultLimits()
	return &Config{
		Limits: LimitsConfig{
			MaxExtractedSizeBytes: limits.MaxExtractedSize,
			MaxFileCount:          limits.MaxFileCount,
			MaxCompressionRatio:   limits.MaxCompressionRatio,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Dir returns the configuration directory.
// Checks ZIPREAD_CONFIG_DIR, then $XDG_CONFIG_HOME/zipread, then
// ~/.config/zipread.
func Dir() (string, error) {
	if dir := os.Getenv("ZIPREAD_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zipread"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zipread"), nil
}

// Load loads configuration from config.json or config.yaml in dir.
// Falls back to default configuration if neither exists.
// Environment variables override both file and default values.
func Load(dir string) (*Config, error) {
	cfg := DefaultConfig()

	loaded, err := loadFile(filepath.Join(dir, "config.json"), json.Unmarshal, cfg)
	if err != nil {
		return nil, err
	}
	if !loaded {
		for _, name := range []string{"config.yaml", "config.yml"} {
			loaded, err = loadFile(filepath.Join(dir, name), yaml.Unmarshal, cfg)
			if err != nil {
				return nil, err
			}
			if loaded {
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, unmarshal func([]byte, any) error, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if val, ok := os.LookupEnv("ZIPREAD_MAX_EXTRACTED_SIZE"); ok {
		parsed, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ZIPREAD_MAX_EXTRACTED_SIZE: %w", err)
		}
		cfg.Limits.MaxExtractedSizeBytes = parsed
	}

	if val, ok := os.LookupEnv("ZIPREAD_MAX_FILE_COUNT"); ok {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid ZIPREAD_MAX_FILE_COUNT: %w", err)
		}
		cfg.Limits.MaxFileCount = parsed
	}

	if val, ok := os.LookupEnv("ZIPREAD_MAX_COMPRESSION_RATIO"); ok {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid ZIPREAD_MAX_COMPRESSION_RATIO: %w", err)
		}
		cfg.Limits.MaxCompressionRatio = parsed
	}

	if val, ok := os.LookupEnv("ZIPREAD_LOG_LEVEL"); ok {
		cfg.Log.Level = val
	}

	return nil
}

// Validate checks limits and log settings.
func (c *Config) Validate() error {
	if c.Limits.MaxFileCount < 0 {
		return fmt.Errorf("max_file_count must be >= 0, got %d", c.Limits.MaxFileCount)
	}
	if c.Limits.MaxCompressionRatio < 0 {
		return fmt.Errorf("max_compression_ratio must be >= 0, got %g", c.Limits.MaxCompressionRatio)
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	if !logger.ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	// Commands and the MCP transport own stdout.
	if strings.EqualFold(c.Log.Output, "stdout") {
		return fmt.Errorf("log output %q is reserved for command output: use stderr or a file path", c.Log.Output)
	}
	return nil
}

// ArchiveOptions converts the config to archive.Options.
func (c *Config) ArchiveOptions() archive.Options {
	return archive.Options{
		Limits: archive.Limits{
			MaxExtractedSize:    c.Limits.MaxExtractedSizeBytes,
			MaxFileCount:        c.Limits.MaxFileCount,
			MaxCompressionRatio: c.Limits.MaxCompressionRatio,
		},
	}
}

// LoggerConfig converts the config to logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: c.Log.Output,
	}
}
