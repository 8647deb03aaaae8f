// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/storage"
	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults and FromEnv.
const (
	DefaultPort           = 8080
	DefaultConcurrency    = 4
	DefaultMaxUploadBytes = 10 << 20
	DefaultBucket         = "resumes"
)

// Config represents the configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or the environment.
type Config struct {
	// AI service
	APIKey string            `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	Models map[string]string `json:"models,omitempty" yaml:"models,omitempty"`   // Model override per tier (lite, standard, advanced)

	// Pipeline
	Concurrency int  `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // Documents processed in parallel
	Offline     bool `json:"offline,omitempty" yaml:"offline,omitempty"`         // Build profiles without the AI service
	Verbose     bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`         // Print detailed debug information

	// Persistence
	DatabaseURL string              `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	MinIO       storage.MinIOConfig `json:"minio,omitempty" yaml:"minio,omitempty"`               // Upload archive

	// Server
	Port           int   `json:"port,omitempty" yaml:"port,omitempty"`
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file. The format is
// chosen by extension: .yaml and .yml are YAML, anything else is JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv builds a configuration from environment variables. Unset
// variables leave fields at their zero value; unparsable numbers are errors.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MinIO: storage.MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
		},
	}

	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config error: MINIO_USE_SSL: %w", err)
		}
		cfg.MinIO.UseSSL = b
	}
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: PORT: %w", err)
		}
		cfg.Port = n
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config error: MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("AI_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config error: AI_CONCURRENCY: %w", err)
		}
		cfg.Concurrency = n
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	for tier := range c.Models {
		if _, err := llm.ParseTier(tier); err != nil {
			return fmt.Errorf("config error: 'models': %w", err)
		}
	}
	if c.MinIO.Enabled() && (c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "") {
		return fmt.Errorf("config error: 'minio' requires access_key and secret_key when endpoint is set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the package defaults for numeric limits.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MinIO.Endpoint == "" {
		result.MinIO = defaults.MinIO
	}
	if result.MinIO.Bucket == "" {
		result.MinIO.Bucket = DefaultBucket
	}

	// Model overrides: file values win per tier
	if len(defaults.Models) > 0 {
		merged := make(map[string]string, len(defaults.Models)+len(result.Models))
		for k, v := range defaults.Models {
			merged[k] = v
		}
		for k, v := range result.Models {
			merged[k] = v
		}
		result.Models = merged
	}

	// Int fields: use default if zero
	result.Concurrency = firstPositive(result.Concurrency, defaults.Concurrency, DefaultConcurrency)
	result.Port = firstPositive(result.Port, defaults.Port, DefaultPort)
	result.MaxUploadBytes = int64(firstPositive(int(result.MaxUploadBytes), int(defaults.MaxUploadBytes), DefaultMaxUploadBytes))

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig returns the model configuration with the file's overrides applied.
func (c *Config) LLMConfig() (*llm.Config, error) {
	return llm.DefaultConfig().WithOverrides(c.Models)
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
