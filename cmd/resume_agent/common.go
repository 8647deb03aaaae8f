package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-profile/internal/config"
	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/types"
)

// loadConfigFile loads and validates a config file. An empty path yields an
// empty config so flag and environment values apply.
func loadConfigFile(path string, verbose bool) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("[VERBOSE] Loaded config from: %s\n", path)
	}
	return cfg, nil
}

// resolveAPIKey picks the flag value, then the config file, then GEMINI_API_KEY.
func resolveAPIKey(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.APIKey != "" {
		return cfg.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// resolveDatabaseURL picks the flag value, then the config file, then DATABASE_URL.
func resolveDatabaseURL(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return os.Getenv("DATABASE_URL")
}

// newLLMClient creates the AI client with any model overrides from cfg.
func newLLMClient(ctx context.Context, apiKey string, cfg *config.Config) (llm.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	llmCfg := llm.DefaultConfig()
	if cfg != nil {
		var err error
		llmCfg, err = cfg.LLMConfig()
		if err != nil {
			return nil, err
		}
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// connectDatabase opens the profile database and makes sure its tables exist.
func connectDatabase(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare database schema: %w", err)
	}
	return database, nil
}

// readProfileFile loads a core profile JSON file, validating it against the
// core profile schema first.
func readProfileFile(path string) (*types.CoreProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := schemas.ValidateCoreProfile(string(data)); err != nil {
		return nil, fmt.Errorf("profile %s is invalid: %w", path, err)
	}

	var profile types.CoreProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	profile.Normalize()
	return &profile, nil
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return writeOutputFile(path, data)
}

// writeOutputFile writes data to path, creating parent directories.
func writeOutputFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// readTextArg returns value itself, or the contents of the file it names
// when it starts with "@".
func readTextArg(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(value, "@"))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.TrimPrefix(value, "@"), err)
	}
	return string(data), nil
}
