package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-profile/internal/config"
	"github.com/jonathan/resume-profile/internal/server"
	"github.com/jonathan/resume-profile/internal/storage"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for parsing résumés and managing profiles.

Settings come from the environment (DATABASE_URL, GEMINI_API_KEY, MINIO_*, RATE_LIMIT_*, PORT),
optionally overlaid on a config file. Without GEMINI_API_KEY the AI-backed endpoints answer 503.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := serveConfig()
	if err != nil {
		return err
	}

	database, err := connectDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	serverCfg := server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Concurrency:    cfg.Concurrency,
		Store:          database,
	}

	if cfg.MinIO.Enabled() {
		objects, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			database.Close()
			return fmt.Errorf("failed to connect to object storage: %w", err)
		}
		serverCfg.Storage = objects
	} else {
		log.Println("MINIO_ENDPOINT not set; uploaded files will not be archived")
	}

	if cfg.APIKey != "" {
		client, err := newLLMClient(ctx, cfg.APIKey, cfg)
		if err != nil {
			database.Close()
			return err
		}
		serverCfg.LLM = client
	} else {
		log.Println("GEMINI_API_KEY not set; AI-backed endpoints are disabled")
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		database.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serveConfig overlays the environment on the optional config file, then
// applies the --port flag and defaults.
func serveConfig() (*config.Config, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	file, err := loadConfigFile(serveConfigPath, false)
	if err != nil {
		return nil, err
	}

	merged := env.MergeWithDefaults(*file)
	if servePort != 0 {
		merged.Port = servePort
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if merged.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return &merged, nil
}
