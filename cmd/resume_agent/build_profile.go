package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/config"
	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/jonathan/resume-profile/internal/pipeline"
	"github.com/spf13/cobra"
)

var buildProfileCmd = &cobra.Command{
	Use:   "build-profile",
	Short: "Build a core profile from one or more résumés",
	Long: `Extract, parse and reconcile one or more résumés into a single core profile.

Each document is parsed heuristically and then sent to the AI service for structured extraction.
With several documents, or with --existing, the extracted profiles are merged by the AI service.
--offline skips the AI service and converts the heuristic parse of a single document directly.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments
override config file values.`,
	RunE: runBuildProfile,
}

var (
	buildConfigPath  string
	buildInputs      []string
	buildExisting    string
	buildOutputFile  string
	buildOffline     bool
	buildConcurrency int
	buildAPIKey      string
	buildVerbose     bool
	buildSave        bool
	buildProfileID   string
	buildDatabaseURL string
)

func init() {
	buildProfileCmd.Flags().StringVar(&buildConfigPath, "config", "", "Path to a JSON or YAML config file")
	buildProfileCmd.Flags().StringArrayVarP(&buildInputs, "in", "i", nil, "Path to a résumé (.pdf, .docx, .txt or .md); repeat for several")
	buildProfileCmd.Flags().StringVar(&buildExisting, "existing", "", "Path to an existing core profile JSON to merge into")
	buildProfileCmd.Flags().StringVarP(&buildOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	buildProfileCmd.Flags().BoolVar(&buildOffline, "offline", false, "Skip the AI service and convert the heuristic parse directly")
	buildProfileCmd.Flags().IntVar(&buildConcurrency, "concurrency", 0, "Documents processed in parallel")
	buildProfileCmd.Flags().StringVar(&buildAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	buildProfileCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Print detailed debug information")
	buildProfileCmd.Flags().BoolVar(&buildSave, "save", false, "Save the profile and documents to the database")
	buildProfileCmd.Flags().StringVar(&buildProfileID, "profile-id", "", "Stored profile to merge into and update (implies --save)")
	buildProfileCmd.Flags().StringVar(&buildDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	_ = buildProfileCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(buildProfileCmd)
}

func runBuildProfile(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	cfg, err := loadConfigFile(buildConfigPath, buildVerbose)
	if err != nil {
		return err
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("offline") {
		cfg.Offline = buildOffline
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = buildVerbose
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = buildConcurrency
	}
	merged := cfg.MergeWithDefaults(config.Config{})
	cfg = &merged
	if err := cfg.Validate(); err != nil {
		return err
	}

	save := buildSave || buildProfileID != ""
	if save && buildExisting != "" {
		return fmt.Errorf("--existing cannot be combined with --save or --profile-id")
	}

	// Step 3: Read the documents
	docs, err := readDocuments(buildInputs)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Documents:   docs,
		Offline:     cfg.Offline,
		Concurrency: cfg.Concurrency,
		Verbose:     cfg.Verbose,
	}

	if buildExisting != "" {
		opts.Existing, err = readProfileFile(buildExisting)
		if err != nil {
			return err
		}
	}

	// Step 4: Connect to the database when results are persisted
	var (
		database *db.DB
		record   *db.ProfileRecord
	)
	if save {
		database, err = connectDatabase(ctx, resolveDatabaseURL(buildDatabaseURL, cfg))
		if err != nil {
			return err
		}
		defer database.Close()

		if buildProfileID != "" {
			record, err = loadStoredProfile(ctx, database, buildProfileID)
			if err != nil {
				return err
			}
			opts.Existing = &record.Profile
		}
	}

	// Step 5: AI client
	if !cfg.Offline {
		client, err := newLLMClient(ctx, resolveAPIKey(buildAPIKey, cfg), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts.Client = client
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintCoreProfile(result.Profile)
	}

	if save {
		record, err = saveBuildResult(ctx, database, record, result)
		if err != nil {
			return err
		}
		fmt.Printf("Saved profile %s\n", record.ID)
	}

	if err := writeJSON(buildOutputFile, result.Profile); err != nil {
		return err
	}
	if buildOutputFile != "" {
		fmt.Printf("Output: %s\n", buildOutputFile)
	}
	return nil
}

// readDocuments loads pipeline inputs. Plain-text files are passed as text;
// everything else is passed as raw bytes for text extraction.
func readDocuments(paths []string) ([]pipeline.Document, error) {
	if len(paths) == 0 {
		return nil, pipeline.ErrNoDocuments
	}

	docs := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		doc := pipeline.Document{Name: filepath.Base(path), Data: data}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".text":
			doc.Text = string(data)
			doc.ContentType = "text/plain"
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadStoredProfile(ctx context.Context, database *db.DB, rawID string) (*db.ProfileRecord, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid profile-id: %w", err)
	}
	record, err := database.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("profile not found: %s", id)
	}
	return record, nil
}

// saveBuildResult creates or updates the profile and records every input document.
func saveBuildResult(ctx context.Context, database *db.DB, existing *db.ProfileRecord, result *pipeline.Result) (*db.ProfileRecord, error) {
	var (
		record *db.ProfileRecord
		err    error
	)
	if existing != nil {
		record, err = database.UpdateProfile(ctx, existing.ID, result.Profile)
	} else {
		record, err = database.CreateProfile(ctx, result.Profile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	for _, doc := range result.Documents {
		if _, err := database.SaveDocument(ctx, documentInput(record.ID, doc)); err != nil {
			return nil, fmt.Errorf("failed to save document %s: %w", doc.Name, err)
		}
	}
	return record, nil
}

func documentInput(profileID uuid.UUID, doc pipeline.DocumentResult) *db.DocumentCreateInput {
	return &db.DocumentCreateInput{
		ProfileID:   &profileID,
		FileName:    doc.Name,
		ContentType: doc.Metadata.ContentType,
		SizeBytes:   doc.Metadata.Size,
		ContentHash: doc.Metadata.Hash,
		RawText:     doc.Text,
		Parsed:      doc.Parsed,
	}
}
