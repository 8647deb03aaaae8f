package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-profile/internal/tailoring"
	"github.com/jonathan/resume-profile/internal/types"
	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Generate a résumé tailored to a job posting",
	Long: `Generate a Markdown résumé from a core profile, tailored to a job description.

With --profile-id the profile is loaded from the database and the generated résumé is
recorded in the profile's generation history.`,
	RunE: runTailor,
}

var (
	tailorConfigPath  string
	tailorProfileFile string
	tailorProfileID   string
	tailorJobTitle    string
	tailorJob         string
	tailorOutputFile  string
	tailorAPIKey      string
	tailorDatabaseURL string
	tailorVerbose     bool
)

func init() {
	tailorCmd.Flags().StringVar(&tailorConfigPath, "config", "", "Path to a JSON or YAML config file")
	tailorCmd.Flags().StringVarP(&tailorProfileFile, "profile", "p", "", "Path to a core profile JSON (mutually exclusive with --profile-id)")
	tailorCmd.Flags().StringVar(&tailorProfileID, "profile-id", "", "Stored profile to tailor (mutually exclusive with --profile)")
	tailorCmd.Flags().StringVarP(&tailorJobTitle, "job-title", "t", "", "Job title (optional)")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to the job description text file")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Path to output Markdown file (defaults to stdout)")
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	tailorCmd.Flags().StringVar(&tailorDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	tailorCmd.Flags().BoolVarP(&tailorVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = tailorCmd.MarkFlagRequired("job")
	tailorCmd.MarkFlagsMutuallyExclusive("profile", "profile-id")
	tailorCmd.MarkFlagsOneRequired("profile", "profile-id")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfigFile(tailorConfigPath, tailorVerbose)
	if err != nil {
		return err
	}

	jobDescription, err := os.ReadFile(tailorJob)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	client, err := newLLMClient(ctx, resolveAPIKey(tailorAPIKey, cfg), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	tailor := tailoring.New(client)

	var entry *types.GenerationHistoryEntry
	if tailorProfileFile != "" {
		profile, err := readProfileFile(tailorProfileFile)
		if err != nil {
			return err
		}
		entry, err = tailor.Generate(ctx, profile, tailorJobTitle, string(jobDescription))
		if err != nil {
			return fmt.Errorf("failed to tailor résumé: %w", err)
		}
	} else {
		database, err := connectDatabase(ctx, resolveDatabaseURL(tailorDatabaseURL, cfg))
		if err != nil {
			return err
		}
		defer database.Close()

		record, err := loadStoredProfile(ctx, database, tailorProfileID)
		if err != nil {
			return err
		}
		entry, err = tailor.Generate(ctx, &record.Profile, tailorJobTitle, string(jobDescription))
		if err != nil {
			return fmt.Errorf("failed to tailor résumé: %w", err)
		}
		if err := database.AppendHistory(ctx, record.ID, entry); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
		if tailorVerbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Recorded history entry %s\n", entry.ID)
		}
	}

	resume := []byte(entry.GeneratedResume + "\n")
	if tailorOutputFile == "" {
		_, err := os.Stdout.Write(resume)
		return err
	}
	if err := writeOutputFile(tailorOutputFile, resume); err != nil {
		return err
	}
	fmt.Printf("Output: %s\n", tailorOutputFile)
	return nil
}
