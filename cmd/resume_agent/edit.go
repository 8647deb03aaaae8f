package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/types"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply a natural-language edit to a core profile",
	Long: `Apply an instruction such as "Add Kubernetes to DevOps skills" to a core profile using the AI service.

The profile is read from --profile, or from the database with --profile-id, in which case the
edited profile is saved back.`,
	RunE: runEdit,
}

var (
	editConfigPath  string
	editProfileFile string
	editProfileID   string
	editInstruction string
	editOutputFile  string
	editAPIKey      string
	editDatabaseURL string
	editVerbose     bool
)

func init() {
	editCmd.Flags().StringVar(&editConfigPath, "config", "", "Path to a JSON or YAML config file")
	editCmd.Flags().StringVarP(&editProfileFile, "profile", "p", "", "Path to a core profile JSON (mutually exclusive with --profile-id)")
	editCmd.Flags().StringVar(&editProfileID, "profile-id", "", "Stored profile to edit (mutually exclusive with --profile)")
	editCmd.Flags().StringVar(&editInstruction, "instruction", "", "Edit instruction, or @file to read it from a file")
	editCmd.Flags().StringVarP(&editOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	editCmd.Flags().StringVar(&editAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	editCmd.Flags().StringVar(&editDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	editCmd.Flags().BoolVarP(&editVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = editCmd.MarkFlagRequired("instruction")
	editCmd.MarkFlagsMutuallyExclusive("profile", "profile-id")
	editCmd.MarkFlagsOneRequired("profile", "profile-id")
	rootCmd.AddCommand(editCmd)
}

func runEdit(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfigFile(editConfigPath, editVerbose)
	if err != nil {
		return err
	}

	instruction, err := readTextArg(editInstruction)
	if err != nil {
		return err
	}
	if strings.TrimSpace(instruction) == "" {
		return reconciliation.ErrEmptyInstruction
	}

	client, err := newLLMClient(ctx, resolveAPIKey(editAPIKey, cfg), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	reconciler := reconciliation.New(client)

	if editProfileFile != "" {
		profile, err := readProfileFile(editProfileFile)
		if err != nil {
			return err
		}
		edited, err := reconciler.ApplyProfileEdit(ctx, profile, instruction)
		if err != nil {
			return fmt.Errorf("failed to edit profile: %w", err)
		}
		printEdited(edited)
		return writeJSON(editOutputFile, edited)
	}

	database, err := connectDatabase(ctx, resolveDatabaseURL(editDatabaseURL, cfg))
	if err != nil {
		return err
	}
	defer database.Close()

	record, err := loadStoredProfile(ctx, database, editProfileID)
	if err != nil {
		return err
	}

	edited, err := reconciler.ApplyProfileEdit(ctx, &record.Profile, instruction)
	if err != nil {
		return fmt.Errorf("failed to edit profile: %w", err)
	}

	updated, err := database.UpdateProfile(ctx, record.ID, edited)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	printEdited(&updated.Profile)
	fmt.Fprintf(os.Stderr, "Saved profile %s\n", updated.ID)
	return writeJSON(editOutputFile, updated.Profile)
}

func printEdited(profile *types.CoreProfile) {
	if editVerbose {
		observability.NewPrinter(os.Stderr).PrintCoreProfile(profile)
	}
}
