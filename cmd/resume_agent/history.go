package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or delete a profile's generated résumés",
	Long:  "List the tailored résumés generated for a stored profile, newest first, or delete entries.",
	RunE:  runHistory,
}

var (
	historyProfileID   string
	historyDelete      string
	historyClear       bool
	historyJSON        bool
	historyDatabaseURL string
)

func init() {
	historyCmd.Flags().StringVar(&historyProfileID, "profile-id", "", "Stored profile whose history is listed or cleared")
	historyCmd.Flags().StringVar(&historyDelete, "delete", "", "Delete one history entry by ID")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every history entry of the profile")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print entries as JSON instead of a summary")
	historyCmd.Flags().StringVar(&historyDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	historyCmd.MarkFlagsMutuallyExclusive("delete", "clear")
	historyCmd.MarkFlagsMutuallyExclusive("delete", "profile-id")
	historyCmd.MarkFlagsOneRequired("profile-id", "delete")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	database, err := connectDatabase(ctx, resolveDatabaseURL(historyDatabaseURL, nil))
	if err != nil {
		return err
	}
	defer database.Close()

	if historyDelete != "" {
		id, err := uuid.Parse(historyDelete)
		if err != nil {
			return fmt.Errorf("invalid history entry ID: %w", err)
		}
		if err := database.DeleteHistoryEntry(ctx, id); err != nil {
			return fmt.Errorf("failed to delete history entry: %w", err)
		}
		fmt.Printf("Deleted history entry %s\n", id)
		return nil
	}

	record, err := loadStoredProfile(ctx, database, historyProfileID)
	if err != nil {
		return err
	}

	if historyClear {
		n, err := database.ClearHistory(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Deleted %d history entries\n", n)
		return nil
	}

	entries, err := database.ListHistory(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if historyJSON {
		return writeJSON("", entries)
	}
	observability.NewPrinter(os.Stdout).PrintHistory(entries)
	return nil
}
