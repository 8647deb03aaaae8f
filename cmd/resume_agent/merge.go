package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/types"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge core profiles into a primary profile",
	Long: `Consolidate one or more secondary core profiles into a primary profile using the AI service.
Name, email and phone always come from the primary profile.`,
	RunE: runMerge,
}

var (
	mergeConfigPath  string
	mergePrimary     string
	mergeSecondaries []string
	mergeOutputFile  string
	mergeAPIKey      string
	mergeVerbose     bool
)

func init() {
	mergeCmd.Flags().StringVar(&mergeConfigPath, "config", "", "Path to a JSON or YAML config file")
	mergeCmd.Flags().StringVarP(&mergePrimary, "primary", "p", "", "Path to the primary core profile JSON")
	mergeCmd.Flags().StringArrayVarP(&mergeSecondaries, "secondary", "s", nil, "Path to a secondary core profile JSON; repeat for several")
	mergeCmd.Flags().StringVarP(&mergeOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	mergeCmd.Flags().StringVar(&mergeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	mergeCmd.Flags().BoolVarP(&mergeVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = mergeCmd.MarkFlagRequired("primary")
	_ = mergeCmd.MarkFlagRequired("secondary")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfigFile(mergeConfigPath, mergeVerbose)
	if err != nil {
		return err
	}

	primary, err := readProfileFile(mergePrimary)
	if err != nil {
		return err
	}
	secondaries := make([]types.CoreProfile, 0, len(mergeSecondaries))
	for _, path := range mergeSecondaries {
		p, err := readProfileFile(path)
		if err != nil {
			return err
		}
		secondaries = append(secondaries, *p)
	}

	client, err := newLLMClient(ctx, resolveAPIKey(mergeAPIKey, cfg), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if mergeVerbose {
		fmt.Printf("[VERBOSE] Merging %d profile(s) into %s\n", len(secondaries), mergePrimary)
	}

	merged, err := reconciliation.New(client).MergeProfiles(ctx, primary, secondaries)
	if err != nil {
		return fmt.Errorf("failed to merge profiles: %w", err)
	}

	if mergeVerbose {
		observability.NewPrinter(os.Stdout).PrintCoreProfile(merged)
	}
	return writeJSON(mergeOutputFile, merged)
}
