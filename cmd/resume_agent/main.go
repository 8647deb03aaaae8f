// Package main provides the command-line entry point for building résumé
// profiles and serving the profile HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Résumé profile builder and HTTP API server",
	Long: `resume_agent turns PDF, DOCX and plain-text résumés into a structured core profile.

Résumés are segmented into known sections, parsed heuristically and, unless running offline,
reconciled into one canonical profile by the AI service. Profiles can then be edited with
natural-language instructions and used to generate résumés tailored to a job posting.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
