package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/jonathan/resume-profile/internal/segmentation"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a résumé into sections and fields without the AI service",
	Long: `Extract the text of a PDF, DOCX or plain-text résumé, segment it into known sections
and parse each section heuristically. The result is printed as ParsedResume JSON.`,
	RunE: runParse,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseSegments   bool
	parseVerbose    bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the résumé (.pdf, .docx, .txt or .md)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	parseCmd.Flags().BoolVar(&parseSegments, "segments", false, "Output section spans instead of parsed fields")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = parseCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	text, meta, err := ingestion.LoadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}

	var debug io.Writer = io.Discard
	if parseVerbose {
		debug = os.Stderr
		fmt.Fprintf(debug, "[VERBOSE] Loaded %s (%s, %d bytes, %d characters of text)\n",
			meta.FileName, meta.ContentType, meta.Size, meta.TextLength)
	}

	if parseSegments {
		seg := segmentation.Segment(text)
		if parseVerbose {
			observability.NewPrinter(debug).PrintSegments(meta.FileName, seg)
		}
		return writeJSON(parseOutputFile, newSegmentOutput(seg))
	}

	parsed := extraction.ParseResume(text)
	if parseVerbose {
		observability.NewPrinter(debug).PrintParsedResume(meta.FileName, &parsed)
	}
	return writeJSON(parseOutputFile, parsed)
}

// segmentOutput is the JSON shape written by parse --segments.
type segmentOutput struct {
	Prefix             string                           `json:"prefix"`
	Spans              []segmentation.Span              `json:"spans"`
	Sections           map[segmentation.Kind]string     `json:"sections"`
	AdditionalSections []segmentation.AdditionalSection `json:"additional_sections"`
}

func newSegmentOutput(seg segmentation.Result) segmentOutput {
	out := segmentOutput{
		Prefix:             seg.Prefix,
		Spans:              seg.Spans,
		Sections:           seg.Sections(),
		AdditionalSections: seg.Additional,
	}
	if out.Spans == nil {
		out.Spans = []segmentation.Span{}
	}
	if out.AdditionalSections == nil {
		out.AdditionalSections = []segmentation.AdditionalSection{}
	}
	return out
}
