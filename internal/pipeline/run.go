// Package pipeline provides the high-level orchestration for building a core profile from résumé documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/observability"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/types"
)

// Stage names used in progress events and metrics
const (
	StageExtractText = "extract_text"
	StageParse       = "parse"
	StageAIExtract   = "ai_extract"
	StageReconcile   = "reconcile"
)

// DefaultConcurrency bounds how many documents are processed at once when Options.Concurrency is unset.
const DefaultConcurrency = 4

var (
	// ErrNoDocuments is returned when Run is called without any input.
	ErrNoDocuments = errors.New("no documents to process")
	// ErrNoClient is returned when AI steps are required but no client was configured.
	ErrNoClient = errors.New("an LLM client is required unless running offline")
	// ErrOfflineMerge is returned when several profiles would need merging in offline mode.
	ErrOfflineMerge = errors.New("merging profiles requires the AI service; run offline with a single document and no existing profile")
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Document string `json:"document,omitempty"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Document is one input résumé. When Text is set it is used as-is and
// Data is only consulted for metadata.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
	Text        string
}

// DocumentResult holds everything produced for one input document.
type DocumentResult struct {
	Name     string                  `json:"name"`
	Metadata *ingestion.Metadata     `json:"metadata"`
	Text     string                  `json:"text"`
	Parsed   extraction.ParsedResume `json:"parsed"`
	Profile  *types.CoreProfile      `json:"profile"`
}

// Options holds configuration for running the pipeline
type Options struct {
	Documents   []Document
	Existing    *types.CoreProfile // merged into when set
	Client      llm.Client
	Offline     bool
	Concurrency int
	Verbose     bool
	OnProgress  ProgressCallback
	Out         io.Writer // defaults to os.Stdout
	Metrics     *Metrics
}

// Result is the outcome of a pipeline run. Documents keep input order.
type Result struct {
	Documents []DocumentResult   `json:"documents"`
	Profile   *types.CoreProfile `json:"profile"`
	Merged    bool               `json:"merged"`
}

// run carries the per-call state shared by the document workers.
type run struct {
	opts    Options
	out     io.Writer
	printer *observability.Printer
	mu      sync.Mutex // serializes output and progress callbacks
}

func (r *run) emitProgress(step, document, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.OnProgress(ProgressEvent{
		Step:     step,
		Document: document,
		Message:  message,
		Content:  content,
	})
}

//nolint:errcheck // progress output; errors are not recoverable
func (r *run) verbosef(format string, args ...any) {
	if !r.opts.Verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "[VERBOSE] "+format+"\n", args...)
}

// Run builds a core profile from the given documents. Each document is
// extracted, parsed and turned into a profile independently; the profiles
// are then reconciled into one. The first failing document cancels the
// others and its error is returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if len(opts.Documents) == 0 {
		return nil, ErrNoDocuments
	}
	if opts.Offline {
		if opts.Existing != nil || len(opts.Documents) > 1 {
			return nil, ErrOfflineMerge
		}
	} else if opts.Client == nil {
		return nil, ErrNoClient
	}

	r := &run{opts: opts, out: opts.Out}
	if r.out == nil {
		r.out = os.Stdout
	}
	r.printer = observability.NewPrinter(r.out)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	fmt.Fprintf(r.out, "Step 1/2: Processing %d document(s)...\n", len(opts.Documents)) //nolint:errcheck

	results := make([]DocumentResult, len(opts.Documents))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, doc := range opts.Documents {
		g.Go(func() error {
			res, err := r.processDocument(gCtx, doc)
			opts.Metrics.countDocument(err)
			if err != nil {
				return fmt.Errorf("document %s: %w", doc.Name, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fmt.Fprintf(r.out, "Step 2/2: Reconciling profiles...\n") //nolint:errcheck
	started := time.Now()
	profile, merged, err := r.reconcile(ctx, results)
	opts.Metrics.observeStage(StageReconcile, started)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		r.printer.PrintCoreProfile(profile)
	}
	r.emitProgress(StageReconcile, "", fmt.Sprintf("Core profile ready with %d skills", profile.SkillCount()), profile)

	return &Result{Documents: results, Profile: profile, Merged: merged}, nil
}

// processDocument runs the strictly ordered per-document stages.
func (r *run) processDocument(ctx context.Context, doc Document) (*DocumentResult, error) {
	started := time.Now()
	text, meta, err := documentText(doc)
	r.opts.Metrics.observeStage(StageExtractText, started)
	if err != nil {
		return nil, err
	}
	r.verbosef("%s: extracted %d characters (sha256 %.12s)", doc.Name, meta.TextLength, meta.Hash)
	r.emitProgress(StageExtractText, doc.Name, fmt.Sprintf("Extracted %d characters", meta.TextLength), meta)

	started = time.Now()
	parsed := extraction.ParseResume(text)
	r.opts.Metrics.observeStage(StageParse, started)
	if r.opts.Verbose {
		r.mu.Lock()
		r.printer.PrintParsedResume(doc.Name, &parsed)
		r.mu.Unlock()
	}
	r.emitProgress(StageParse, doc.Name,
		fmt.Sprintf("Parsed %d skills and %d roles", len(parsed.Skills), len(parsed.Experience)), nil)

	var profile *types.CoreProfile
	if r.opts.Offline {
		profile = parsed.ToCoreProfile()
		r.verbosef("%s: offline mode, using heuristic profile", doc.Name)
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started = time.Now()
		profile, err = reconciliation.New(r.opts.Client).ExtractStructuredData(ctx, text)
		r.opts.Metrics.observeStage(StageAIExtract, started)
		if err != nil {
			return nil, err
		}
		r.emitProgress(StageAIExtract, doc.Name, "Extracted structured profile", nil)
	}

	return &DocumentResult{
		Name:     doc.Name,
		Metadata: meta,
		Text:     text,
		Parsed:   parsed,
		Profile:  profile,
	}, nil
}

// reconcile folds the per-document profiles into one. It reports whether a merge call was made.
func (r *run) reconcile(ctx context.Context, results []DocumentResult) (*types.CoreProfile, bool, error) {
	profiles := make([]types.CoreProfile, len(results))
	for i, res := range results {
		profiles[i] = *res.Profile
	}

	reconciler := reconciliation.New(r.opts.Client)
	switch {
	case r.opts.Existing != nil:
		r.verbosef("Merging %d profile(s) into the existing profile", len(profiles))
		merged, err := reconciler.MergeProfiles(ctx, r.opts.Existing, profiles)
		if err != nil {
			return nil, false, fmt.Errorf("failed to merge profiles: %w", err)
		}
		return merged, true, nil
	case len(profiles) == 1:
		return results[0].Profile, false, nil
	default:
		r.verbosef("Merging %d profiles with %s as primary", len(profiles), results[0].Name)
		merged, err := reconciler.MergeProfiles(ctx, results[0].Profile, profiles[1:])
		if err != nil {
			return nil, false, fmt.Errorf("failed to merge profiles: %w", err)
		}
		return merged, true, nil
	}
}

// documentText returns the cleaned text and metadata of a document.
func documentText(doc Document) (string, *ingestion.Metadata, error) {
	if doc.Text != "" {
		cleaned := ingestion.CleanText(doc.Text)
		data := doc.Data
		if data == nil {
			data = []byte(doc.Text)
		}
		contentType := doc.ContentType
		if contentType == "" {
			contentType = "text/plain"
		}
		return cleaned, ingestion.NewMetadata(doc.Name, contentType, data, cleaned), nil
	}

	contentType := ingestion.DetectFormat(doc.Name, doc.ContentType, doc.Data)
	raw, err := ingestion.ExtractText(doc.Name, contentType, doc.Data)
	if err != nil {
		return "", nil, err
	}
	cleaned := ingestion.CleanText(raw)
	return cleaned, ingestion.NewMetadata(doc.Name, contentType, doc.Data, cleaned), nil
}
