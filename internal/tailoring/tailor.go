// Package tailoring generates job-specific résumés from a core profile and
// records each generation as a history entry.
package tailoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/prompts"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/types"
)

// Input-format errors.
var (
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
	ErrMissingProfile      = errors.New("core profile is required")
	ErrEmptyResume         = errors.New("model returned an empty resume")
)

// UntitledGeneration titles a history entry when neither a job title nor a
// first line of the job description is available.
const UntitledGeneration = "Untitled Generation"

// Tailor produces tailored résumé text through an LLM.
type Tailor struct {
	client llm.Client
	now    func() time.Time
	newID  func() string
}

// New creates a Tailor that calls client.
func New(client llm.Client) *Tailor {
	return &Tailor{
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Generate writes a résumé for the job and returns it as a new history
// entry holding a snapshot of profile. The caller owns persisting it.
func (t *Tailor) Generate(ctx context.Context, profile *types.CoreProfile, jobTitle, jobDescription string) (*types.GenerationHistoryEntry, error) {
	if profile == nil {
		return nil, ErrMissingProfile
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	jobTitle = strings.TrimSpace(jobTitle)

	snapshot, err := profile.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot profile: %w", err)
	}
	snapshot.Normalize()

	profileJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	title := jobTitle
	if title == "" {
		title = "(not specified)"
	}
	prompt, err := prompts.Render(prompts.ReconciliationFile, "tailor-resume", map[string]string{
		"CoreProfile":    string(profileJSON),
		"JobTitle":       title,
		"JobDescription": jobDescription,
	})
	if err != nil {
		return nil, err
	}

	resume, err := t.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &reconciliation.APICallError{Message: reconciliation.MsgServiceUnavailable, Cause: err}
	}
	resume = strings.TrimSpace(resume)
	if resume == "" {
		return nil, &reconciliation.APICallError{Message: reconciliation.MsgServiceUnavailable, Cause: ErrEmptyResume}
	}

	return &types.GenerationHistoryEntry{
		ID:                  t.newID(),
		Timestamp:           t.now().UTC().Format(time.RFC3339),
		JobTitle:            historyTitle(jobTitle, jobDescription),
		JobDescription:      jobDescription,
		GeneratedResume:     resume,
		CoreProfileSnapshot: *snapshot,
	}, nil
}

// historyTitle falls back to the first line of the job description.
func historyTitle(jobTitle, jobDescription string) string {
	if jobTitle != "" {
		return jobTitle
	}
	first, _, _ := strings.Cut(jobDescription, "\n")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return UntitledGeneration
}
