// Package reconciliation turns résumé text and parsed profiles into one
// canonical CoreProfile by delegating to an LLM under a fixed ruleset.
//
// The model is treated as an opaque text-in/text-out service. Every JSON
// response is unwrapped from <json_output> when present, stripped of code
// fences, validated against the core profile schema and only then decoded.
// Failures are surfaced as *APICallError or *ParseError and are never
// replaced with a locally computed result.
package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/prompts"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/types"
)

// Reconciler runs the AI-backed profile operations.
type Reconciler struct {
	client llm.Client
}

// New creates a Reconciler that calls client.
func New(client llm.Client) *Reconciler {
	return &Reconciler{client: client}
}

// MergeProfiles asks the model to consolidate secondaries into primary.
// Name, email and phone of the result always come from primary, and skills
// are canonicalised and deduplicated after the model answers.
func (r *Reconciler) MergeProfiles(ctx context.Context, primary *types.CoreProfile, secondaries []types.CoreProfile) (*types.CoreProfile, error) {
	if primary == nil {
		return nil, ErrMissingPrimary
	}
	if len(secondaries) == 0 {
		return nil, ErrNoProfilesToMerge
	}

	primaryJSON, err := json.MarshalIndent(primary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primary profile: %w", err)
	}
	secondaryJSON, err := json.MarshalIndent(secondaries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal secondary profiles: %w", err)
	}

	prompt, err := prompts.Render(prompts.ReconciliationFile, "merge-profiles", map[string]string{
		"ProfileShape":      profileShape(),
		"PrimaryProfile":    string(primaryJSON),
		"SecondaryProfiles": string(secondaryJSON),
		"SkillCategories":   quotedCategories(),
	})
	if err != nil {
		return nil, err
	}

	// Merging needs the <reasoning> block, so it cannot use JSON mode.
	raw, err := r.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{Message: MsgServiceUnavailable, Cause: err}
	}

	merged, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}

	applyPrimaryIdentity(merged, primary)
	merged.Skills = NormalizeSkills(merged.Skills)
	merged.Normalize()
	return merged, nil
}

// ExtractStructuredData asks the model to build a CoreProfile from raw
// résumé text.
func (r *Reconciler) ExtractStructuredData(ctx context.Context, resumeText string) (*types.CoreProfile, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResumeText
	}

	prompt, err := prompts.Render(prompts.ReconciliationFile, "extract-core-profile", map[string]string{
		"ProfileShape": profileShape(),
		"ResumeText":   resumeText,
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: MsgServiceUnavailable, Cause: err}
	}

	profile, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}
	profile.Normalize()
	return profile, nil
}

// ApplyProfileEdit applies a natural-language instruction to profile and
// returns the edited copy. profile itself is not modified.
func (r *Reconciler) ApplyProfileEdit(ctx context.Context, profile *types.CoreProfile, instruction string) (*types.CoreProfile, error) {
	if profile == nil {
		return nil, ErrMissingPrimary
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return nil, ErrEmptyInstruction
	}

	source, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	prompt, err := prompts.Render(prompts.ReconciliationFile, "edit-profile", map[string]string{
		"Instruction":   instruction,
		"SourceProfile": string(source),
	})
	if err != nil {
		return nil, err
	}

	raw, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: MsgServiceUnavailable, Cause: err}
	}

	edited, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}
	edited.Normalize()
	return edited, nil
}

// decodeProfile applies the response contract to a raw model reply.
func decodeProfile(raw string) (*types.CoreProfile, error) {
	payload := llm.JSONPayload(raw)

	var probe any
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, &ParseError{Message: MsgUnexpectedFormat, Cause: err, Raw: raw}
	}

	if err := schemas.ValidateCoreProfile(payload); err != nil {
		return nil, &ParseError{Message: MsgInvalidStructure, Cause: err, Raw: raw}
	}

	var profile types.CoreProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, &ParseError{Message: MsgUnexpectedFormat, Cause: err, Raw: raw}
	}
	return &profile, nil
}

func profileShape() string {
	return prompts.MustGet(prompts.ReconciliationFile, "core-profile-shape")
}

func quotedCategories() string {
	quoted := make([]string, len(types.SkillCategories))
	for i, c := range types.SkillCategories {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
