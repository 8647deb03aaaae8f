package tailoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/llm/llmtest"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *types.CoreProfile {
	return &types.CoreProfile{
		PersonalDetails: types.PersonalDetails{Name: "Jane Doe"},
		Summary:         "Go engineer.",
		Skills:          map[string][]string{"Languages": {"Go"}},
		Experience: []types.Experience{{
			Title: "Engineer", Company: "Acme",
			Responsibilities: []types.TextItem{types.TaggedText("Backend", "Built APIs")},
		}},
	}
}

func TestGenerate(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "\nJANE DOE\n- Built **Go** APIs\n", nil
		},
	}
	tailor := New(client)
	tailor.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600)) }

	profile := testProfile()
	entry, err := tailor.Generate(context.Background(), profile, " Backend Engineer ", "We need Go.")
	require.NoError(t, err)

	_, err = uuid.Parse(entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2024-03-01T11:00:00Z", entry.Timestamp)
	assert.Equal(t, "Backend Engineer", entry.JobTitle)
	assert.Equal(t, "We need Go.", entry.JobDescription)
	assert.Equal(t, "JANE DOE\n- Built **Go** APIs", entry.GeneratedResume)
	assert.Equal(t, "Jane Doe", entry.CoreProfileSnapshot.PersonalDetails.Name)

	// the snapshot is independent of the live profile
	profile.Skills["Languages"][0] = "Rust"
	assert.Equal(t, []string{"Go"}, entry.CoreProfileSnapshot.Skills["Languages"])

	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
	assert.Contains(t, calls[0].Prompt, "Target job title: Backend Engineer")
	assert.Contains(t, calls[0].Prompt, "We need Go.")
	assert.Contains(t, calls[0].Prompt, `"text": "Built APIs"`)
}

func TestGenerate_DistinctIDs(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "resume", nil
		},
	}
	tailor := New(client)

	a, err := tailor.Generate(context.Background(), testProfile(), "", "jd")
	require.NoError(t, err)
	b, err := tailor.Generate(context.Background(), testProfile(), "", "jd")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Contains(t, client.Calls()[0].Prompt, "Target job title: (not specified)")
}

func TestGenerate_HistoryTitleFallback(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"explicit title", "SRE", "Platform team\nOn call", "SRE"},
		{"first line of description", "  ", "  Staff Engineer, Payments \nWe need Go.", "Staff Engineer, Payments"},
		{"blank first line", "", "\nWe need Go.", UntitledGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &llmtest.MockClient{
				GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
					return "resume", nil
				},
			}
			entry, err := New(client).Generate(context.Background(), testProfile(), tt.title, tt.description)
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.JobTitle)
			assert.Equal(t, tt.description, entry.JobDescription)
		})
	}
}

func TestGenerate_InputErrors(t *testing.T) {
	client := &llmtest.MockClient{}
	tailor := New(client)

	_, err := tailor.Generate(context.Background(), testProfile(), "SWE", " \n ")
	assert.ErrorIs(t, err, ErrEmptyJobDescription)

	_, err = tailor.Generate(context.Background(), nil, "SWE", "jd")
	assert.ErrorIs(t, err, ErrMissingProfile)

	assert.Empty(t, client.Calls())
}

func TestGenerate_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		wantIs   error
	}{
		{"call fails", "", errors.New("quota"), nil},
		{"blank response", "   ", nil, ErrEmptyResume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &llmtest.MockClient{
				GenerateContentFunc: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
					return tt.response, tt.err
				},
			}

			entry, err := New(client).Generate(context.Background(), testProfile(), "SWE", "jd")
			assert.Nil(t, entry)
			var apiErr *reconciliation.APICallError
			require.ErrorAs(t, err, &apiErr)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
