package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/llm"
	"github.com/jonathan/resume-profile/internal/llm/llmtest"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/types"
)

const validProfileBody = `{"personalDetails": {"name": "Jane Doe", "email": "jane@x.com"}, "skills": {"Languages": ["Go"]}}`

func TestHandleCreateProfile(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.doJSON(http.MethodPost, "/profiles", validProfileBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	record := decodeBody[db.ProfileRecord](t, w)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "Jane Doe", record.Profile.PersonalDetails.Name)
	assert.NotNil(t, record.Profile.Experience)
	assert.Len(t, ts.store.profiles, 1)
}

func TestHandleCreateProfile_Invalid(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.doJSON(http.MethodPost, "/profiles", `{"personalDetails": {}, "skills": {"Go": 1}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	type invalidResponse struct {
		Error  string               `json:"error"`
		Fields []schemas.FieldError `json:"fields"`
	}
	resp := decodeBody[invalidResponse](t, w)
	assert.Equal(t, "Invalid profile", resp.Error)
	var fields []string
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, "skills.Go")

	w = ts.doJSON(http.MethodPost, "/profiles", "not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ts.store.profiles)
}

func TestHandleGetProfile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.seedProfile(t, "Jane Doe")

	w := ts.doJSON(http.MethodGet, "/profiles/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	record := decodeBody[db.ProfileRecord](t, w)
	assert.Equal(t, id, record.ID)
	assert.Equal(t, []string{"Go"}, record.Profile.Skills["Languages"])

	w = ts.doJSON(http.MethodGet, "/profiles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.doJSON(http.MethodGet, "/profiles/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid profile ID", decodeBody[map[string]string](t, w)["error"])
}

func TestHandleUpdateProfile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.seedProfile(t, "Jane Doe")

	body := `{"personalDetails": {"name": "Jane Q. Doe"}, "skills": {"Languages": ["Go", "Rust"]}}`
	w := ts.doJSON(http.MethodPut, "/profiles/"+id.String(), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Jane Q. Doe", decodeBody[db.ProfileRecord](t, w).Profile.PersonalDetails.Name)

	stored, _ := ts.store.GetProfile(context.Background(), id)
	assert.Equal(t, []string{"Go", "Rust"}, stored.Profile.Skills["Languages"])

	w = ts.doJSON(http.MethodPut, "/profiles/"+uuid.NewString(), body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.doJSON(http.MethodPut, "/profiles/"+id.String(), `{"skills": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeleteProfile(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.seedProfile(t, "Jane Doe")

	w := ts.doJSON(http.MethodDelete, "/profiles/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.store.profiles)

	w = ts.doJSON(http.MethodDelete, "/profiles/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMergeProfiles(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `<json_output>{"personalDetails": {"name": "J"}, "skills": {"Languages": ["golang", "python"]}}</json_output>`, nil
		},
	}
	ts := newTestServer(t, client)

	req := map[string]any{
		"primary":     map[string]any{"personalDetails": map[string]any{"name": "Jane Doe"}, "skills": map[string]any{}},
		"secondaries": []any{map[string]any{"personalDetails": map[string]any{"name": "Jane"}, "skills": map[string]any{}}},
	}
	w := ts.doJSON(http.MethodPost, "/profiles/merge", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	merged := decodeBody[types.CoreProfile](t, w)
	assert.Equal(t, "Jane Doe", merged.PersonalDetails.Name)
	assert.Equal(t, []string{"Go", "python"}, merged.Skills["Languages"])
	assert.Empty(t, ts.store.profiles)
}

func TestHandleMergeProfiles_Errors(t *testing.T) {
	failing := &llmtest.MockClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", errors.New("deadline exceeded")
		},
	}
	valid := `{"primary": {"personalDetails": {"name": "Jane"}, "skills": {}}, "secondaries": [{"personalDetails": {"name": "J"}, "skills": {}}]}`

	tests := []struct {
		name       string
		client     llm.Client
		body       string
		wantStatus int
		wantError  string
	}{
		{"malformed body", failing, "{", http.StatusBadRequest, "Invalid request body"},
		{"no secondaries", failing, `{"primary": {"personalDetails": {"name": "Jane"}}, "secondaries": []}`, http.StatusBadRequest, ""},
		{"missing primary", failing, `{"secondaries": [{}]}`, http.StatusBadRequest, ""},
		{"ai failure", failing, valid, http.StatusBadGateway, reconciliation.MsgServiceUnavailable},
		{"no ai client", nil, valid, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.client)
			w := ts.doJSON(http.MethodPost, "/profiles/merge", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[map[string]string](t, w)["error"])
			}
		})
	}
}

func TestHandleEditProfile(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `{"personalDetails": {"name": "Jane Doe", "email": "jane@x.com"}, "skills": {"Languages": ["Go", "Rust"]}}`, nil
		},
	}
	ts := newTestServer(t, client)
	id := ts.seedProfile(t, "Jane Doe")

	w := ts.doJSON(http.MethodPost, "/profiles/"+id.String()+"/edit", map[string]string{"instruction": "Add Rust to languages"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"Go", "Rust"}, decodeBody[db.ProfileRecord](t, w).Profile.Skills["Languages"])

	stored, _ := ts.store.GetProfile(context.Background(), id)
	assert.Equal(t, []string{"Go", "Rust"}, stored.Profile.Skills["Languages"])
	assert.Contains(t, client.Calls()[0].Prompt, "Add Rust to languages")
}

func TestHandleEditProfile_Errors(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "Sure! Here is your profile.", nil
		},
	}
	ts := newTestServer(t, client)
	id := ts.seedProfile(t, "Jane Doe")
	path := "/profiles/" + id.String() + "/edit"

	w := ts.doJSON(http.MethodPost, path, map[string]string{"instruction": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.doJSON(http.MethodPost, "/profiles/"+uuid.NewString()+"/edit", map[string]string{"instruction": "Add Rust"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.doJSON(http.MethodPost, path, map[string]string{"instruction": "Add Rust"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, reconciliation.MsgUnexpectedFormat, decodeBody[map[string]string](t, w)["error"])

	stored, _ := ts.store.GetProfile(context.Background(), id)
	assert.Equal(t, []string{"Go"}, stored.Profile.Skills["Languages"])
}
