package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/tailoring"
	"github.com/jonathan/resume-profile/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "profile_id", Message: "must be a UUID"}
	assert.Equal(t, "validation error: profile_id - must be a UUID", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "profile", ID: "42"}
	assert.Equal(t, "profile not found: 42", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	requestErr := (&types.TailorRequest{}).Validate()
	require.Error(t, requestErr)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"unsupported format", fmt.Errorf("document x: %w", ingestion.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{"corrupt document", fmt.Errorf("%w: bad zip", ingestion.ErrExtractionFailed), http.StatusBadRequest},
		{"empty resume text", reconciliation.ErrEmptyResumeText, http.StatusBadRequest},
		{"empty job description", tailoring.ErrEmptyJobDescription, http.StatusBadRequest},
		{"request validation", requestErr, http.StatusBadRequest},
		{"schema validation", &schemas.ValidationError{}, http.StatusBadRequest},
		{"db not found", fmt.Errorf("delete: %w", db.ErrNotFound), http.StatusNotFound},
		{"api call", &reconciliation.APICallError{Message: reconciliation.MsgServiceUnavailable}, http.StatusBadGateway},
		{"parse", fmt.Errorf("merge: %w", &reconciliation.ParseError{Message: reconciliation.MsgUnexpectedFormat}), http.StatusBadGateway},
		{"conflict", &ErrConflict{Message: "cv.pdf has already been processed for this profile"}, http.StatusConflict},
		{"ai unavailable", ErrAIUnavailable, http.StatusServiceUnavailable},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	apiErr := fmt.Errorf("failed to merge profiles: %w", &reconciliation.APICallError{
		Message: reconciliation.MsgServiceUnavailable,
		Cause:   errors.New("dial tcp: secret-host:443"),
	})
	assert.Equal(t, reconciliation.MsgServiceUnavailable, PublicMessage(apiErr))

	parseErr := &reconciliation.ParseError{Message: reconciliation.MsgUnexpectedFormat, Raw: "Sorry"}
	assert.Equal(t, reconciliation.MsgUnexpectedFormat, PublicMessage(parseErr))

	assert.Equal(t, "Internal server error", PublicMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, tailoring.ErrEmptyJobDescription.Error(), PublicMessage(tailoring.ErrEmptyJobDescription))
}
