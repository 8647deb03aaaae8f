// Package server provides the HTTP REST API for building and tailoring résumé profiles.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-profile/internal/db"
	"github.com/jonathan/resume-profile/internal/ingestion"
	"github.com/jonathan/resume-profile/internal/pipeline"
	"github.com/jonathan/resume-profile/internal/reconciliation"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/jonathan/resume-profile/internal/tailoring"
)

// ErrAIUnavailable is returned by AI-backed endpoints when no LLM client is configured.
var ErrAIUnavailable = errors.New("AI service is not configured")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates that the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrConflict indicates that the request repeats work already recorded
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		conflictErr   *ErrConflict
		schemaErr     *schemas.ValidationError
		fieldErrs     validator.ValidationErrors
		apiErr        *reconciliation.APICallError
		parseErr      *reconciliation.ParseError
		tooLargeErr   *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &validationErr),
		errors.As(err, &schemaErr),
		errors.As(err, &fieldErrs),
		errors.Is(err, ingestion.ErrExtractionFailed),
		errors.Is(err, pipeline.ErrNoDocuments),
		errors.Is(err, tailoring.ErrEmptyJobDescription),
		errors.Is(err, tailoring.ErrMissingProfile),
		reconciliation.IsInputError(err):
		return http.StatusBadRequest
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.Is(err, ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text shown to API clients for err. AI failures
// carry their human-readable message only, and internal errors are not exposed.
func PublicMessage(err error) string {
	var (
		apiErr   *reconciliation.APICallError
		parseErr *reconciliation.ParseError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
