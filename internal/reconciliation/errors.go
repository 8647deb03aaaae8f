package reconciliation

import (
	"errors"
	"fmt"
)

// Input-format errors. They are returned before any AI call is made.
var (
	ErrEmptyResumeText   = errors.New("resume text cannot be empty")
	ErrEmptyInstruction  = errors.New("edit instruction cannot be empty")
	ErrNoProfilesToMerge = errors.New("at least one secondary profile is required to merge")
	ErrMissingPrimary    = errors.New("primary profile is required")
)

// Messages carried by the typed errors below.
const (
	MsgServiceUnavailable = "the AI service is currently unavailable or encountered an error"
	MsgUnexpectedFormat   = "AI returned a response in an unexpected format"
	MsgInvalidStructure   = "AI failed to return a valid profile structure"
)

// APICallError represents a failure talking to the AI service
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an AI response that could not be turned into a profile
type ParseError struct {
	Message string
	Cause   error
	// Raw is the unmodified model response, kept for diagnostics.
	Raw string
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsInputError reports whether err is one of the input-format errors above.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyResumeText) ||
		errors.Is(err, ErrEmptyInstruction) ||
		errors.Is(err, ErrNoProfilesToMerge) ||
		errors.Is(err, ErrMissingPrimary)
}
