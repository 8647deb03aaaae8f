// Package schemas provides JSON Schema validation for profile documents
// produced by the AI service or supplied by users.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// CoreProfileSchemaName identifies the embedded core profile schema in errors.
const CoreProfileSchemaName = "core_profile.schema.json"

//go:embed core_profile.schema.json
var coreProfileSchema string

var (
	coreProfileOnce   sync.Once
	coreProfileLoaded *gojsonschema.Schema
	coreProfileErr    error
)

// CoreProfileSchema returns the raw embedded core profile schema.
func CoreProfileSchema() string {
	return coreProfileSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the failing field paths in order.
func (ve *ValidationError) Fields() []string {
	fields := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		fields[i] = err.Field
	}
	return fields
}

// ValidateCoreProfile validates a JSON document against the embedded core
// profile schema. A document that is not JSON at all is reported as a
// ValidationError on (root).
func ValidateCoreProfile(jsonContent string) error {
	coreProfileOnce.Do(func() {
		coreProfileLoaded, coreProfileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(coreProfileSchema))
	})
	if coreProfileErr != nil {
		return &SchemaLoadError{Path: CoreProfileSchemaName, Message: "invalid embedded schema", Cause: coreProfileErr}
	}

	result, err := coreProfileLoaded.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return resultError(result)
}

// ValidateCoreProfileFile validates a profile file on disk.
func ValidateCoreProfileFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve profile path: %w", err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile file not found: %s", absPath)
		}
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	return ValidateCoreProfile(string(data))
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
