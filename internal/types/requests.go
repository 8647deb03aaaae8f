package types

import (
	"github.com/go-playground/validator/v10"
)

// ParseResumeRequest is the body of a heuristic parse or segment request.
type ParseResumeRequest struct {
	Text string `json:"text" validate:"required"`
}

// MergeProfilesRequest asks for secondary profiles to be merged into a primary one.
type MergeProfilesRequest struct {
	Primary     *CoreProfile  `json:"primary" validate:"required"`
	Secondaries []CoreProfile `json:"secondaries" validate:"required,min=1"`
}

// EditProfileRequest carries a natural-language edit instruction.
type EditProfileRequest struct {
	Instruction string `json:"instruction" validate:"required,min=3"`
}

// TailorRequest asks for a résumé tailored to a job posting.
type TailorRequest struct {
	JobTitle       string `json:"job_title" validate:"max=200"`
	JobDescription string `json:"job_description" validate:"required"`
}

var validate = validator.New()

// Validate validates the ParseResumeRequest using the validator.
func (r *ParseResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the MergeProfilesRequest using the validator.
func (r *MergeProfilesRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the EditProfileRequest using the validator.
func (r *EditProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	return validate.Struct(r)
}
