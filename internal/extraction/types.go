// Package extraction turns segmented résumé text into typed records.
//
// Every parser here is a pure function over a section's text. Missing or
// malformed sections never produce errors: they degrade to empty collections
// or records filled with "N/A".
package extraction

import "github.com/jonathan/resume-profile/internal/types"

// NotAvailable fills fields that a block did not provide.
const NotAvailable = "N/A"

// ContactBlock is the identity block parsed from the text before the first section.
// Email and Phone are nil when no match was found.
type ContactBlock struct {
	Name  string       `json:"name"`
	Email *string      `json:"email"`
	Phone *string      `json:"phone"`
	Links []types.Link `json:"links"`
}

// ExperienceEntry is one blank-line-separated block of the experience section.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// EducationEntry is one block of the education section.
type EducationEntry struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

// ProjectEntry is one block of the projects section.
type ProjectEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
}

// CertificationEntry is one line of the certifications section.
type CertificationEntry struct {
	Name      string `json:"name"`
	Authority string `json:"authority"`
	Year      string `json:"year,omitempty"`
}

// ParsedResume is the heuristic parse of a whole résumé.
// Collections are never nil.
type ParsedResume struct {
	PersonalDetails    ContactBlock         `json:"personalDetails"`
	Summary            string               `json:"summary"`
	Skills             []string             `json:"skills"`
	Experience         []ExperienceEntry    `json:"experience"`
	Education          []EducationEntry     `json:"education"`
	Projects           []ProjectEntry       `json:"projects"`
	Certifications     []CertificationEntry `json:"certifications"`
	AdditionalSections map[string]string    `json:"additionalSections"`
}
