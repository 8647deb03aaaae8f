// Package types provides type definitions for structured data used throughout the resume-profile system.
package types

import "encoding/json"

// LinkKind classifies a contact link.
type LinkKind string

// Link kinds recognised in contact blocks
const (
	LinkEmail     LinkKind = "email"
	LinkPhone     LinkKind = "phone"
	LinkLinkedIn  LinkKind = "linkedin"
	LinkGitHub    LinkKind = "github"
	LinkPortfolio LinkKind = "portfolio"
	LinkOther     LinkKind = "other"
)

// Link is a contact link. DisplayText is the URL without its scheme.
type Link struct {
	Kind        LinkKind `json:"type"`
	URL         string   `json:"url"`
	DisplayText string   `json:"text"`
}

// PersonalDetails holds the identity block of a core profile
type PersonalDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Links []Link `json:"links"`
}

// Experience is a single role in a core profile
type Experience struct {
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Duration         string     `json:"duration"`
	Responsibilities []TextItem `json:"responsibilities"`
}

// Education is a single degree entry
type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       string `json:"year"`
}

// Project is a single project entry
type Project struct {
	Title       string     `json:"title"`
	Description []TextItem `json:"description"`
	TechStack   []string   `json:"techStack"`
	Link        string     `json:"link,omitempty"`
}

// Certification is a single certification entry
type Certification struct {
	Name      string `json:"name"`
	Authority string `json:"authority"`
	Year      string `json:"year,omitempty"`
}

// CoreProfile is the canonical, reconciled profile of one person.
// Skills are grouped by category name.
type CoreProfile struct {
	PersonalDetails    PersonalDetails     `json:"personalDetails"`
	Summary            string              `json:"summary"`
	Skills             map[string][]string `json:"skills"`
	Experience         []Experience        `json:"experience"`
	Education          []Education         `json:"education"`
	Projects           []Project           `json:"projects"`
	Certifications     []Certification     `json:"certifications"`
	AdditionalSections map[string]string   `json:"additionalSections,omitempty"`
}

// SkillCategories are the categories skills are grouped under when profiles are merged.
var SkillCategories = []string{
	"Languages",
	"Frontend",
	"Backend",
	"Databases",
	"DevOps & Cloud",
	"Testing",
	"Tools & Platforms",
	"Methodologies & Practices",
}

// Normalize replaces nil collections with empty ones so the profile
// always serializes with [] and {} instead of null.
func (p *CoreProfile) Normalize() {
	if p.PersonalDetails.Links == nil {
		p.PersonalDetails.Links = []Link{}
	}
	if p.Skills == nil {
		p.Skills = map[string][]string{}
	}
	for k, v := range p.Skills {
		if v == nil {
			p.Skills[k] = []string{}
		}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	for i := range p.Experience {
		if p.Experience[i].Responsibilities == nil {
			p.Experience[i].Responsibilities = []TextItem{}
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].Description == nil {
			p.Projects[i].Description = []TextItem{}
		}
		if p.Projects[i].TechStack == nil {
			p.Projects[i].TechStack = []string{}
		}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
}

// Clone returns a deep copy of the profile.
func (p *CoreProfile) Clone() (*CoreProfile, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var out CoreProfile
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SkillCount returns the total number of skills across all categories.
func (p *CoreProfile) SkillCount() int {
	n := 0
	for _, skills := range p.Skills {
		n += len(skills)
	}
	return n
}
