package extraction

import (
	"strings"

	"github.com/jonathan/resume-profile/internal/segmentation"
	"github.com/jonathan/resume-profile/internal/types"
)

// Empty returns a parse result with every field empty and every collection allocated.
func Empty() ParsedResume {
	return ParsedResume{
		PersonalDetails: ContactBlock{
			Links: []types.Link{},
		},
		Skills:             []string{},
		Experience:         []ExperienceEntry{},
		Education:          []EducationEntry{},
		Projects:           []ProjectEntry{},
		Certifications:     []CertificationEntry{},
		AdditionalSections: map[string]string{},
	}
}

// ParseResume segments text and runs each section through its parser.
// Empty or whitespace-only text yields Empty(). It never fails.
func ParseResume(text string) ParsedResume {
	if strings.TrimSpace(text) == "" {
		return Empty()
	}

	seg := segmentation.Segment(text)

	return ParsedResume{
		PersonalDetails:    ParseContact(seg.Prefix),
		Summary:            ParseSummary(seg.Content(segmentation.KindSummary)),
		Skills:             ParseSkills(seg.Content(segmentation.KindSkills)),
		Experience:         ParseExperience(seg.Content(segmentation.KindExperience)),
		Education:          ParseEducation(seg.Content(segmentation.KindEducation)),
		Projects:           ParseProjects(seg.Content(segmentation.KindProjects)),
		Certifications:     ParseCertifications(seg.Content(segmentation.KindCertifications)),
		AdditionalSections: seg.AdditionalMap(),
	}
}

// ToCoreProfile converts a heuristic parse into a core profile. Skills land in a
// single "Skills" category with case-insensitive duplicates removed, and
// description lines become plain responsibility items.
func (r ParsedResume) ToCoreProfile() *types.CoreProfile {
	p := &types.CoreProfile{
		PersonalDetails: types.PersonalDetails{
			Name:  r.PersonalDetails.Name,
			Links: append([]types.Link{}, r.PersonalDetails.Links...),
		},
		Summary:        r.Summary,
		Skills:         map[string][]string{},
		Experience:     make([]types.Experience, 0, len(r.Experience)),
		Education:      make([]types.Education, 0, len(r.Education)),
		Projects:       make([]types.Project, 0, len(r.Projects)),
		Certifications: make([]types.Certification, 0, len(r.Certifications)),
	}
	if r.PersonalDetails.Email != nil {
		p.PersonalDetails.Email = *r.PersonalDetails.Email
	}
	if r.PersonalDetails.Phone != nil {
		p.PersonalDetails.Phone = *r.PersonalDetails.Phone
	}

	if skills := dedupeFold(r.Skills); len(skills) > 0 {
		p.Skills["Skills"] = skills
	}

	for _, e := range r.Experience {
		var lines []string
		if e.Description != "" {
			lines = strings.Split(e.Description, "\n")
		}
		p.Experience = append(p.Experience, types.Experience{
			Title:            e.Title,
			Company:          e.Company,
			Duration:         e.Duration,
			Responsibilities: types.PlainTexts(lines),
		})
	}

	for _, e := range r.Education {
		p.Education = append(p.Education, types.Education(e))
	}

	for _, pr := range r.Projects {
		desc := []types.TextItem{}
		if pr.Description != "" {
			desc = append(desc, types.PlainText(pr.Description))
		}
		p.Projects = append(p.Projects, types.Project{
			Title:       pr.Title,
			Description: desc,
			TechStack:   append([]string{}, pr.TechStack...),
		})
	}

	for _, c := range r.Certifications {
		p.Certifications = append(p.Certifications, types.Certification(c))
	}

	if len(r.AdditionalSections) > 0 {
		p.AdditionalSections = make(map[string]string, len(r.AdditionalSections))
		for k, v := range r.AdditionalSections {
			p.AdditionalSections[k] = v
		}
	}

	p.Normalize()
	return p
}

func dedupeFold(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
