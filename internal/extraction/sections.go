package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	skillSeparator  = regexp.MustCompile(`, ?|\n| • `)
	blockSeparator  = regexp.MustCompile(`\n\s*\n+`)
	techStackLabel  = regexp.MustCompile(`(?i)(?:tech stack|technologies used):?\s*(.*)`)
	techSeparator   = regexp.MustCompile(`, ?| • `)
	certSeparator   = regexp.MustCompile(`, ?| - `)
	leadingHyphenRe = regexp.MustCompile(`^-`)
)

// ParseSummary returns the trimmed summary text.
func ParseSummary(content string) string {
	return strings.TrimSpace(content)
}

// ParseSkills splits a skills section on commas, newlines and " • " separators.
// Tokens shorter than two characters are dropped.
func ParseSkills(content string) []string {
	skills := []string{}
	if strings.TrimSpace(content) == "" {
		return skills
	}
	for _, token := range skillSeparator.Split(content, -1) {
		token = strings.TrimSpace(leadingHyphenRe.ReplaceAllString(strings.TrimSpace(token), ""))
		if utf8.RuneCountInString(token) > 1 {
			skills = append(skills, token)
		}
	}
	return skills
}

// ParseExperience parses blank-line separated blocks of title, company, duration and description lines.
// Blocks with fewer than two lines are dropped.
func ParseExperience(content string) []ExperienceEntry {
	entries := []ExperienceEntry{}
	for _, lines := range splitBlocks(content) {
		if len(lines) < 2 {
			continue
		}
		entry := ExperienceEntry{
			Title:    lines[0],
			Company:  lines[1],
			Duration: NotAvailable,
		}
		if len(lines) > 2 {
			entry.Duration = lines[2]
		}
		if len(lines) > 3 {
			entry.Description = strings.Join(lines[3:], "\n")
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseEducation parses blocks of degree, university and year lines.
func ParseEducation(content string) []EducationEntry {
	entries := []EducationEntry{}
	for _, lines := range splitBlocks(content) {
		if len(lines) == 0 {
			continue
		}
		entry := EducationEntry{
			Degree:     lines[0],
			University: NotAvailable,
			Year:       NotAvailable,
		}
		if len(lines) > 1 {
			entry.University = lines[1]
		}
		if len(lines) > 2 {
			entry.Year = lines[2]
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseProjects parses blocks whose first line is the title. The remaining lines
// form the description, and a "Tech stack:" or "Technologies used:" label in it
// introduces the comma or bullet separated tech stack.
func ParseProjects(content string) []ProjectEntry {
	entries := []ProjectEntry{}
	for _, lines := range splitBlocks(content) {
		if len(lines) == 0 {
			continue
		}
		entry := ProjectEntry{
			Title:       lines[0],
			Description: strings.Join(lines[1:], " "),
			TechStack:   []string{},
		}
		if m := techStackLabel.FindStringSubmatch(entry.Description); m != nil {
			for _, tech := range techSeparator.Split(m[1], -1) {
				if tech = strings.TrimSpace(tech); tech != "" {
					entry.TechStack = append(entry.TechStack, tech)
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseCertifications parses one certification per line as name, authority and optional year,
// separated by commas or " - ". Blank lines are skipped.
func ParseCertifications(content string) []CertificationEntry {
	entries := []CertificationEntry{}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := certSeparator.Split(line, -1)
		entry := CertificationEntry{
			Name:      part(parts, 0, NotAvailable),
			Authority: part(parts, 1, NotAvailable),
			Year:      part(parts, 2, ""),
		}
		entries = append(entries, entry)
	}
	return entries
}

// splitBlocks splits content on runs of blank lines and returns each block's
// trimmed, non-empty lines. Blocks made only of whitespace come back empty.
func splitBlocks(content string) [][]string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	raw := blockSeparator.Split(strings.TrimSpace(content), -1)
	blocks := make([][]string, 0, len(raw))
	for _, block := range raw {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		blocks = append(blocks, lines)
	}
	return blocks
}

func part(parts []string, i int, fallback string) string {
	if i < len(parts) {
		if s := strings.TrimSpace(parts[i]); s != "" {
			return s
		}
	}
	return fallback
}
