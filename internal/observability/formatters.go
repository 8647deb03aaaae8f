// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/segmentation"
	"github.com/jonathan/resume-profile/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to fit the box, counting runes so accented
// names are never cut mid-character.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// writeList writes up to maxItemsToShow items under a heading.
func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%d):\n", heading, len(items)))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return "(none)"
	}
	return *s
}

// PrintSegments outputs the section boundaries found in a document.
func (p *Printer) PrintSegments(name string, result segmentation.Result) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Contact block: %d bytes\n\n", len(result.Prefix)))
	if len(result.Spans) == 0 {
		sb.WriteString("No known section headings found\n")
	}
	for _, span := range result.Spans {
		sb.WriteString(fmt.Sprintf("%-15s %q  [%d, %d)\n", span.Kind, span.Heading, span.Start, span.End))
	}
	if len(result.Additional) > 0 {
		sb.WriteString("\nAdditional sections:\n")
		for _, extra := range result.Additional {
			sb.WriteString(fmt.Sprintf("  • %s (%d bytes)\n", extra.Heading, len(extra.Content)))
		}
	}

	p.printBox("SECTIONS: "+name, sb.String())
}

// PrintParsedResume outputs a human-readable summary of a heuristically parsed résumé.
func (p *Printer) PrintParsedResume(name string, resume *extraction.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	contact := resume.PersonalDetails
	sb.WriteString(fmt.Sprintf("Name:     %s\n", contact.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orNone(contact.Email)))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", orNone(contact.Phone)))
	sb.WriteString(fmt.Sprintf("Links:    %d\n\n", len(contact.Links)))

	writeList(&sb, "Skills", resume.Skills)

	roles := make([]string, len(resume.Experience))
	for i, e := range resume.Experience {
		roles[i] = fmt.Sprintf("%s @ %s (%s)", e.Title, e.Company, e.Duration)
	}
	writeList(&sb, "Experience", roles)

	schools := make([]string, len(resume.Education))
	for i, e := range resume.Education {
		schools[i] = fmt.Sprintf("%s, %s (%s)", e.Degree, e.University, e.Year)
	}
	writeList(&sb, "Education", schools)

	projects := make([]string, len(resume.Projects))
	for i, pr := range resume.Projects {
		projects[i] = pr.Title
	}
	writeList(&sb, "Projects", projects)

	certs := make([]string, len(resume.Certifications))
	for i, c := range resume.Certifications {
		certs[i] = c.Name
	}
	writeList(&sb, "Certifications", certs)

	headings := make([]string, 0, len(resume.AdditionalSections))
	for h := range resume.AdditionalSections {
		headings = append(headings, h)
	}
	sort.Strings(headings)
	writeList(&sb, "Additional sections", headings)

	p.printBox("PARSED RESUME: "+name, sb.String())
}

// PrintCoreProfile outputs a human-readable summary of a core profile.
func (p *Printer) PrintCoreProfile(profile *types.CoreProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.PersonalDetails.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.PersonalDetails.Email))
	sb.WriteString(fmt.Sprintf("Skills:   %d in %d categories\n\n", profile.SkillCount(), len(profile.Skills)))

	categories := make([]string, 0, len(profile.Skills))
	for c := range profile.Skills {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for i, c := range categories {
		categories[i] = fmt.Sprintf("%s: %s", c, strings.Join(profile.Skills[c], ", "))
	}
	writeList(&sb, "Skill categories", categories)

	roles := make([]string, len(profile.Experience))
	for i, e := range profile.Experience {
		roles[i] = fmt.Sprintf("%s @ %s (%d bullets)", e.Title, e.Company, len(e.Responsibilities))
	}
	writeList(&sb, "Experience", roles)

	sb.WriteString(fmt.Sprintf("Education: %d  Projects: %d  Certifications: %d\n",
		len(profile.Education), len(profile.Projects), len(profile.Certifications)))

	p.printBox("CORE PROFILE", sb.String())
}

// PrintHistory outputs a table of tailoring history entries.
func (p *Printer) PrintHistory(entries []types.GenerationHistoryEntry) {
	if len(entries) == 0 {
		p.printBox("GENERATION HISTORY", "No entries")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		title := e.JobTitle
		if title == "" {
			title = "(untitled)"
		}
		sb.WriteString(fmt.Sprintf("%s  %s\n", e.Timestamp, title))
		sb.WriteString(fmt.Sprintf("  id: %s\n", e.ID))
	}
	p.printBox(fmt.Sprintf("GENERATION HISTORY (%d)", len(entries)), sb.String())
}
