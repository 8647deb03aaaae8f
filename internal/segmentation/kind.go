// Package segmentation splits résumé text into sections by locating heading lines.
//
// Two independent scans run over the same text. The kind scan finds the first
// heading of each of the six recognised section kinds and slices the document
// between them. The generic scan finds every "Heading:" line and turns headings
// that are not a bare kind name into additional sections.
package segmentation

import (
	"regexp"
	"strings"
)

// Kind is a recognised résumé section.
type Kind string

// Section kinds in their canonical order
const (
	KindSummary        Kind = "summary"
	KindSkills         Kind = "skills"
	KindExperience     Kind = "experience"
	KindEducation      Kind = "education"
	KindProjects       Kind = "projects"
	KindCertifications Kind = "certifications"
)

// Kinds lists every recognised section kind.
var Kinds = []Kind{
	KindSummary,
	KindSkills,
	KindExperience,
	KindEducation,
	KindProjects,
	KindCertifications,
}

// headingNames holds the heading words accepted for each kind, including optional qualifiers.
var headingNames = map[Kind]string{
	KindSummary:        `(?:professional[ \t]+)?summary`,
	KindSkills:         `(?:technical[ \t]+)?skills|technologies`,
	KindExperience:     `(?:(?:professional|work)[ \t]+)?experience`,
	KindEducation:      `education|academic[ \t]+background`,
	KindProjects:       `projects`,
	KindCertifications: `(?:licenses[ \t]*&[ \t]*)?certifications`,
}

// kindMatcher holds the line-anchored heading expression for one kind.
// Compiled regexps are immutable and safe for concurrent use.
type kindMatcher struct {
	kind    Kind
	heading *regexp.Regexp
}

var matchers = buildMatchers()

func buildMatchers() []kindMatcher {
	out := make([]kindMatcher, 0, len(Kinds))
	for _, k := range Kinds {
		names := headingNames[k]
		out = append(out, kindMatcher{
			kind: k,
			// A heading ends with a colon, or stands alone on its line.
			heading: regexp.MustCompile(`(?im)^[ \t]*(?:` + names + `)[ \t]*(:|\r?$)`),
		})
	}
	return out
}

// find returns the offsets of the first heading of m's kind in text. A heading
// without a colon only counts when written in capitals ("EXPERIENCE"), so a
// stray "Projects" line inside another section does not split it.
func (m kindMatcher) find(text string) []int {
	for _, loc := range m.heading.FindAllStringSubmatchIndex(text, -1) {
		if text[loc[2]:loc[3]] == ":" {
			return loc[:2]
		}
		word := strings.TrimSpace(text[loc[0]:loc[1]])
		if word == strings.ToUpper(word) {
			return loc[:2]
		}
	}
	return nil
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
