package segmentation

import (
	"regexp"
	"strings"
)

// genericHeading matches "Some Heading:" at a line start: a letter, then letters, spaces or ampersands.
var genericHeading = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z &]*?)[ \t]*:`)

// Heading is a generic "Heading:" line found anywhere in a document.
type Heading struct {
	Text         string
	Start        int
	ContentStart int
}

// FindHeadings returns every generic heading in document order.
// A URL scheme at a line start ("https://...") is not a heading.
func FindHeadings(text string) []Heading {
	locs := genericHeading.FindAllStringSubmatchIndex(text, -1)
	out := make([]Heading, 0, len(locs))
	for _, loc := range locs {
		if strings.HasPrefix(text[loc[1]:], "//") {
			continue
		}
		out = append(out, Heading{
			Text:         strings.TrimSpace(text[loc[2]:loc[3]]),
			Start:        loc[0],
			ContentStart: loc[1],
		})
	}
	return out
}

// AdditionalSections builds sections for headings whose text is not one of the
// six kind names. Qualified forms such as "Technical Skills" are kept here even
// though the kind scan also recognises them. Each section runs from just past
// its colon to the start of the next heading of any kind, whether generic or a
// kind span, or to the end of the document.
// When a heading text repeats, the last content wins at the first position.
func AdditionalSections(text string, headings []Heading, spans []Span) []AdditionalSection {
	out := make([]AdditionalSection, 0)
	index := make(map[string]int)

	for i, h := range headings {
		if _, known := ParseKind(h.Text); known {
			continue
		}

		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		for _, s := range spans {
			if s.Start >= h.ContentStart && s.Start < end {
				end = s.Start
				break
			}
		}

		content := strings.TrimSpace(text[h.ContentStart:end])
		if j, ok := index[h.Text]; ok {
			out[j].Content = content
			continue
		}
		index[h.Text] = len(out)
		out = append(out, AdditionalSection{Heading: h.Text, Content: content})
	}
	return out
}
