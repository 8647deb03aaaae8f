package segmentation

import (
	"sort"
	"strings"
)

// Span is the byte range of one recognised section. Start is the offset of the
// heading line, ContentStart the offset just past the heading, and End the
// offset of the next recognised heading (or the document length). Ranges are half-open.
type Span struct {
	Kind         Kind   `json:"kind"`
	Heading      string `json:"heading"`
	Start        int    `json:"start"`
	ContentStart int    `json:"content_start"`
	End          int    `json:"end"`
}

// AdditionalSection is a section under a generic heading, such as "Volunteer Work".
type AdditionalSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Result is the outcome of segmenting one document.
type Result struct {
	Spans      []Span              `json:"spans"`
	Additional []AdditionalSection `json:"additional_sections"`
	Prefix     string              `json:"prefix"`

	contents map[Kind]string
}

// Content returns the trimmed content of a section kind, or "" when the kind was not found.
func (r *Result) Content(kind Kind) string {
	return r.contents[kind]
}

// Has reports whether a heading of the given kind was found.
func (r *Result) Has(kind Kind) bool {
	_, ok := r.contents[kind]
	return ok
}

// Sections returns the content of every kind, keyed by kind. Missing kinds map to "".
func (r *Result) Sections() map[Kind]string {
	out := make(map[Kind]string, len(Kinds))
	for _, k := range Kinds {
		out[k] = r.contents[k]
	}
	return out
}

// AdditionalMap returns additional sections keyed by their literal heading text.
func (r *Result) AdditionalMap() map[string]string {
	out := make(map[string]string, len(r.Additional))
	for _, a := range r.Additional {
		out[a.Heading] = a.Content
	}
	return out
}

// Segment runs the kind scan and the generic heading scan over text.
func Segment(text string) Result {
	spans := FindSpans(text)

	res := Result{
		Spans:      spans,
		Additional: AdditionalSections(text, FindHeadings(text), spans),
		Prefix:     text,
		contents:   make(map[Kind]string, len(spans)),
	}
	if len(spans) > 0 {
		res.Prefix = text[:spans[0].Start]
	}
	for _, s := range spans {
		res.contents[s.Kind] = strings.TrimSpace(text[s.ContentStart:s.End])
	}
	return res
}

// FindSpans locates the first heading of each section kind and returns the
// resulting spans in document order. A kind whose heading appears twice keeps
// only the first; the second is left inside the earlier section's content.
func FindSpans(text string) []Span {
	spans := make([]Span, 0, len(matchers))
	for _, m := range matchers {
		loc := m.find(text)
		if loc == nil {
			continue
		}
		spans = append(spans, Span{
			Kind:         m.kind,
			Heading:      headingText(text[loc[0]:loc[1]]),
			Start:        loc[0],
			ContentStart: loc[1],
		})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	for i := range spans {
		if i+1 < len(spans) {
			spans[i].End = spans[i+1].Start
		} else {
			spans[i].End = len(text)
		}
	}
	return spans
}

func headingText(match string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(match), ":"))
}
