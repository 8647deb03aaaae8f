package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-profile/internal/types"
)

var (
	emailPattern  = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern  = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	urlPattern    = regexp.MustCompile(`https?://[^\s,]+`)
	schemePattern = regexp.MustCompile(`^https?://`)
)

// ParseContact parses the identity block. The first non-empty line is the name.
// If an email is found and no link already contains it, a mailto link is placed first.
func ParseContact(prefix string) ContactBlock {
	block := ContactBlock{
		Name:  NotAvailable,
		Links: []types.Link{},
	}

	for _, line := range strings.Split(prefix, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			block.Name = line
			break
		}
	}

	if email := emailPattern.FindString(prefix); email != "" {
		block.Email = &email
	}
	if phone := phonePattern.FindString(prefix); phone != "" {
		block.Phone = &phone
	}

	for _, url := range urlPattern.FindAllString(prefix, -1) {
		block.Links = append(block.Links, types.Link{
			Kind:        linkKind(url),
			URL:         url,
			DisplayText: schemePattern.ReplaceAllString(url, ""),
		})
	}

	if block.Email != nil && !linksContain(block.Links, *block.Email) {
		email := types.Link{
			Kind:        types.LinkEmail,
			URL:         "mailto:" + *block.Email,
			DisplayText: *block.Email,
		}
		block.Links = append([]types.Link{email}, block.Links...)
	}

	return block
}

func linkKind(url string) types.LinkKind {
	switch {
	case strings.Contains(url, "linkedin.com"):
		return types.LinkLinkedIn
	case strings.Contains(url, "github.com"):
		return types.LinkGitHub
	case strings.Contains(url, "portfolio"), strings.Contains(url, "behance"):
		return types.LinkPortfolio
	default:
		return types.LinkOther
	}
}

func linksContain(links []types.Link, s string) bool {
	for _, l := range links {
		if strings.Contains(l.URL, s) {
			return true
		}
	}
	return false
}
