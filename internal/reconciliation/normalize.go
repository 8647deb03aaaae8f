package reconciliation

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-profile/internal/types"
)

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":                "Go",
	"go lang":               "Go",
	"javascript":            "JavaScript",
	"js":                    "JavaScript",
	"typescript":            "TypeScript",
	"ts":                    "TypeScript",
	"k8s":                   "Kubernetes",
	"kubernetes":            "Kubernetes",
	"react.js":              "React",
	"reactjs":               "React",
	"vue.js":                "Vue",
	"vuejs":                 "Vue",
	"node.js":               "Node.js",
	"nodejs":                "Node.js",
	"node":                  "Node.js",
	"postgres":              "PostgreSQL",
	"postgresql":            "PostgreSQL",
	"amazon web services":   "AWS",
	"gcp":                   "Google Cloud",
	"google cloud platform": "Google Cloud",
}

// CanonicalSkill returns the canonical spelling of a skill name. Names
// without a known alias are returned trimmed but otherwise unchanged.
func CanonicalSkill(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := skillAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeSkills canonicalises skill names, removes case-insensitive
// duplicates across all categories and sorts each category alphabetically.
// Categories are visited in alphabetical order, so a skill listed under two
// categories stays in the first one. Categories left empty are dropped.
func NormalizeSkills(skills map[string][]string) map[string][]string {
	categories := make([]string, 0, len(skills))
	for category := range skills {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	seen := make(map[string]bool)
	out := make(map[string][]string, len(skills))
	for _, category := range categories {
		var kept []string
		for _, skill := range skills[category] {
			canonical := CanonicalSkill(skill)
			key := strings.ToLower(canonical)
			if canonical == "" || seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, canonical)
		}
		if len(kept) == 0 {
			continue
		}
		sort.SliceStable(kept, func(i, j int) bool {
			return strings.ToLower(kept[i]) < strings.ToLower(kept[j])
		})
		out[strings.TrimSpace(category)] = kept
	}
	return out
}

// applyPrimaryIdentity copies name, email and phone from the primary profile.
func applyPrimaryIdentity(merged, primary *types.CoreProfile) {
	merged.PersonalDetails.Name = primary.PersonalDetails.Name
	merged.PersonalDetails.Email = primary.PersonalDetails.Email
	merged.PersonalDetails.Phone = primary.PersonalDetails.Phone
}
