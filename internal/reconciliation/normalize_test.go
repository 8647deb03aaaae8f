package reconciliation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSkill(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"golang", "Go"},
		{"NodeJS", "Node.js"},
		{" k8s ", "Kubernetes"},
		{"Rust", "Rust"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalSkill(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	in := map[string][]string{
		"Languages": {"python", "Go", "golang", "JS"},
		"Frontend":  {"ReactJS", "javascript", "css"},
		"Testing":   {" "},
	}

	got := NormalizeSkills(in)

	assert.Equal(t, map[string][]string{
		"Frontend":  {"css", "JavaScript", "React"},
		"Languages": {"Go", "python"},
	}, got)
	// input untouched
	assert.Equal(t, []string{"python", "Go", "golang", "JS"}, in["Languages"])
}

func TestNormalizeSkills_Empty(t *testing.T) {
	assert.Empty(t, NormalizeSkills(nil))
}
