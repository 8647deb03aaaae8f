package extraction

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/resume-profile/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeDoe = "Jane Doe\njane@x.com\nSkills:\nPython, Go, SQL\nExperience:\nEngineer\nAcme Corp\n2020-2022\nBuilt things\n\nEducation:\nBSc CS\nMIT\n2019"

func TestParseResume_JaneDoe(t *testing.T) {
	got := ParseResume(janeDoe)

	assert.Equal(t, "Jane Doe", got.PersonalDetails.Name)
	require.NotNil(t, got.PersonalDetails.Email)
	assert.Equal(t, "jane@x.com", *got.PersonalDetails.Email)
	assert.Nil(t, got.PersonalDetails.Phone)
	assert.Equal(t, []string{"Python", "Go", "SQL"}, got.Skills)
	assert.Equal(t, []ExperienceEntry{
		{Title: "Engineer", Company: "Acme Corp", Duration: "2020-2022", Description: "Built things"},
	}, got.Experience)
	assert.Equal(t, []EducationEntry{
		{Degree: "BSc CS", University: "MIT", Year: "2019"},
	}, got.Education)
	assert.Empty(t, got.Projects)
	assert.Empty(t, got.Certifications)
	assert.Empty(t, got.AdditionalSections)
}

func TestParseResume_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t\n"} {
		got := ParseResume(input)
		assert.Equal(t, Empty(), got)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"personalDetails": {"name": "", "email": null, "phone": null, "links": []},
			"summary": "",
			"skills": [],
			"experience": [],
			"education": [],
			"projects": [],
			"certifications": [],
			"additionalSections": {}
		}`, string(data))
	}
}

func TestParseResume_Idempotent(t *testing.T) {
	text := janeDoe + "\nProjects:\nTool\nA CLI. Tech stack: Go, Cobra\nCertifications:\nAWS Certified, Amazon, 2021\nVolunteer Work:\nMentoring"
	first := ParseResume(text)
	second := ParseResume(text)
	assert.Equal(t, first, second)
}

func TestParseResume_NoHeadingsUsesWholeTextAsContact(t *testing.T) {
	got := ParseResume("Jane Doe\n(555) 123-4567\nhttps://github.com/jane")

	assert.Equal(t, "Jane Doe", got.PersonalDetails.Name)
	require.NotNil(t, got.PersonalDetails.Phone)
	assert.Equal(t, "(555) 123-4567", *got.PersonalDetails.Phone)
	require.Len(t, got.PersonalDetails.Links, 1)
	assert.Equal(t, types.LinkGitHub, got.PersonalDetails.Links[0].Kind)
	assert.Empty(t, got.Skills)
	assert.Empty(t, got.Experience)
}

func TestParseResume_AdditionalSections(t *testing.T) {
	text := "Jane Doe\nSummary:\nBuilder\nVolunteer Work:\nFood bank\nSkills:\nGo, SQL"
	got := ParseResume(text)

	assert.Equal(t, map[string]string{"Volunteer Work": "Food bank"}, got.AdditionalSections)
	assert.Equal(t, "Builder\nVolunteer Work:\nFood bank", got.Summary)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)
}

func TestParseResume_Certifications(t *testing.T) {
	got := ParseResume("Jane\nCertifications:\nAWS Certified, Amazon, 2021")

	require.Len(t, got.Certifications, 1)
	assert.Equal(t, CertificationEntry{Name: "AWS Certified", Authority: "Amazon", Year: "2021"}, got.Certifications[0])
}

func TestParsedResume_ToCoreProfile(t *testing.T) {
	text := janeDoe + "\nProjects:\nTool\nA CLI. Tech stack: Go, Cobra\nCertifications:\nAWS Certified, Amazon, 2021"
	profile := ParseResume(text).ToCoreProfile()

	assert.Equal(t, "Jane Doe", profile.PersonalDetails.Name)
	assert.Equal(t, "jane@x.com", profile.PersonalDetails.Email)
	assert.Equal(t, "", profile.PersonalDetails.Phone)
	assert.Equal(t, map[string][]string{"Skills": {"Python", "Go", "SQL"}}, profile.Skills)

	require.Len(t, profile.Experience, 1)
	assert.Equal(t, []types.TextItem{types.PlainText("Built things")}, profile.Experience[0].Responsibilities)

	require.Len(t, profile.Education, 1)
	assert.Equal(t, types.Education{Degree: "BSc CS", University: "MIT", Year: "2019"}, profile.Education[0])

	require.Len(t, profile.Projects, 1)
	assert.Equal(t, []string{"Go", "Cobra"}, profile.Projects[0].TechStack)
	assert.Equal(t, []string{"A CLI. Tech stack: Go, Cobra"}, types.FlattenText(profile.Projects[0].Description))

	require.Len(t, profile.Certifications, 1)
	assert.Equal(t, "2021", profile.Certifications[0].Year)
}

func TestParsedResume_ToCoreProfile_Empty(t *testing.T) {
	profile := Empty().ToCoreProfile()

	assert.Empty(t, profile.Skills)
	assert.NotNil(t, profile.Experience)
	assert.NotNil(t, profile.PersonalDetails.Links)
	assert.Nil(t, profile.AdditionalSections)
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, dedupeFold([]string{"Go", "go", "SQL", "GO"}))
}
