package main

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-profile/internal/extraction"
	"github.com/jonathan/resume-profile/internal/pipeline"
	"github.com/jonathan/resume-profile/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restore resets command globals after a test.
func restore[T any](t *testing.T, ptr *T, value T) {
	t.Helper()
	old := *ptr
	*ptr = value
	t.Cleanup(func() { *ptr = old })
}

func TestRunParse(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "parsed.json")
	restore(t, &parseInputFile, writeFile(t, dir, "jane.txt", janeResume))
	restore(t, &parseOutputFile, out)
	restore(t, &parseSegments, false)
	restore(t, &parseVerbose, true)

	require.NoError(t, runParse(parseCmd, nil))

	parsed := decodeFile[extraction.ParsedResume](t, out)
	assert.Equal(t, "Jane Doe", parsed.PersonalDetails.Name)
	require.NotNil(t, parsed.PersonalDetails.Email)
	assert.Equal(t, "jane@x.com", *parsed.PersonalDetails.Email)
	assert.Equal(t, []string{"Go", "Python", "go"}, parsed.Skills)
}

func TestRunParse_Segments(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "segments.json")
	restore(t, &parseInputFile, writeFile(t, dir, "jane.txt", janeResume+"\nVolunteer Work:\nMentor\n"))
	restore(t, &parseOutputFile, out)
	restore(t, &parseSegments, true)
	restore(t, &parseVerbose, false)

	require.NoError(t, runParse(parseCmd, nil))

	seg := decodeFile[segmentOutput](t, out)
	assert.Equal(t, "Jane Doe\njane@x.com\n\n", seg.Prefix)
	require.Len(t, seg.Spans, 1)
	assert.Equal(t, "Skills", seg.Spans[0].Heading)
	assert.Empty(t, seg.Sections["experience"])
	require.Len(t, seg.AdditionalSections, 1)
	assert.Equal(t, "Volunteer Work", seg.AdditionalSections[0].Heading)
}

func TestRunParse_UnsupportedFormat(t *testing.T) {
	restore(t, &parseInputFile, writeFile(t, t.TempDir(), "photo.png", "\x89PNG\r\n\x1a\n"))
	restore(t, &parseOutputFile, "")

	err := runParse(parseCmd, nil)
	assert.ErrorContains(t, err, "please upload a PDF or DOCX file")
}

func TestRunBuildProfile_Offline(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "profile.json")
	restore(t, &buildConfigPath, writeFile(t, dir, "config.yml", "offline: true\nconcurrency: 1\n"))
	restore(t, &buildInputs, []string{writeFile(t, dir, "jane.txt", janeResume)})
	restore(t, &buildOutputFile, out)
	restore(t, &buildExisting, "")
	restore(t, &buildSave, false)
	restore(t, &buildProfileID, "")

	require.NoError(t, runBuildProfile(buildProfileCmd, nil))

	profile := decodeFile[types.CoreProfile](t, out)
	assert.Equal(t, "Jane Doe", profile.PersonalDetails.Name)
	assert.Equal(t, "jane@x.com", profile.PersonalDetails.Email)
	assert.Equal(t, map[string][]string{"Skills": {"Go", "Python"}}, profile.Skills)
}

func TestRunBuildProfile_OfflineMergeRejected(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "jane.txt", janeResume)
	restore(t, &buildConfigPath, writeFile(t, dir, "config.yml", "offline: true\n"))
	restore(t, &buildInputs, []string{resume, resume})
	restore(t, &buildOutputFile, filepath.Join(dir, "profile.json"))
	restore(t, &buildExisting, "")
	restore(t, &buildSave, false)
	restore(t, &buildProfileID, "")

	err := runBuildProfile(buildProfileCmd, nil)
	assert.ErrorIs(t, err, pipeline.ErrOfflineMerge)
}

func TestRunBuildProfile_ExistingWithSave(t *testing.T) {
	restore(t, &buildConfigPath, "")
	restore(t, &buildExisting, "profile.json")
	restore(t, &buildSave, true)

	err := runBuildProfile(buildProfileCmd, nil)
	assert.ErrorContains(t, err, "--existing cannot be combined")
}

func TestRunBuildProfile_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	restore(t, &buildConfigPath, "")
	restore(t, &buildInputs, []string{writeFile(t, dir, "jane.txt", janeResume)})
	restore(t, &buildExisting, "")
	restore(t, &buildSave, false)
	restore(t, &buildProfileID, "")
	restore(t, &buildAPIKey, "")

	err := runBuildProfile(buildProfileCmd, nil)
	assert.ErrorContains(t, err, "GEMINI_API_KEY environment variable or --api-key flag is required")
}

func TestRunEdit_EmptyInstruction(t *testing.T) {
	restore(t, &editConfigPath, "")
	restore(t, &editInstruction, "   ")

	assert.Error(t, runEdit(editCmd, nil))
}

func TestRunTailor_MissingJobFile(t *testing.T) {
	restore(t, &tailorConfigPath, "")
	restore(t, &tailorJob, filepath.Join(t.TempDir(), "missing.txt"))

	err := runTailor(tailorCmd, nil)
	assert.ErrorContains(t, err, "failed to read job description")
}

func TestServeConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")
	t.Setenv("PORT", "9090")
	t.Setenv("MINIO_ENDPOINT", "")
	restore(t, &serveConfigPath, writeFile(t, t.TempDir(), "config.yaml", "concurrency: 2\nport: 7070\n"))
	restore(t, &servePort, 0)

	cfg, err := serveConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "resumes", cfg.MinIO.Bucket)

	servePort = 6060
	cfg, err = serveConfig()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Port)
}

func TestServeConfig_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	restore(t, &serveConfigPath, "")
	restore(t, &servePort, 0)

	_, err := serveConfig()
	assert.ErrorContains(t, err, "DATABASE_URL environment variable is required")
}

// getBinaryPath returns the path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "resume_agent")
	if _, err := exec.LookPath(binaryPath); err != nil {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}
	return binaryPath
}

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"parse without --in", []string{"parse"}, `required flag(s) "in" not set`},
		{"build-profile without --in", []string{"build-profile"}, `required flag(s) "in" not set`},
		{"merge without --secondary", []string{"merge", "--primary", "p.json"}, `required flag(s) "secondary" not set`},
		{"edit without a profile", []string{"edit", "--instruction", "Add Go"}, "at least one of the flags in the group [profile profile-id] is required"},
		{"tailor with both profiles", []string{"tailor", "--job", "job.txt", "--profile", "p.json", "--profile-id", "x"}, "none of the others can be"},
		{"history without a target", []string{"history"}, "at least one of the flags in the group [profile-id delete] is required"},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := exec.Command(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}
