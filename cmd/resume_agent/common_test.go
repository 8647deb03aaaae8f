package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-profile/internal/config"
	"github.com/jonathan/resume-profile/internal/pipeline"
	"github.com/jonathan/resume-profile/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeResume = "Jane Doe\njane@x.com\n\nSkills:\nGo, Python, go\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadConfigFile("", false)
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)

	path := writeFile(t, dir, "config.yaml", "concurrency: 2\noffline: true\n")
	cfg, err = loadConfigFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.True(t, cfg.Offline)

	path = writeFile(t, dir, "bad.json", `{"concurrency": -1}`)
	_, err = loadConfigFile(path, false)
	assert.ErrorContains(t, err, "concurrency")

	_, err = loadConfigFile(filepath.Join(dir, "missing.json"), false)
	assert.ErrorContains(t, err, "failed to load config")
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	assert.Equal(t, "from-flag", resolveAPIKey("from-flag", &config.Config{APIKey: "from-file"}))
	assert.Equal(t, "from-file", resolveAPIKey("", &config.Config{APIKey: "from-file"}))
	assert.Equal(t, "from-env", resolveAPIKey("", &config.Config{}))
	assert.Equal(t, "from-env", resolveAPIKey("", nil))
}

func TestResolveDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")

	assert.Equal(t, "postgres://flag", resolveDatabaseURL("postgres://flag", nil))
	assert.Equal(t, "postgres://file", resolveDatabaseURL("", &config.Config{DatabaseURL: "postgres://file"}))
	assert.Equal(t, "postgres://env", resolveDatabaseURL("", nil))
}

func TestNewLLMClient_RequiresKey(t *testing.T) {
	_, err := newLLMClient(t.Context(), "", nil)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = newLLMClient(t.Context(), "key", &config.Config{Models: map[string]string{"huge": "x"}})
	assert.Error(t, err)
}

func TestConnectDatabase_RequiresURL(t *testing.T) {
	_, err := connectDatabase(t.Context(), "")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestReadProfileFile(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "profile.json", `{"personalDetails": {"name": "Jane Doe"}, "skills": {"Languages": ["Go"]}}`)
	profile, err := readProfileFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.PersonalDetails.Name)
	assert.NotNil(t, profile.Experience)

	path = writeFile(t, dir, "invalid.json", `{"personalDetails": {"name": "Jane Doe"}}`)
	_, err = readProfileFile(path)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = readProfileFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read profile")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	require.NoError(t, writeJSON(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestReadTextArg(t *testing.T) {
	path := writeFile(t, t.TempDir(), "instruction.txt", "Add Rust")

	got, err := readTextArg("Remove the summary")
	require.NoError(t, err)
	assert.Equal(t, "Remove the summary", got)

	got, err = readTextArg("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "Add Rust", got)

	_, err = readTextArg("@/does/not/exist")
	assert.Error(t, err)
}

func TestReadDocuments(t *testing.T) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "jane.txt", janeResume)
	pdf := writeFile(t, dir, "jane.pdf", "%PDF-1.4")

	docs, err := readDocuments([]string{txt, pdf})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "jane.txt", docs[0].Name)
	assert.Equal(t, janeResume, docs[0].Text)
	assert.Equal(t, "text/plain", docs[0].ContentType)

	assert.Equal(t, "jane.pdf", docs[1].Name)
	assert.Empty(t, docs[1].Text)
	assert.Equal(t, []byte("%PDF-1.4"), docs[1].Data)

	_, err = readDocuments(nil)
	assert.ErrorIs(t, err, pipeline.ErrNoDocuments)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.docx")})
	assert.Error(t, err)
}

func decodeFile[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}
