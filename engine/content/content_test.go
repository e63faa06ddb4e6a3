package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProjects(t *testing.T) {
	projects := Default()
	require.Len(t, projects, 4)
	assert.Equal(t, 1, projects[0].ID)
	assert.Equal(t, "Climate Signal Explorer", projects[0].Title)
	assert.Equal(t, []string{"Spark", "SQL", "Streamlit"}, projects[0].Technologies)
	assert.Equal(t, "https://example.com/climate-signal", projects[0].Links.Source)
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	_, err := Parse([]byte("projects:\n  - id: 0\n    title: x\n"))
	assert.ErrorContains(t, err, "id must be positive")

	_, err = Parse([]byte("projects:\n  - id: 1\n"))
	assert.ErrorContains(t, err, "title is required")

	_, err = Parse([]byte("projects:\n  - id: 1\n    title: a\n  - id: 1\n    title: b\n"))
	assert.ErrorContains(t, err, "duplicate id 1")

	_, err = Parse([]byte("projects: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - id: 7\n    title: Seven\n"), 0o644))

	projects, err := Load(path)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Seven", projects[0].Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
