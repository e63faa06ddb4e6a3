// Package content loads the read-only project records shown as markers in the scene.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed assets/projects.yaml
var defaultProjects []byte

// Links holds outbound references for a project.
type Links struct {
	Demo          string `yaml:"demo,omitempty" json:"demo,omitempty"`
	Source        string `yaml:"source,omitempty" json:"source,omitempty"`
	Documentation string `yaml:"documentation,omitempty" json:"documentation,omitempty"`
}

// Project is one portfolio entry. Records are never mutated by the scene.
type Project struct {
	ID           int      `yaml:"id" json:"id"`
	Title        string   `yaml:"title" json:"title"`
	Subtitle     string   `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies,omitempty" json:"technologies,omitempty"`
	Category     string   `yaml:"category,omitempty" json:"category,omitempty"`
	Year         string   `yaml:"year,omitempty" json:"year,omitempty"`
	Featured     bool     `yaml:"featured,omitempty" json:"featured,omitempty"`
	Links        Links    `yaml:"links,omitempty" json:"links,omitempty"`
}

type document struct {
	Projects []Project `yaml:"projects"`
}

// Parse decodes a YAML document with a top-level "projects" list.
// Every project must carry a unique positive id and a title.
//
// Parameters:
//   - data: the YAML bytes
//
// Returns:
//   - []Project: the decoded records in document order
//   - error: an error if decoding or validation fails
func Parse(data []byte) ([]Project, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	seen := make(map[int]bool, len(doc.Projects))
	for i, p := range doc.Projects {
		if p.ID <= 0 {
			return nil, fmt.Errorf("project %d: id must be positive, got %d", i, p.ID)
		}
		if p.Title == "" {
			return nil, fmt.Errorf("project %d (id %d): title is required", i, p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("project %d: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = true
	}
	return doc.Projects, nil
}

// Load reads and parses a projects file from disk.
//
// Parameters:
//   - path: path to the YAML file
//
// Returns:
//   - []Project: the decoded records
//   - error: an error if the file cannot be read or parsed
func Load(path string) ([]Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file %s: %w", path, err)
	}
	return Parse(b)
}

// Default returns the embedded project list.
func Default() []Project {
	projects, err := Parse(defaultProjects)
	if err != nil {
		panic(fmt.Sprintf("embedded projects are invalid: %v", err))
	}
	return projects
}
