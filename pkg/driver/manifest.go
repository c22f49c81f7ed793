// Package driver provides the host-level collaborators fplc's core never
// implements itself: manifest parsing and an ImportResolver that serves
// IMPORT by consulting it (spec §4.4 "Import", SPEC_FULL.md EXPANSION
// "Configuration"). Grounded on the teacher's pkg/driver/manifest.go.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of fplc.yml: the project name, an
// ordered list of local import search paths, and a table of named import
// dependencies.
type Manifest struct {
	Path         string
	Name         string
	ImportPaths  []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec pins one named import to a source: either a git URL with
// exactly one of Rev/Tag/Branch, or a plain local Path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// ValidationError aggregates every manifest validation failure found, so a
// project author sees all of them in one pass rather than fixing one at a
// time.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses fplc.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for name, dep := range m.Dependencies {
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Path != "" && (d.Git != "" || d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "path overrides cannot also specify a git source")
		return errs
	}
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify either git or path")
		return errs
	}
	if d.Git != "" {
		count := 0
		for _, v := range []string{d.Rev, d.Tag, d.Branch} {
			if v != "" {
				count++
			}
		}
		if count != 1 {
			errs = append(errs, "git dependencies require exactly one of rev, tag, or branch")
		}
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	ImportPaths  stringList    `yaml:"import_paths"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var s string
			if err := node.Decode(&s); err != nil {
				return err
			}
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		*l = stringList(items)
		return nil
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence, found %s", value.ShortTag())
	}
}

type dependencyMap map[string]*DependencySpec

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = dependencyMap{}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := value.Content[i+1].Decode(&dep); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	deps := make(map[string]*DependencySpec, len(mf.Dependencies))
	for name, dep := range mf.Dependencies {
		deps[name] = dep
	}
	return &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		ImportPaths:  []string(mf.ImportPaths),
		Dependencies: deps,
	}
}
