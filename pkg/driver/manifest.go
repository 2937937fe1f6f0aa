package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file the CLI looks for when run without arguments.
const ManifestName = "core.yml"

// Manifest describes a Core project: where its program and data live and the
// run options it wants.
type Manifest struct {
	Path    string          `yaml:"-"`
	Name    string          `yaml:"name"`
	Program string          `yaml:"program,omitempty"`
	Data    string          `yaml:"data,omitempty"`
	Source  *GitSource      `yaml:"source,omitempty"`
	Options ManifestOptions `yaml:"options,omitempty"`
}

// GitSource points at a program stored in a git repository.
type GitSource struct {
	Git  string `yaml:"git"`
	Rev  string `yaml:"rev,omitempty"`
	Path string `yaml:"path"`
}

// ManifestOptions override config file settings. Nil fields are unset.
type ManifestOptions struct {
	GCLog        *bool `yaml:"gc_log,omitempty"`
	MaxCallDepth *int  `yaml:"max_call_depth,omitempty"`
}

// LoadManifest parses a core.yml file.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var manifest Manifest
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}
	manifest.Path = abs
	if err := manifest.validate(); err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", abs, err)
	}
	return &manifest, nil
}

func (m *Manifest) validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Program = strings.TrimSpace(m.Program)
	m.Data = strings.TrimSpace(m.Data)
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch {
	case m.Program == "" && m.Source == nil:
		return fmt.Errorf("one of program or source is required")
	case m.Program != "" && m.Source != nil:
		return fmt.Errorf("program and source are mutually exclusive")
	}
	if m.Source != nil {
		if strings.TrimSpace(m.Source.Git) == "" || strings.TrimSpace(m.Source.Path) == "" {
			return fmt.Errorf("source needs git and path")
		}
	}
	return nil
}

// Dir is the directory holding the manifest.
func (m *Manifest) Dir() string { return filepath.Dir(m.Path) }

// ProgramPath resolves the local program file relative to the manifest.
func (m *Manifest) ProgramPath() string { return m.resolve(m.Program) }

// DataPath resolves the data file, or returns "" when none is configured.
func (m *Manifest) DataPath() string { return m.resolve(m.Data) }

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir(), p)
}

// FindManifest walks up from dir looking for core.yml.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("manifest: no %s found from %s", ManifestName, dir)
		}
		abs = parent
	}
}

// LoadSource returns the program text named by the manifest and a label for
// diagnostics. Git sources are labelled url@commit:path.
func (m *Manifest) LoadSource(ctx context.Context) (string, []byte, error) {
	if m.Source != nil {
		contents, commit, err := FetchGitFile(ctx, m.Source.Git, m.Source.Rev, m.Source.Path)
		if err != nil {
			return "", nil, fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		return fmt.Sprintf("%s@%s:%s", m.Source.Git, shortHash(commit), m.Source.Path), contents, nil
	}
	path := m.ProgramPath()
	contents, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("manifest %s: read program: %w", m.Name, err)
	}
	return path, contents, nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
