package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/interpreter"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	writeFile(t, path, `
name: demo
program: src/main.core
data: input.data
options:
  gc_log: false
  max_call_depth: 20
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest error: %v", err)
	}
	if m.Name != "demo" {
		t.Fatalf("name = %q", m.Name)
	}
	if got, want := m.ProgramPath(), filepath.Join(dir, "src", "main.core"); got != want {
		t.Fatalf("ProgramPath = %q, want %q", got, want)
	}
	if got, want := m.DataPath(), filepath.Join(dir, "input.data"); got != want {
		t.Fatalf("DataPath = %q, want %q", got, want)
	}
	if m.Options.GCLog == nil || *m.Options.GCLog {
		t.Fatalf("gc_log = %v, want false", m.Options.GCLog)
	}
	if m.Options.MaxCallDepth == nil || *m.Options.MaxCallDepth != 20 {
		t.Fatalf("max_call_depth = %v, want 20", m.Options.MaxCallDepth)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown field", body: "name: x\nprogram: a.core\nentry: b\n", want: "field entry not found"},
		{name: "missing name", body: "program: a.core\n", want: "name is required"},
		{name: "no program", body: "name: x\n", want: "one of program or source"},
		{name: "both", body: "name: x\nprogram: a.core\nsource:\n  git: u\n  path: p\n", want: "mutually exclusive"},
		{name: "partial source", body: "name: x\nsource:\n  git: u\n", want: "source needs git and path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tc.body)
			_, err := LoadManifest(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "name: x\nprogram: a.core")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest error: %v", err)
	}
	if got != filepath.Join(root, ManifestName) {
		t.Fatalf("FindManifest = %q", got)
	}
}

func TestExecuteFiles(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "main.core")
	data := filepath.Join(dir, "input.data")
	writeFile(t, prog, "procedure p is object o; begin o = new object('n', 0); read(o); print(o['n'] + 1); end")
	writeFile(t, data, "41")

	var out strings.Builder
	if err := Execute(prog, data, interpreter.Options{Stdout: &out}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if want := "gc:1\n42\ngc:0\n"; out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}

	if err := Execute(filepath.Join(dir, "absent.core"), "", interpreter.Options{Stdout: &out}); err == nil {
		t.Fatalf("missing program accepted")
	}
}
